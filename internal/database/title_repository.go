package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/owdb/wrestlebot/internal/models"
)

// TitleRepository reads and repairs championship rows.
type TitleRepository struct {
	db *sql.DB
}

// NewTitleRepository creates a new title repository.
func NewTitleRepository(db *sql.DB) *TitleRepository {
	return &TitleRepository{db: db}
}

// List loads all titles.
func (r *TitleRepository) List(ctx context.Context) ([]models.Title, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, slug, promotion_id FROM titles ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query titles: %w", err)
	}
	defer rows.Close()

	var titles []models.Title
	for rows.Next() {
		var t models.Title
		var promotionID sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &promotionID); err != nil {
			return nil, fmt.Errorf("failed to scan title: %w", err)
		}
		if promotionID.Valid {
			t.PromotionID = &promotionID.Int64
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

// DuplicateGroups finds titles sharing a slug. Each group is ordered by
// match count descending, so the first title is the canonical one; ties
// fall back to the lowest id.
func (r *TitleRepository) DuplicateGroups(ctx context.Context) (map[string][]models.Title, error) {
	query := `
		SELECT t.id, t.name, t.slug, t.promotion_id,
		       (SELECT COUNT(*) FROM matches m WHERE m.title_id = t.id) AS match_count
		FROM titles t
		WHERE t.slug IN (SELECT slug FROM titles GROUP BY slug HAVING COUNT(*) > 1)
		ORDER BY t.slug, match_count DESC, t.id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query duplicate titles: %w", err)
	}
	defer rows.Close()

	groups := map[string][]models.Title{}
	for rows.Next() {
		var t models.Title
		var promotionID sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &promotionID, &t.MatchCount); err != nil {
			return nil, fmt.Errorf("failed to scan title: %w", err)
		}
		if promotionID.Valid {
			t.PromotionID = &promotionID.Int64
		}
		groups[t.Slug] = append(groups[t.Slug], t)
	}
	return groups, rows.Err()
}

// Delete removes a title row, used after its matches were reassigned.
func (r *TitleRepository) Delete(ctx context.Context, titleID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM titles WHERE id = $1", titleID)
	if err != nil {
		return fmt.Errorf("failed to delete title %d: %w", titleID, err)
	}
	return nil
}

// PromotionID resolves a promotion slug to its row id, 0 when the
// promotion is not in the catalog.
func (r *TitleRepository) PromotionID(ctx context.Context, slug string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM promotions WHERE slug = $1", slug).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up promotion %q: %w", slug, err)
	}
	return id, nil
}

// SetPromotion fills a title's promotion reference.
func (r *TitleRepository) SetPromotion(ctx context.Context, titleID, promotionID int64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE titles SET promotion_id = $1 WHERE id = $2", promotionID, titleID)
	if err != nil {
		return fmt.Errorf("failed to set promotion on title %d: %w", titleID, err)
	}
	return nil
}
