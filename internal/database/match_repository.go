package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/owdb/wrestlebot/internal/models"
)

// MatchRepository reads and repairs match rows for the integrity
// verifier. It works directly against the catalog schema rather than the
// bot API because repairs touch columns the API does not expose.
type MatchRepository struct {
	db *sql.DB
}

// NewMatchRepository creates a new match repository.
func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// ListTitleMatches loads matches that reference a title, with winner and
// participants attached.
func (r *MatchRepository) ListTitleMatches(ctx context.Context) ([]models.Match, error) {
	return r.listMatches(ctx, "m.title_id IS NOT NULL")
}

// ListMatchesWithWinner loads matches that have a recorded winner.
func (r *MatchRepository) ListMatchesWithWinner(ctx context.Context) ([]models.Match, error) {
	return r.listMatches(ctx, "m.winner_id IS NOT NULL")
}

func (r *MatchRepository) listMatches(ctx context.Context, where string) ([]models.Match, error) {
	query := fmt.Sprintf(`
		SELECT m.id, m.event_id, COALESCE(e.name, ''), e.date, m.title_id, COALESCE(t.name, ''),
		       m.winner_id, COALESCE(w.name, ''), COALESCE(m.match_text, ''), COALESCE(m.result, '')
		FROM matches m
		LEFT JOIN events e ON e.id = m.event_id
		LEFT JOIN titles t ON t.id = m.title_id
		LEFT JOIN wrestlers w ON w.id = m.winner_id
		WHERE %s
		ORDER BY m.id
	`, where)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		var m models.Match
		var eventID, titleID, winnerID sql.NullInt64
		var eventDate sql.NullTime
		if err := rows.Scan(&m.ID, &eventID, &m.EventName, &eventDate, &titleID, &m.TitleName,
			&winnerID, &m.WinnerName, &m.MatchText, &m.Result); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		if eventID.Valid {
			m.EventID = &eventID.Int64
		}
		if eventDate.Valid {
			m.EventDate = &eventDate.Time
		}
		if titleID.Valid {
			m.TitleID = &titleID.Int64
		}
		if winnerID.Valid {
			m.WinnerID = &winnerID.Int64
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range matches {
		participants, err := r.participants(ctx, matches[i].ID)
		if err != nil {
			return nil, err
		}
		matches[i].Participants = participants
	}
	return matches, nil
}

func (r *MatchRepository) participants(ctx context.Context, matchID int64) ([]models.Wrestler, error) {
	query := `
		SELECT w.id, w.name, w.slug
		FROM match_participants mp
		JOIN wrestlers w ON w.id = mp.wrestler_id
		WHERE mp.match_id = $1
		ORDER BY w.id
	`
	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Wrestler
	for rows.Next() {
		var w models.Wrestler
		if err := rows.Scan(&w.ID, &w.Name, &w.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, w)
	}
	return participants, rows.Err()
}

// SetWinner corrects a match's winner reference.
func (r *MatchRepository) SetWinner(ctx context.Context, matchID, wrestlerID int64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE matches SET winner_id = $1 WHERE id = $2", wrestlerID, matchID)
	if err != nil {
		return fmt.Errorf("failed to set winner on match %d: %w", matchID, err)
	}
	return nil
}

// ClearTitle removes a match's title reference.
func (r *MatchRepository) ClearTitle(ctx context.Context, matchID int64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE matches SET title_id = NULL WHERE id = $1", matchID)
	if err != nil {
		return fmt.Errorf("failed to clear title on match %d: %w", matchID, err)
	}
	return nil
}

// ReassignTitle points all matches referencing one title at another,
// used when duplicate titles are merged.
func (r *MatchRepository) ReassignTitle(ctx context.Context, fromTitleID, toTitleID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE matches SET title_id = $1 WHERE title_id = $2", toTitleID, fromTitleID)
	if err != nil {
		return 0, fmt.Errorf("failed to reassign title %d: %w", fromTitleID, err)
	}
	return res.RowsAffected()
}
