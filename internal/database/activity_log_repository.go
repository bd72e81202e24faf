package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/owdb/wrestlebot/internal/models"
)

// ActivityLogRepository persists the bot's activity trail.
type ActivityLogRepository struct {
	db *sql.DB
}

// NewActivityLogRepository creates a new activity log repository.
func NewActivityLogRepository(db *sql.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// Log stores one activity entry. Missing id and timestamp are filled in.
func (r *ActivityLogRepository) Log(ctx context.Context, entry models.ActivityLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	var detailsJSON []byte
	if entry.Details != nil {
		var err error
		detailsJSON, err = json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal details: %w", err)
		}
	}

	query := `
		INSERT INTO wrestlebot_activity_logs
			(id, timestamp, action, entity_type, entity_name, entity_id, source_url, batch_id, success, error, details, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.Timestamp,
		entry.Action,
		entry.EntityType,
		entry.EntityName,
		entry.EntityID,
		entry.SourceURL,
		entry.BatchID,
		entry.Success,
		entry.Error,
		detailsJSON,
		entry.DurationMs,
	)
	return err
}

// Recent retrieves the newest entries, optionally filtered by action.
func (r *ActivityLogRepository) Recent(ctx context.Context, limit int, action models.ActionType) ([]models.ActivityLog, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	query := `
		SELECT id, timestamp, action, entity_type, entity_name, entity_id, source_url, batch_id, success, error, details, duration_ms
		FROM wrestlebot_activity_logs
	`
	args := []interface{}{}
	if action != "" {
		query += " WHERE action = $1"
		args = append(args, action)
	}
	query += fmt.Sprintf(" ORDER BY timestamp DESC LIMIT %d", limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity logs: %w", err)
	}
	defer rows.Close()

	var entries []models.ActivityLog
	for rows.Next() {
		var entry models.ActivityLog
		var detailsJSON []byte
		var entityID sql.NullInt64
		var durationMs sql.NullInt64

		if err := rows.Scan(
			&entry.ID, &entry.Timestamp, &entry.Action, &entry.EntityType,
			&entry.EntityName, &entityID, &entry.SourceURL, &entry.BatchID,
			&entry.Success, &entry.Error, &detailsJSON, &durationMs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}

		if entityID.Valid {
			entry.EntityID = &entityID.Int64
		}
		if durationMs.Valid {
			ms := int(durationMs.Int64)
			entry.DurationMs = &ms
		}
		if len(detailsJSON) > 0 {
			if err := json.Unmarshal(detailsJSON, &entry.Details); err != nil {
				return nil, fmt.Errorf("failed to unmarshal details: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
