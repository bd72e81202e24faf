package models

import "time"

// ActionType classifies a bot action recorded in the activity log.
type ActionType string

const (
	ActionDiscovered       ActionType = "discovered"
	ActionCreated          ActionType = "created"
	ActionUpdated          ActionType = "updated"
	ActionSkipped          ActionType = "skipped"
	ActionEnriched         ActionType = "enriched"
	ActionViolationCleared ActionType = "violation_cleared"
	ActionViolationFixed   ActionType = "violation_fixed"
	ActionViolationFlagged ActionType = "violation_flagged"
)

// ActivityLog is one operator-visible record of something the bot did.
// Failures in a background daemon surface only through these rows and the
// structured logs.
type ActivityLog struct {
	ID         string
	Timestamp  time.Time
	Action     ActionType
	EntityType EntityType
	EntityName string
	EntityID   *int64
	SourceURL  string
	BatchID    string
	Success    bool
	Error      string
	Details    map[string]interface{}
	DurationMs *int
}
