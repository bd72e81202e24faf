package models

import "time"

// Wrestler is the slice of the persisted wrestler record the integrity
// verifier needs.
type Wrestler struct {
	ID   int64
	Name string
	Slug string
}

// Title is a championship belt as persisted in the catalog.
type Title struct {
	ID          int64
	Name        string
	Slug        string
	PromotionID *int64
	MatchCount  int64
}

// CatalogEvent is a persisted wrestling event (show or TV episode).
type CatalogEvent struct {
	ID   int64
	Name string
	Slug string
	Date *time.Time
}

// Match is a persisted match row together with its relationships. TitleID
// and WinnerID are nullable references that the verifier may clear or
// correct.
type Match struct {
	ID           int64
	EventID      *int64
	EventName    string
	EventDate    *time.Time
	TitleID      *int64
	TitleName    string
	WinnerID     *int64
	WinnerName   string
	MatchText    string
	Result       string
	Participants []Wrestler
}

// ParticipantIDs returns the set of wrestler ids in the match.
func (m *Match) ParticipantIDs() map[int64]bool {
	ids := make(map[int64]bool, len(m.Participants))
	for _, w := range m.Participants {
		ids[w.ID] = true
	}
	return ids
}
