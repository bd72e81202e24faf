package models

import (
	"strings"
)

// EntityType categorizes the catalog entities the bot discovers and enriches.
type EntityType string

const (
	EntityTypeWrestler    EntityType = "wrestler"
	EntityTypePromotion   EntityType = "promotion"
	EntityTypeEvent       EntityType = "event"
	EntityTypeTitle       EntityType = "title"
	EntityTypeVenue       EntityType = "venue"
	EntityTypeStable      EntityType = "stable"
	EntityTypeVideoGame   EntityType = "videogame"
	EntityTypeBook        EntityType = "book"
	EntityTypeDocumentary EntityType = "documentary"
	EntityTypePodcast     EntityType = "podcast"
)

// CandidateEntity is a not-yet-persisted entity produced by the discovery
// engine. It is discarded after a persistence attempt or an explicit skip.
type CandidateEntity struct {
	Type          EntityType
	Name          string // cleaned entity name
	SourceName    string // name as the external source knows it (e.g. a page title)
	DiscoveredVia string // provenance, e.g. "wikipedia category: WWE pay-per-view events"
	// Facts is the enrichment record fetched while validating the
	// candidate, carried along so persistence does not fetch twice.
	Facts *FactRecord
}

// Entity is a persisted catalog entity as returned by the entity store.
type Entity struct {
	ID     int64             `json:"id"`
	Type   EntityType        `json:"type"`
	Name   string            `json:"name"`
	Slug   string            `json:"slug"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Slugify converts an entity name to its catalog natural key: lowercase,
// spaces to hyphens, apostrophes dropped, everything outside [a-z0-9-_]
// removed.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "'", "")

	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			b.WriteRune(c)
		}
	}
	return strings.Trim(b.String(), "-_")
}

// CleanPageTitle strips Wikipedia disambiguation suffixes from a page title.
func CleanPageTitle(title string) string {
	for _, suffix := range []string{" (wrestler)", " (professional wrestler)"} {
		title = strings.TrimSuffix(title, suffix)
	}
	return title
}
