// Package sources contains the external source adapters the bot pulls
// facts from.
//
// Copyright discipline: adapters extract only atomic facts (names, dates,
// places, counts) and always carry an attribution URL. They never
// reproduce prose beyond a short capped summary.
package sources

import (
	"context"

	"github.com/owdb/wrestlebot/internal/models"
)

// Source tags used in fact records and the merge priority table.
const (
	SourceWikipedia  = "wikipedia"
	SourceCagematch  = "cagematch"
	SourceProFightDB = "profightdb"
	SourceTMDB       = "tmdb"
	SourceRSS        = "rss"
)

// Adapter exposes a uniform "fetch facts for entity name" capability.
//
// Implementations never let internal errors escape: a failed or empty
// lookup returns nil, meaning "no data from this source", and the
// pipeline carries on with whatever the other sources supplied.
type Adapter interface {
	// Name returns the source tag for this adapter.
	Name() string

	// Fields lists the output fields this adapter can plausibly populate
	// for an entity type; the merge engine uses it to decide which
	// adapters are worth querying.
	Fields(entityType models.EntityType) []string

	// EntityData fetches facts for a named entity, or nil when the
	// source has nothing usable.
	EntityData(ctx context.Context, entityType models.EntityType, name string) *models.FactRecord
}
