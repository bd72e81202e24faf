package store

import (
	"context"

	"github.com/owdb/wrestlebot/internal/models"
)

// EntityStore is the catalog persistence surface the orchestrator writes
// through. Implemented by the REST client in production and by Memory in
// tests.
type EntityStore interface {
	// CreateOrUpdate upserts one entity by type and slug. It reports
	// whether the entity was newly created.
	CreateOrUpdate(ctx context.Context, entityType models.EntityType, name string, fields map[string]string) (*models.Entity, bool, error)
	// Exists reports whether an entity with the slug is already stored.
	Exists(ctx context.Context, entityType models.EntityType, slug string) (bool, error)
	// ListNames returns the names of all stored entities of a type, used
	// to seed the discovery skip set.
	ListNames(ctx context.Context, entityType models.EntityType) ([]string, error)
}
