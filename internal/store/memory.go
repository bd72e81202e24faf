package store

import (
	"context"

	"github.com/owdb/wrestlebot/internal/models"
)

// Memory is an in-memory EntityStore for tests.
type Memory struct {
	entities map[models.EntityType]map[string]*models.Entity
	nextID   int64

	// CreateCalls records every upsert in order, letting tests assert on
	// orchestrator behavior.
	CreateCalls []models.EntityType
	// FailWith, when set, is returned by every call.
	FailWith error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entities: map[models.EntityType]map[string]*models.Entity{}}
}

// CreateOrUpdate upserts an entity keyed by slug.
func (m *Memory) CreateOrUpdate(_ context.Context, entityType models.EntityType, name string, fields map[string]string) (*models.Entity, bool, error) {
	if m.FailWith != nil {
		return nil, false, m.FailWith
	}
	m.CreateCalls = append(m.CreateCalls, entityType)

	if m.entities[entityType] == nil {
		m.entities[entityType] = map[string]*models.Entity{}
	}
	slug := models.Slugify(name)

	if existing, ok := m.entities[entityType][slug]; ok {
		if existing.Fields == nil {
			existing.Fields = map[string]string{}
		}
		for k, v := range fields {
			existing.Fields[k] = v
		}
		return existing, false, nil
	}

	m.nextID++
	entity := &models.Entity{
		ID:     m.nextID,
		Type:   entityType,
		Name:   name,
		Slug:   slug,
		Fields: copyFields(fields),
	}
	m.entities[entityType][slug] = entity
	return entity, true, nil
}

// Exists reports whether a slug is stored.
func (m *Memory) Exists(_ context.Context, entityType models.EntityType, slug string) (bool, error) {
	if m.FailWith != nil {
		return false, m.FailWith
	}
	_, ok := m.entities[entityType][slug]
	return ok, nil
}

// ListNames returns stored entity names for a type.
func (m *Memory) ListNames(_ context.Context, entityType models.EntityType) ([]string, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	names := make([]string, 0, len(m.entities[entityType]))
	for _, e := range m.entities[entityType] {
		names = append(names, e.Name)
	}
	return names, nil
}

// Get returns a stored entity or nil, for test assertions.
func (m *Memory) Get(entityType models.EntityType, slug string) *models.Entity {
	return m.entities[entityType][slug]
}

// Count returns how many entities of a type are stored.
func (m *Memory) Count(entityType models.EntityType) int {
	return len(m.entities[entityType])
}

func copyFields(fields map[string]string) map[string]string {
	if fields == nil {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
