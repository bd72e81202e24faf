package discovery

import (
	"context"
	"log/slog"
	"time"

	"github.com/owdb/wrestlebot/internal/models"
	"github.com/owdb/wrestlebot/internal/sources"
)

// CategoryLister is the slice of the Wikipedia adapter discovery needs.
type CategoryLister interface {
	CategoryMembers(ctx context.Context, category, continueToken string, limit int) ([]string, string, error)
}

// Enricher validates candidates by fetching their facts. Satisfied by
// any source adapter.
type Enricher interface {
	EntityData(ctx context.Context, entityType models.EntityType, name string) *models.FactRecord
}

// categoryRotation maps each entity type to the Wikipedia categories it
// is discovered from. The active category rotates on a time bucket so
// long-running deployments cover all of them without persisted state.
var categoryRotation = map[models.EntityType][]string{
	models.EntityTypeWrestler: {
		"American male professional wrestlers",
		"American female professional wrestlers",
		"Japanese male professional wrestlers",
		"Japanese female professional wrestlers",
		"Mexican male professional wrestlers",
		"British male professional wrestlers",
		"Canadian male professional wrestlers",
		"Professional wrestlers from Ontario",
	},
	models.EntityTypePromotion: {
		"Professional wrestling promotions",
		"American companies established in the 20th century",
		"Defunct professional wrestling promotions in the United States",
	},
	models.EntityTypeEvent: {
		"WWE pay-per-view events",
		"All Elite Wrestling pay-per-view events",
		"Professional wrestling supercards and pay-per-view events",
		"New Japan Pro-Wrestling events",
	},
	models.EntityTypeTitle: {
		"World heavyweight wrestling championships",
		"Women's professional wrestling championships",
		"Tag team wrestling championships",
	},
	models.EntityTypeVenue: {
		"Indoor arenas in the United States",
		"Professional wrestling venues",
	},
	models.EntityTypeStable: {
		"Professional wrestling teams and stables",
	},
	models.EntityTypeVideoGame: {
		"Professional wrestling video games",
		"WWE video games",
		"AEW video games",
		"WCW video games",
	},
	models.EntityTypeBook: {
		"Professional wrestling books",
		"Professional wrestling autobiographies",
	},
	models.EntityTypeDocumentary: {
		"Professional wrestling documentary films",
		"WWE television specials",
		"Documentary films about professional wrestling",
	},
}

// Engine finds new entity candidates by walking Wikipedia categories.
// Pagination state is per category and in-memory only; a restart begins
// each category from the top, which the SkipSet absorbs.
type Engine struct {
	lister   CategoryLister
	enricher Enricher
	skip     *SkipSet
	limit    int
	window   time.Duration
	logger   *slog.Logger
	now      func() time.Time
	cursors  map[string]string
}

// New creates a discovery engine. limit caps candidates per call and
// window sets the category rotation period.
func New(lister CategoryLister, enricher Enricher, skip *SkipSet, limit int, window time.Duration, logger *slog.Logger) *Engine {
	return &Engine{
		lister:   lister,
		enricher: enricher,
		skip:     skip,
		limit:    limit,
		window:   window,
		logger:   logger,
		now:      time.Now,
		cursors:  map[string]string{},
	}
}

// ActiveCategory returns the category currently selected by the time
// bucket for an entity type, or "" when the type has no rotation.
func (e *Engine) ActiveCategory(entityType models.EntityType) string {
	categories := categoryRotation[entityType]
	if len(categories) == 0 {
		return ""
	}
	bucket := e.now().Unix() / int64(e.window.Seconds())
	return categories[int(bucket%int64(len(categories)))]
}

// Discover returns up to limit fresh, viable candidates from the active
// category. Every examined name is added to the SkipSet immediately —
// accepted or not — so successive calls never repeat work. Candidates
// carry the fact record fetched during validation.
func (e *Engine) Discover(ctx context.Context, entityType models.EntityType) ([]models.CandidateEntity, error) {
	category := e.ActiveCategory(entityType)
	if category == "" {
		return nil, nil
	}

	var candidates []models.CandidateEntity
	for len(candidates) < e.limit {
		members, next, err := e.lister.CategoryMembers(ctx, category, e.cursors[category], e.limit)
		if err != nil {
			return candidates, err
		}

		for _, title := range members {
			name := models.CleanPageTitle(title)
			if e.skip.Contains(name) {
				continue
			}
			e.skip.Add(name)

			rec := e.enricher.EntityData(ctx, entityType, name)
			if !Viable(rec) {
				e.logger.Debug("candidate rejected", "name", name, "entity_type", entityType)
				continue
			}

			candidates = append(candidates, models.CandidateEntity{
				Type:          entityType,
				Name:          name,
				SourceName:    title,
				DiscoveredVia: sources.SourceWikipedia + " category: " + category,
				Facts:         rec,
			})
			if len(candidates) >= e.limit {
				break
			}
		}

		if next == "" {
			// Category exhausted; start over next window.
			delete(e.cursors, category)
			break
		}
		e.cursors[category] = next
	}

	e.logger.Debug("discovery pass complete",
		"entity_type", entityType,
		"category", category,
		"candidates", len(candidates))
	return candidates, nil
}

// Viable applies the creation heuristic: a candidate is worth storing
// only when enrichment found at least one fact beyond its name. Bare
// names are noise from overly broad categories.
func Viable(rec *models.FactRecord) bool {
	return rec != nil && rec.PopulatedOptionalFields() >= 1
}
