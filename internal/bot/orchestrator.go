package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/owdb/wrestlebot/internal/breaker"
	"github.com/owdb/wrestlebot/internal/config"
	"github.com/owdb/wrestlebot/internal/discovery"
	"github.com/owdb/wrestlebot/internal/merge"
	"github.com/owdb/wrestlebot/internal/metrics"
	"github.com/owdb/wrestlebot/internal/models"
	"github.com/owdb/wrestlebot/internal/sources"
	"github.com/owdb/wrestlebot/internal/store"
)

// Discoverer yields fresh entity candidates for one entity type.
type Discoverer interface {
	Discover(ctx context.Context, entityType models.EntityType) ([]models.CandidateEntity, error)
}

// PageSource is the slice of the Wikipedia adapter the page-enrichment
// mode needs.
type PageSource interface {
	CategoryMembers(ctx context.Context, category, continueToken string, limit int) ([]string, string, error)
	PageExtract(ctx context.Context, title string) (string, error)
	EntityData(ctx context.Context, entityType models.EntityType, name string) *models.FactRecord
}

// ActivityLogger records operator-visible bot actions. May be absent
// when the daemon runs without a database connection.
type ActivityLogger interface {
	Log(ctx context.Context, entry models.ActivityLog) error
}

// stageOrder is the fixed sequence of bulk discovery stages. Each runs
// to completion before the next begins.
var stageOrder = []models.EntityType{
	models.EntityTypeWrestler,
	models.EntityTypePromotion,
	models.EntityTypeEvent,
	models.EntityTypeVideoGame,
	models.EntityTypeBook,
	models.EntityTypeDocumentary,
}

// enrichmentCategories are sampled round-robin by the page-enrichment
// mode once every discovery stage has completed.
var enrichmentCategories = []string{
	"Professional wrestlers",
	"Professional wrestling promotions",
	"Professional wrestling events",
	"Professional wrestling champions",
	"Professional wrestling in the United States",
	"Professional wrestling in Japan",
}

// mentionOrder is the creation priority for entities extracted from
// page text. The first type that yields a successful create ends the
// cycle.
var mentionOrder = []models.EntityType{
	models.EntityTypeWrestler,
	models.EntityTypePromotion,
	models.EntityTypeEvent,
	models.EntityTypeStable,
	models.EntityTypeTitle,
	models.EntityTypeVenue,
}

// State holds everything the loop mutates between cycles. It is passed
// around explicitly so a restart can resume from persisted flags.
type State struct {
	Cycle             int
	WrestlersDone     bool
	PromotionsDone    bool
	EventsDone        bool
	VideoGamesDone    bool
	BooksDone         bool
	DocumentariesDone bool
}

// AllStagesDone reports whether the loop has switched to permanent
// page-enrichment mode.
func (s *State) AllStagesDone() bool {
	return s.WrestlersDone && s.PromotionsDone && s.EventsDone &&
		s.VideoGamesDone && s.BooksDone && s.DocumentariesDone
}

func (s *State) stageDone(entityType models.EntityType) bool {
	switch entityType {
	case models.EntityTypeWrestler:
		return s.WrestlersDone
	case models.EntityTypePromotion:
		return s.PromotionsDone
	case models.EntityTypeEvent:
		return s.EventsDone
	case models.EntityTypeVideoGame:
		return s.VideoGamesDone
	case models.EntityTypeBook:
		return s.BooksDone
	case models.EntityTypeDocumentary:
		return s.DocumentariesDone
	}
	return true
}

func (s *State) markStageDone(entityType models.EntityType) {
	switch entityType {
	case models.EntityTypeWrestler:
		s.WrestlersDone = true
	case models.EntityTypePromotion:
		s.PromotionsDone = true
	case models.EntityTypeEvent:
		s.EventsDone = true
	case models.EntityTypeVideoGame:
		s.VideoGamesDone = true
	case models.EntityTypeBook:
		s.BooksDone = true
	case models.EntityTypeDocumentary:
		s.DocumentariesDone = true
	}
}

// Orchestrator is the single-threaded main loop: bulk discovery stages
// first, then permanent incremental page enrichment. Everything runs
// strictly sequentially; a cycle that fails is logged and retried after
// a backoff, never allowed to kill the process.
type Orchestrator struct {
	cfg        config.BotConfig
	store      store.EntityStore
	discoverer Discoverer
	merger     *merge.Engine
	pages      PageSource
	adapters   []sources.Adapter
	classifier *PageClassifier
	activity   ActivityLogger
	collector  *metrics.BotCollector
	breakers   *breaker.Manager
	tmdb       *sources.TMDB
	rss        *sources.RSS
	logger     *slog.Logger

	state       State
	batchID     string
	pageCursors map[string]string
	pageSkip    *discovery.SkipSet
	sleep       func(ctx context.Context, d time.Duration)
}

// Options carries the optional collaborators of an Orchestrator.
type Options struct {
	Classifier *PageClassifier
	Activity   ActivityLogger
	Breakers   *breaker.Manager
	TMDB       *sources.TMDB
	RSS        *sources.RSS
}

// New assembles an orchestrator. store, discoverer, merger, pages,
// adapters and collector are required; everything in opts may be nil.
func New(cfg config.BotConfig, st store.EntityStore, discoverer Discoverer, merger *merge.Engine,
	pages PageSource, adapters []sources.Adapter, collector *metrics.BotCollector,
	logger *slog.Logger, opts Options) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		store:       st,
		discoverer:  discoverer,
		merger:      merger,
		pages:       pages,
		adapters:    adapters,
		classifier:  opts.Classifier,
		activity:    opts.Activity,
		collector:   collector,
		breakers:    opts.Breakers,
		tmdb:        opts.TMDB,
		rss:         opts.RSS,
		logger:      logger,
		batchID:     uuid.NewString(),
		pageCursors: map[string]string{},
		pageSkip:    discovery.NewSkipSet(500),
		sleep: func(ctx context.Context, d time.Duration) {
			select {
			case <-ctx.Done():
			case <-time.After(d):
			}
		},
	}
}

// Run executes the loop until ctx is cancelled. One-shot imports
// (podcast feeds, episode backfill) run first; their failures are
// logged and do not prevent the loop from starting.
func (o *Orchestrator) Run(ctx context.Context) {
	o.logger.Info("orchestrator starting",
		"batch_id", o.batchID,
		"poll_interval", o.cfg.PollInterval,
		"error_backoff", o.cfg.ErrorBackoff)

	o.runImports(ctx)

	for ctx.Err() == nil {
		err := o.runCycle(ctx)
		o.updateBreakerGauges()

		delay := o.cfg.PollInterval
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			o.collector.RecordCycleError()
			o.logger.Error("cycle failed", "cycle", o.state.Cycle, "error", err)
			delay = o.cfg.ErrorBackoff
		} else {
			o.collector.RecordCycle()
		}

		o.sleep(ctx, delay)
	}

	o.logger.Info("orchestrator stopped", "cycles", o.state.Cycle)
}

// runCycle advances the stage machine by one step: one discovery pass
// while stages remain, one page-enrichment step afterwards.
func (o *Orchestrator) runCycle(ctx context.Context) error {
	o.state.Cycle++

	if !o.state.AllStagesDone() {
		return o.runDiscoveryStage(ctx)
	}
	return o.enrichOnce(ctx)
}

func (o *Orchestrator) nextStage() models.EntityType {
	for _, entityType := range stageOrder {
		if !o.state.stageDone(entityType) {
			return entityType
		}
	}
	return ""
}

// runDiscoveryStage runs one discovery pass for the first incomplete
// stage. A pass that yields no candidates marks the stage complete;
// the SkipSet guarantees the pass examined pages it had not seen.
func (o *Orchestrator) runDiscoveryStage(ctx context.Context) error {
	entityType := o.nextStage()
	candidates, err := o.discoverer.Discover(ctx, entityType)
	if err != nil {
		return fmt.Errorf("discovery for %s failed: %w", entityType, err)
	}

	if len(candidates) == 0 {
		o.state.markStageDone(entityType)
		o.logger.Info("discovery stage complete", "entity_type", entityType, "cycle", o.state.Cycle)
		return nil
	}

	for _, candidate := range candidates {
		if err := o.persistCandidate(ctx, candidate); err != nil {
			return err
		}
	}
	return nil
}

// persistCandidate merges the candidate's facts with whatever the other
// adapters contribute and writes the result through the entity store.
func (o *Orchestrator) persistCandidate(ctx context.Context, candidate models.CandidateEntity) error {
	merged := o.mergeFacts(ctx, candidate.Type, candidate.Name, candidate.Facts)

	entity, created, err := o.store.CreateOrUpdate(ctx, candidate.Type, candidate.Name, merged.Fields)
	if err != nil {
		o.logActivity(ctx, models.ActivityLog{
			Action:     models.ActionSkipped,
			EntityType: candidate.Type,
			EntityName: candidate.Name,
			Success:    false,
			Error:      err.Error(),
			Details:    map[string]interface{}{"discovered_via": candidate.DiscoveredVia},
		})
		return fmt.Errorf("persisting %s %q failed: %w", candidate.Type, candidate.Name, err)
	}

	o.collector.RecordEntity(string(candidate.Type), created)
	action := models.ActionUpdated
	if created {
		action = models.ActionCreated
	}
	o.logActivity(ctx, models.ActivityLog{
		Action:     action,
		EntityType: candidate.Type,
		EntityName: candidate.Name,
		EntityID:   &entity.ID,
		SourceURL:  candidate.Facts.AttributionURL,
		Success:    true,
		Details:    map[string]interface{}{"discovered_via": candidate.DiscoveredVia},
	})
	o.logger.Info("candidate persisted",
		"entity_type", candidate.Type,
		"name", candidate.Name,
		"created", created)
	return nil
}

// mergeFacts queries every adapter that claims fields for the type and
// resolves the results. primary may be nil; adapters that fail
// contribute nothing.
func (o *Orchestrator) mergeFacts(ctx context.Context, entityType models.EntityType, name string, primary *models.FactRecord) *models.MergedEntity {
	var records []*models.FactRecord
	if primary != nil {
		records = append(records, primary)
	}
	for _, adapter := range o.adapters {
		if primary != nil && adapter.Name() == primary.Source {
			continue
		}
		if len(adapter.Fields(entityType)) == 0 {
			continue
		}
		rec := adapter.EntityData(ctx, entityType, name)
		if rec == nil {
			o.collector.RecordSourceFetch(adapter.Name(), "empty")
			continue
		}
		o.collector.RecordSourceFetch(adapter.Name(), "ok")
		records = append(records, rec)
	}
	return o.merger.Merge(models.Slugify(name), records)
}

// enrichOnce samples one wrestling page, extracts mentioned entities
// and creates at most one that is missing from the catalog, trying
// types in fixed priority order.
func (o *Orchestrator) enrichOnce(ctx context.Context) error {
	title, err := o.samplePage(ctx)
	if err != nil {
		return err
	}
	if title == "" {
		return nil
	}

	extract, err := o.pages.PageExtract(ctx, title)
	if err != nil {
		return fmt.Errorf("fetching page %q failed: %w", title, err)
	}
	if extract == "" {
		return nil
	}

	pageType := o.classifyPage(ctx, title, extract)
	mentions := ExtractMentions(extract)
	o.logger.Debug("page sampled",
		"title", title,
		"page_type", pageType,
		"mentions", len(mentions))

	for _, entityType := range enrichmentOrder(pageType) {
		for _, mention := range mentions {
			if mention.Type != entityType {
				continue
			}
			created, err := o.createFromMention(ctx, mention, title)
			if err != nil {
				return err
			}
			if created {
				return nil
			}
		}
	}
	return nil
}

// enrichmentOrder is the mention priority order, with the classified
// page type promoted to the front: a page about a promotion most
// likely mentions promotions worth creating. Unclassified pages use
// the fixed order.
func enrichmentOrder(pageType models.EntityType) []models.EntityType {
	if pageType == "" {
		return mentionOrder
	}
	order := make([]models.EntityType, 0, len(mentionOrder)+1)
	order = append(order, pageType)
	for _, entityType := range mentionOrder {
		if entityType != pageType {
			order = append(order, entityType)
		}
	}
	return order
}

// samplePage returns the next page title from the round-robin
// enrichment categories, or "" when the current category yields
// nothing new.
func (o *Orchestrator) samplePage(ctx context.Context) (string, error) {
	category := enrichmentCategories[o.state.Cycle%len(enrichmentCategories)]

	members, next, err := o.pages.CategoryMembers(ctx, category, o.pageCursors[category], 20)
	if err != nil {
		return "", fmt.Errorf("listing category %q failed: %w", category, err)
	}
	if next == "" {
		delete(o.pageCursors, category)
	} else {
		o.pageCursors[category] = next
	}

	for _, title := range members {
		if o.pageSkip.Contains(title) {
			continue
		}
		o.pageSkip.Add(title)
		return title, nil
	}
	return "", nil
}

// classifyPage runs the optional AI classifier. Failures degrade to the
// regex-only path.
func (o *Orchestrator) classifyPage(ctx context.Context, title, extract string) models.EntityType {
	if o.classifier == nil {
		return ""
	}
	pageType, err := o.classifier.Classify(ctx, title, extract)
	if err != nil {
		o.logger.Warn("page classification failed", "title", title, "error", err)
		return ""
	}
	return pageType
}

// createFromMention enriches one mentioned entity and creates it when
// it is missing and viable. Reports whether a create happened.
func (o *Orchestrator) createFromMention(ctx context.Context, mention Mention, pageTitle string) (bool, error) {
	slug := models.Slugify(mention.Name)
	if slug == "" {
		return false, nil
	}

	exists, err := o.store.Exists(ctx, mention.Type, slug)
	if err != nil {
		return false, fmt.Errorf("existence check for %s %q failed: %w", mention.Type, mention.Name, err)
	}
	if exists {
		return false, nil
	}

	rec := o.pages.EntityData(ctx, mention.Type, mention.Name)
	if !discovery.Viable(rec) {
		return false, nil
	}

	merged := o.mergeFacts(ctx, mention.Type, rec.Key, rec)
	entity, created, err := o.store.CreateOrUpdate(ctx, mention.Type, rec.Key, merged.Fields)
	if err != nil {
		return false, fmt.Errorf("creating %s %q failed: %w", mention.Type, mention.Name, err)
	}

	o.collector.RecordEntity(string(mention.Type), created)
	action := models.ActionUpdated
	if created {
		action = models.ActionCreated
	}
	o.logActivity(ctx, models.ActivityLog{
		Action:     action,
		EntityType: mention.Type,
		EntityName: rec.Key,
		EntityID:   &entity.ID,
		SourceURL:  rec.AttributionURL,
		Success:    true,
		Details:    map[string]interface{}{"mentioned_on": pageTitle},
	})
	o.logger.Info("mention enriched",
		"entity_type", mention.Type,
		"name", rec.Key,
		"mentioned_on", pageTitle,
		"created", created)
	return true, nil
}

// runImports executes the one-shot import phases configured for this
// deployment. Each failure is logged and skipped.
func (o *Orchestrator) runImports(ctx context.Context) {
	for _, feedURL := range o.cfg.PodcastFeeds {
		imported, err := o.ImportPodcast(ctx, feedURL)
		if err != nil {
			o.logger.Error("podcast import failed", "feed", feedURL, "error", err)
			continue
		}
		o.logger.Info("podcast import complete", "feed", feedURL, "episodes", imported)
	}

	for _, show := range o.cfg.BackfillShows {
		imported, err := o.BackfillEpisodes(ctx, show)
		if err != nil {
			o.logger.Error("episode backfill failed", "show", show, "error", err)
			continue
		}
		o.logger.Info("episode backfill complete", "show", show, "events", imported)
	}
}

func (o *Orchestrator) logActivity(ctx context.Context, entry models.ActivityLog) {
	if o.activity == nil {
		return
	}
	entry.BatchID = o.batchID
	if err := o.activity.Log(ctx, entry); err != nil {
		o.logger.Warn("activity log write failed", "action", entry.Action, "error", err)
	}
}

func (o *Orchestrator) updateBreakerGauges() {
	if o.breakers == nil {
		return
	}
	for name, status := range o.breakers.Statuses() {
		var v float64
		switch status.State {
		case breaker.StateHalfOpen:
			v = 1
		case breaker.StateOpen:
			v = 2
		}
		o.collector.SetBreakerState(name, v)
	}
}
