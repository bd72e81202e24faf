package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/owdb/wrestlebot/internal/config"
	"github.com/owdb/wrestlebot/internal/merge"
	"github.com/owdb/wrestlebot/internal/metrics"
	"github.com/owdb/wrestlebot/internal/models"
	"github.com/owdb/wrestlebot/internal/sources"
	"github.com/owdb/wrestlebot/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeDiscoverer struct {
	byType map[models.EntityType][][]models.CandidateEntity
	calls  []models.EntityType
	err    error
}

func (f *fakeDiscoverer) Discover(_ context.Context, entityType models.EntityType) ([]models.CandidateEntity, error) {
	f.calls = append(f.calls, entityType)
	if f.err != nil {
		return nil, f.err
	}
	queue := f.byType[entityType]
	if len(queue) == 0 {
		return nil, nil
	}
	head := queue[0]
	f.byType[entityType] = queue[1:]
	return head, nil
}

type fakePages struct {
	members []string
	extract map[string]string
	facts   map[string]*models.FactRecord
}

func (f *fakePages) CategoryMembers(_ context.Context, _, _ string, _ int) ([]string, string, error) {
	return f.members, "", nil
}

func (f *fakePages) PageExtract(_ context.Context, title string) (string, error) {
	return f.extract[title], nil
}

func (f *fakePages) EntityData(_ context.Context, _ models.EntityType, name string) *models.FactRecord {
	return f.facts[name]
}

func testOrchestrator(t *testing.T, st store.EntityStore, disc Discoverer, pages PageSource) *Orchestrator {
	t.Helper()
	collector, err := metrics.NewBotCollector()
	if err != nil {
		t.Fatalf("NewBotCollector returned error: %v", err)
	}
	cfg := config.BotConfig{
		PollInterval: time.Millisecond,
		ErrorBackoff: time.Millisecond,
	}
	if pages == nil {
		pages = &fakePages{}
	}
	o := New(cfg, st, disc, merge.New(), pages, nil, collector, testLogger(), Options{})
	o.sleep = func(context.Context, time.Duration) {}
	return o
}

func wrestlerCandidate(name string) models.CandidateEntity {
	return models.CandidateEntity{
		Type:       models.EntityTypeWrestler,
		Name:       name,
		SourceName: name,
		Facts: &models.FactRecord{
			Source: sources.SourceWikipedia,
			Key:    name,
			Fields: map[string]string{
				models.FieldName:      name,
				models.FieldSlug:      models.Slugify(name),
				models.FieldDebutYear: "1995",
			},
			AttributionURL: "https://en.wikipedia.org/wiki/" + name,
		},
	}
}

func TestStagesCompleteInOrder(t *testing.T) {
	disc := &fakeDiscoverer{byType: map[models.EntityType][][]models.CandidateEntity{}}
	o := testOrchestrator(t, store.NewMemory(), disc, nil)

	for i := 0; i < len(stageOrder); i++ {
		if err := o.runCycle(context.Background()); err != nil {
			t.Fatalf("cycle %d: unexpected error: %v", i, err)
		}
	}

	if !o.state.AllStagesDone() {
		t.Errorf("expected all stages done, got %+v", o.state)
	}
	for i, want := range stageOrder {
		if disc.calls[i] != want {
			t.Errorf("call %d: expected %s, got %s", i, want, disc.calls[i])
		}
	}
}

func TestDiscoveryStagePersistsCandidates(t *testing.T) {
	disc := &fakeDiscoverer{byType: map[models.EntityType][][]models.CandidateEntity{
		models.EntityTypeWrestler: {
			{wrestlerCandidate("Mick Foley"), wrestlerCandidate("Terry Funk")},
		},
	}}
	mem := store.NewMemory()
	o := testOrchestrator(t, mem, disc, nil)

	if err := o.runCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mem.Count(models.EntityTypeWrestler) != 2 {
		t.Errorf("expected 2 wrestlers stored, got %d", mem.Count(models.EntityTypeWrestler))
	}
	if o.state.WrestlersDone {
		t.Error("stage must not complete while candidates are still found")
	}

	stored := mem.Get(models.EntityTypeWrestler, "mick-foley")
	if stored == nil {
		t.Fatal("expected mick-foley stored")
	}
	if stored.Fields[models.FieldDebutYear] != "1995" {
		t.Errorf("expected merged debut_year 1995, got %q", stored.Fields[models.FieldDebutYear])
	}
	if stored.Fields["wikipedia_url"] == "" {
		t.Error("expected wikipedia attribution on merged entity")
	}
}

func TestDiscoveryErrorPropagates(t *testing.T) {
	disc := &fakeDiscoverer{err: errors.New("category listing failed")}
	o := testOrchestrator(t, store.NewMemory(), disc, nil)

	if err := o.runCycle(context.Background()); err == nil {
		t.Fatal("expected error from failing discovery")
	}
	if o.state.WrestlersDone {
		t.Error("a failing stage must not be marked complete")
	}
}

func TestRunSurvivesFailingCyclesUntilCancelled(t *testing.T) {
	disc := &fakeDiscoverer{err: errors.New("upstream down")}
	o := testOrchestrator(t, store.NewMemory(), disc, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cycles := 0
	o.sleep = func(context.Context, time.Duration) {
		cycles++
		if cycles >= 5 {
			cancel()
		}
	}

	o.Run(ctx)

	if cycles < 5 {
		t.Errorf("expected the loop to keep running through errors, got %d cycles", cycles)
	}
}

func TestEnrichmentCreatesExactlyOneEntity(t *testing.T) {
	pages := &fakePages{
		members: []string{"Page One", "Page Two"},
		extract: map[string]string{
			"Page One": "He defeated John Cena and also beat Randy Orton at the show.",
			"Page Two": "He defeated John Cena and also beat Randy Orton at the show.",
		},
		facts: map[string]*models.FactRecord{
			"John Cena": {
				Source: sources.SourceWikipedia,
				Key:    "John Cena",
				Fields: map[string]string{
					models.FieldName:     "John Cena",
					models.FieldSlug:     "john-cena",
					models.FieldHometown: "West Newbury, Massachusetts",
				},
			},
			"Randy Orton": {
				Source: sources.SourceWikipedia,
				Key:    "Randy Orton",
				Fields: map[string]string{
					models.FieldName:      "Randy Orton",
					models.FieldSlug:      "randy-orton",
					models.FieldDebutYear: "2000",
				},
			},
		},
	}
	disc := &fakeDiscoverer{byType: map[models.EntityType][][]models.CandidateEntity{}}
	mem := store.NewMemory()
	o := testOrchestrator(t, mem, disc, pages)
	o.state = State{
		WrestlersDone: true, PromotionsDone: true, EventsDone: true,
		VideoGamesDone: true, BooksDone: true, DocumentariesDone: true,
	}

	if err := o.runCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mem.Count(models.EntityTypeWrestler) != 1 {
		t.Fatalf("expected exactly 1 entity per cycle, got %d", mem.Count(models.EntityTypeWrestler))
	}
	if mem.Get(models.EntityTypeWrestler, "john-cena") == nil {
		t.Error("expected the first mentioned wrestler to be created")
	}

	// The next cycle picks up the remaining mention.
	if err := o.runCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mem.Get(models.EntityTypeWrestler, "randy-orton") == nil {
		t.Error("expected the second wrestler on the following cycle")
	}
}

func TestEnrichmentSkipsExistingEntities(t *testing.T) {
	pages := &fakePages{
		members: []string{"Page A", "Page B"},
		extract: map[string]string{
			"Page A": "He defeated John Cena in the main event.",
			"Page B": "He defeated John Cena in the main event.",
		},
		facts: map[string]*models.FactRecord{
			"John Cena": {
				Source: sources.SourceWikipedia,
				Key:    "John Cena",
				Fields: map[string]string{
					models.FieldName:     "John Cena",
					models.FieldSlug:     "john-cena",
					models.FieldHometown: "West Newbury, Massachusetts",
				},
			},
		},
	}
	mem := store.NewMemory()
	o := testOrchestrator(t, mem, &fakeDiscoverer{}, pages)
	o.state = State{
		WrestlersDone: true, PromotionsDone: true, EventsDone: true,
		VideoGamesDone: true, BooksDone: true, DocumentariesDone: true,
	}

	if err := o.runCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := o.runCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := mem.Count(models.EntityTypeWrestler); got != 1 {
		t.Errorf("expected existing entity to be skipped, got %d stored", got)
	}
}

func TestEnrichmentRejectsUnviableMentions(t *testing.T) {
	pages := &fakePages{
		members: []string{"Some Page"},
		extract: map[string]string{
			"Some Page": "He defeated John Cena in the main event.",
		},
		facts: map[string]*models.FactRecord{
			// Name only, nothing learned: fails the viability heuristic.
			"John Cena": {
				Source: sources.SourceWikipedia,
				Key:    "John Cena",
				Fields: map[string]string{
					models.FieldName: "John Cena",
					models.FieldSlug: "john-cena",
				},
			},
		},
	}
	mem := store.NewMemory()
	o := testOrchestrator(t, mem, &fakeDiscoverer{}, pages)
	o.state = State{
		WrestlersDone: true, PromotionsDone: true, EventsDone: true,
		VideoGamesDone: true, BooksDone: true, DocumentariesDone: true,
	}

	if err := o.runCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mem.Count(models.EntityTypeWrestler); got != 0 {
		t.Errorf("expected unviable mention rejected, got %d stored", got)
	}
}

func TestMatchGuests(t *testing.T) {
	wrestlers := []string{"Steve Austin", "The Rock", "Kane", "X"}

	guests := matchGuests("Interview with Steve Austin and The Rock", wrestlers)
	if len(guests) != 2 {
		t.Fatalf("expected 2 guests, got %v", guests)
	}
	if guests[0] != "Steve Austin" || guests[1] != "The Rock" {
		t.Errorf("unexpected guests %v", guests)
	}

	if got := matchGuests("A show about nothing", wrestlers); len(got) != 0 {
		t.Errorf("expected no guests, got %v", got)
	}
}
