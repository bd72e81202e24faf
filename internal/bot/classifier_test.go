package bot

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/owdb/wrestlebot/internal/config"
	"github.com/owdb/wrestlebot/internal/merge"
	"github.com/owdb/wrestlebot/internal/metrics"
	"github.com/owdb/wrestlebot/internal/models"
	"github.com/owdb/wrestlebot/internal/sources"
	"github.com/owdb/wrestlebot/internal/store"
)

type stubCompletion struct {
	answer string
	err    error
}

func (s *stubCompletion) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.answer}},
		},
	}, nil
}

func stubClassifier(answer string, err error) *PageClassifier {
	return &PageClassifier{
		client: &stubCompletion{answer: answer, err: err},
		model:  openai.GPT4oMini,
		logger: testLogger(),
	}
}

func TestClassifyKnownAnswer(t *testing.T) {
	c := stubClassifier(" Promotion\n", nil)
	got, err := c.Classify(context.Background(), "All Elite Wrestling", "All Elite Wrestling is a promotion.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != models.EntityTypePromotion {
		t.Errorf("expected %s, got %s", models.EntityTypePromotion, got)
	}
}

func TestClassifyOutOfSetAnswer(t *testing.T) {
	c := stubClassifier("I think this is a wrestler's biography", nil)
	got, err := c.Classify(context.Background(), "Some Page", "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty type for out-of-set answer, got %s", got)
	}
}

func TestClassifyRequestError(t *testing.T) {
	c := stubClassifier("", errors.New("rate limited"))
	if _, err := c.Classify(context.Background(), "Some Page", "text"); err == nil {
		t.Error("expected error to surface")
	}
}

func TestEnrichmentOrder(t *testing.T) {
	got := enrichmentOrder(models.EntityTypeTitle)
	if got[0] != models.EntityTypeTitle {
		t.Errorf("expected classified type first, got %s", got[0])
	}
	if len(got) != len(mentionOrder) {
		t.Errorf("expected %d types, got %d", len(mentionOrder), len(got))
	}

	unclassified := enrichmentOrder("")
	for i, want := range mentionOrder {
		if unclassified[i] != want {
			t.Errorf("position %d: expected %s, got %s", i, want, unclassified[i])
		}
	}
}

func TestClassifiedPageSteersCreationOrder(t *testing.T) {
	pages := &fakePages{
		members: []string{"Some Page"},
		extract: map[string]string{
			"Some Page": "He defeated John Cena at an AEW show.",
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
			"AEW": {
				Source: sources.SourceWikipedia,
				Key:    "AEW",
				Fields: map[string]string{
					models.FieldName:        "AEW",
					models.FieldSlug:        "aew",
					models.FieldFoundedYear: "2019",
				},
			},
		},
	}
	collector, err := metrics.NewBotCollector()
	if err != nil {
		t.Fatalf("NewBotCollector returned error: %v", err)
	}
	mem := store.NewMemory()
	o := New(config.BotConfig{}, mem, &fakeDiscoverer{}, merge.New(), pages, nil,
		collector, testLogger(), Options{Classifier: stubClassifier("promotion", nil)})
	o.state = State{
		WrestlersDone: true, PromotionsDone: true, EventsDone: true,
		VideoGamesDone: true, BooksDone: true, DocumentariesDone: true,
	}

	if err := o.runCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The page classifies as a promotion, so the promotion mention beats
	// the wrestler mention that the fixed order would try first.
	if mem.Get(models.EntityTypePromotion, "aew") == nil {
		t.Error("expected the promotion to be created first")
	}
	if mem.Count(models.EntityTypeWrestler) != 0 {
		t.Errorf("expected no wrestler created this cycle, got %d", mem.Count(models.EntityTypeWrestler))
	}
}
