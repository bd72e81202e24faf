package bot

import (
	"testing"

	"github.com/owdb/wrestlebot/internal/models"
)

func TestExtractMentionsFindsWrestlers(t *testing.T) {
	text := "At the event he defeated Randy Savage and later teamed with Hulk Hogan. " +
		"He then faced Randy Savage again in a rematch."

	mentions := ExtractMentions(text)

	var wrestlers []string
	for _, m := range mentions {
		if m.Type == models.EntityTypeWrestler {
			wrestlers = append(wrestlers, m.Name)
		}
	}
	if len(wrestlers) != 2 {
		t.Fatalf("expected 2 unique wrestlers, got %v", wrestlers)
	}
	if wrestlers[0] != "Randy Savage" || wrestlers[1] != "Hulk Hogan" {
		t.Errorf("expected first-seen order [Randy Savage, Hulk Hogan], got %v", wrestlers)
	}
}

func TestExtractMentionsTitleSuffix(t *testing.T) {
	text := "He won the Intercontinental Championship twice."

	mentions := ExtractMentions(text)

	found := false
	for _, m := range mentions {
		if m.Type == models.EntityTypeTitle {
			if m.Name != "Intercontinental Championship" {
				t.Errorf("expected Intercontinental Championship, got %q", m.Name)
			}
			found = true
		}
	}
	if !found {
		t.Error("expected a title mention")
	}
}

func TestExtractMentionsPriorityOrder(t *testing.T) {
	text := "He defeated Randy Savage at WrestleMania for WWE."

	mentions := ExtractMentions(text)
	if len(mentions) == 0 {
		t.Fatal("expected mentions")
	}

	// Wrestler mentions must come before promotion and event mentions.
	rank := map[models.EntityType]int{}
	for i, m := range mentions {
		if _, ok := rank[m.Type]; !ok {
			rank[m.Type] = i
		}
	}
	if rank[models.EntityTypeWrestler] > rank[models.EntityTypePromotion] {
		t.Errorf("expected wrestlers before promotions, got %v", mentions)
	}
	if rank[models.EntityTypePromotion] > rank[models.EntityTypeEvent] {
		t.Errorf("expected promotions before events, got %v", mentions)
	}
}

func TestExtractMentionsFiltersStopwords(t *testing.T) {
	text := "The won and This lost to That in the opener."
	for _, m := range ExtractMentions(text) {
		name := m.Name
		if name == "The" || name == "This" || name == "That" {
			t.Errorf("stopword %q should have been filtered", name)
		}
	}
}
