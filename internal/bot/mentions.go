package bot

import (
	"regexp"
	"strings"

	"github.com/owdb/wrestlebot/internal/models"
)

// Mention extraction over page text. These are best-effort heuristics:
// a capitalized name sequence near a wrestling verb is a candidate, not
// a verified fact. Every hit still goes through enrichment and the
// viability check before anything is created.

var (
	wrestlerMentionRes = []*regexp.Regexp{
		regexp.MustCompile(`(?:defeated|beat|lost to|faced|wrestled|vs\.?|versus|teamed with|partnered with|feuded with)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,3})`),
		regexp.MustCompile(`(?:champion|title holder|wrestler)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,3})`),
		regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,3})\s+(?:won|held|defended|lost)`),
	}
	promotionMentionRes = []*regexp.Regexp{
		regexp.MustCompile(`\b(WWE|WWF|WCW|ECW|AEW|NXT|TNA|Impact Wrestling|Ring of Honor|ROH|NJPW|New Japan Pro-Wrestling)\b`),
		regexp.MustCompile(`(?:in|for|at)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,3}\s+Wrestling)`),
	}
	titleMentionRes = []*regexp.Regexp{
		regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,4})\s+Championship`),
	}
	eventMentionRes = []*regexp.Regexp{
		regexp.MustCompile(`\b(WrestleMania|Royal Rumble|SummerSlam|Survivor Series|Money in the Bank|Hell in a Cell)\s*\d*\b`),
		regexp.MustCompile(`(?:at|during)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,3})\s+\d{4}`),
	}
	stableMentionRes = []*regexp.Regexp{
		regexp.MustCompile(`(?:member of|joined|formed)\s+(?:[Tt]he\s+)?([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,3})`),
	}
	venueMentionRes = []*regexp.Regexp{
		regexp.MustCompile(`(?:at|in)\s+(?:the\s+)?([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,3}\s+(?:Arena|Garden|Center|Centre|Stadium|Coliseum|Dome))`),
	}

	mentionStopwords = map[string]bool{
		"the": true, "a": true, "an": true, "this": true, "that": true,
		"and": true, "or": true, "but": true,
	}
)

// Mention is one extracted entity reference.
type Mention struct {
	Type models.EntityType
	Name string
}

// ExtractMentions pulls referenced-but-possibly-missing entities out of
// free text. Results are returned in the fixed creation priority order:
// wrestler, promotion, event, stable, title, venue. Within a type,
// first-seen order is kept and duplicates dropped.
func ExtractMentions(text string) []Mention {
	var mentions []Mention
	mentions = append(mentions, collect(models.EntityTypeWrestler, wrestlerMentionRes, text, "")...)
	mentions = append(mentions, collect(models.EntityTypePromotion, promotionMentionRes, text, "")...)
	mentions = append(mentions, collect(models.EntityTypeEvent, eventMentionRes, text, "")...)
	mentions = append(mentions, collect(models.EntityTypeStable, stableMentionRes, text, "")...)
	mentions = append(mentions, collect(models.EntityTypeTitle, titleMentionRes, text, " Championship")...)
	mentions = append(mentions, collect(models.EntityTypeVenue, venueMentionRes, text, "")...)
	return mentions
}

func collect(entityType models.EntityType, patterns []*regexp.Regexp, text, suffix string) []Mention {
	seen := map[string]bool{}
	var out []Mention
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(m[1])
			if !plausibleMention(name) {
				continue
			}
			if suffix != "" && !strings.HasSuffix(name, strings.TrimSpace(suffix)) {
				name += suffix
			}
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Mention{Type: entityType, Name: name})
		}
	}
	return out
}

func plausibleMention(name string) bool {
	if name == "" || mentionStopwords[strings.ToLower(name)] {
		return false
	}
	return len(strings.Fields(name)) <= 4
}
