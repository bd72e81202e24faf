package sources

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/owdb/wrestlebot/internal/models"
)

// Heuristic extraction of atomic facts from plain-text article
// summaries. Each pattern is applied to the first few paragraphs only;
// values that cannot be parsed cleanly are left unset rather than
// guessed.

var (
	realNameRe   = regexp.MustCompile(`(?i:born|birth name[:\s]+)\s*([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z.\-']+){1,3})`)
	birthDateRe  = regexp.MustCompile(`(?i:born)\s+(?:[A-Z][a-zA-Z\s.\-']+,\s+)?((?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4})`)
	debutYearRe  = regexp.MustCompile(`(?i:debut(?:ed)?(?:\s+in)?)\s+(\d{4})`)
	retiredRe    = regexp.MustCompile(`(?i:retir(?:ed|ement)(?:\s+(?:in|from[^.]{0,40}in))?)\s+(\d{4})`)
	hometownRe   = regexp.MustCompile(`from\s+([A-Z][a-zA-Z\s]+,\s+[A-Z][a-zA-Z\s]+?)(?:[,.]|\s+(?:is|was|who))`)
	nationalRe   = regexp.MustCompile(`\bis an?\s+([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)\s+(?:professional\s+)?wrestler`)
	heightRe     = regexp.MustCompile(`(\d+)\s*(?i:ft|feet)\s+(\d+)\s*(?i:in|inches)?`)
	weightRe     = regexp.MustCompile(`(\d{2,3})\s*(?i:lb|lbs|pounds)\b`)
	finisherRe   = regexp.MustCompile(`(?i:finish(?:er|ing move)s?(?:[,:]| is| are| include[sd]?| known as| called))\s+(?:[Tt]he\s+)?([A-Z][a-zA-Z\s\-']{2,40}?)(?:[,.]|\s+and\b)`)
	foundedRe    = regexp.MustCompile(`(?i:(?:founded|established|formed|created)(?:\s+(?:in|on))?)\s+(?:[A-Z][a-z]+\s+\d{1,2},\s+)?(\d{4})`)
	closedRe     = regexp.MustCompile(`(?i:(?:closed|folded|ceased operations|went out of business)(?:\s+in)?)\s+(\d{4})`)
	abbrevRe     = regexp.MustCompile(`\(([A-Z]{2,6})\)`)
	eventDateRe  = regexp.MustCompile(`(?i:(?:took place|held|aired)(?:\s+[a-z]+)*?\s+on)\s+((?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4})`)
	promotedByRe = regexp.MustCompile(`(?i:(?:produced|promoted|presented|held)\s+by)\s+(?:[Tt]he\s+)?([A-Z][a-zA-Z\s&]{2,50}?)(?:\s*\([A-Z]{2,6}\))?(?:[,.]|\s+(?:and|on|at|in)\b)`)
	championRe   = regexp.MustCompile(`(?i:current(?:ly)?\s+(?:champion\s+is|held\s+by))\s+([A-Z][a-zA-Z\s.\-']{2,40}?)(?:[,.]|\s+who\b)`)
	locationRe   = regexp.MustCompile(`(?i:(?:located|situated)\s+in)\s+([A-Z][a-zA-Z\s]+,\s+[A-Z][a-zA-Z\s]+?)[,.]`)
	capacityRe   = regexp.MustCompile(`(?i:(?:seating\s+)?capacity\s+of)\s+([\d,]{3,9})`)
	// Greedy name capture so a middle initial's period does not truncate it.
	managedByRe = regexp.MustCompile(`(?i:(?:managed|led)\s+by)\s+([A-Z][a-zA-Z\s.\-']{2,40})[,.]`)
	disbandedRe = regexp.MustCompile(`(?i:disband(?:ed)?(?:\s+in)?)\s+(\d{4})`)
	releasedRe  = regexp.MustCompile(`(?i:(?:released|published)(?:\s+(?:in|on))?)\s+(?:[A-Z][a-z]+\s+\d{1,2},\s+)?(\d{4})`)
	isAYearRe   = regexp.MustCompile(`\bis a\s+(\d{4})\b`)
	authorRe    = regexp.MustCompile(`(?i:(?:written|authored|a (?:memoir|book|autobiography))\s+by)\s+([A-Z][a-zA-Z\s.\-']{2,40}?)(?:[,.]|\s+(?:and|with)\b)`)
)

// extractFacts applies the per-type heuristics to an article extract and
// writes any hits into fields. Existing entries are not overwritten.
func extractFacts(entityType models.EntityType, extract, title string, fields map[string]string) {
	switch entityType {
	case models.EntityTypeWrestler:
		extractWrestlerFacts(extract, fields)
	case models.EntityTypePromotion:
		extractPromotionFacts(extract, title, fields)
	case models.EntityTypeEvent:
		extractEventFacts(extract, fields)
	case models.EntityTypeTitle:
		extractTitleFacts(extract, fields)
	case models.EntityTypeVenue:
		extractVenueFacts(extract, fields)
	case models.EntityTypeStable:
		extractStableFacts(extract, fields)
	case models.EntityTypeVideoGame, models.EntityTypeDocumentary:
		extractMediaFacts(extract, fields)
	case models.EntityTypeBook:
		setIfEmpty(fields, models.FieldAuthor, firstMatch(authorRe, extract))
		extractMediaFacts(extract, fields)
	}
}

func setIfEmpty(fields map[string]string, field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if _, ok := fields[field]; !ok {
		fields[field] = value
	}
}

// firstMatch returns the first capture group of the first match, or "".
func firstMatch(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// plausibleYear rejects years outside the history of the business.
func plausibleYear(s string) bool {
	y, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return y >= 1850 && y <= 2100
}

func extractWrestlerFacts(extract string, fields map[string]string) {
	setIfEmpty(fields, models.FieldRealName, firstMatch(realNameRe, extract))
	setIfEmpty(fields, models.FieldBirthDate, firstMatch(birthDateRe, extract))
	if y := firstMatch(debutYearRe, extract); plausibleYear(y) {
		setIfEmpty(fields, models.FieldDebutYear, y)
	}
	if y := firstMatch(retiredRe, extract); plausibleYear(y) {
		setIfEmpty(fields, models.FieldRetirementYear, y)
	}
	setIfEmpty(fields, models.FieldHometown, firstMatch(hometownRe, extract))
	setIfEmpty(fields, models.FieldNationality, firstMatch(nationalRe, extract))

	if m := heightRe.FindStringSubmatch(extract); len(m) == 3 {
		setIfEmpty(fields, models.FieldHeight, m[1]+" ft "+m[2]+" in")
	}
	if w := firstMatch(weightRe, extract); w != "" {
		setIfEmpty(fields, models.FieldWeight, w+" lb")
	}
	if f := firstMatch(finisherRe, extract); f != "" {
		setIfEmpty(fields, models.FieldFinishers, f)
	}
}

func extractPromotionFacts(extract, title string, fields map[string]string) {
	if y := firstMatch(foundedRe, extract); plausibleYear(y) {
		setIfEmpty(fields, models.FieldFoundedYear, y)
	}
	if y := firstMatch(closedRe, extract); plausibleYear(y) {
		setIfEmpty(fields, models.FieldClosedYear, y)
	}
	// Only trust an abbreviation that appears right after the promotion's
	// name, e.g. "All Elite Wrestling (AEW) is ...".
	idx := strings.Index(extract, title)
	if idx >= 0 {
		tail := extract[idx+len(title):]
		if len(tail) > 40 {
			tail = tail[:40]
		}
		setIfEmpty(fields, models.FieldAbbreviation, firstMatch(abbrevRe, tail))
	}
}

func extractEventFacts(extract string, fields map[string]string) {
	setIfEmpty(fields, models.FieldDate, firstMatch(eventDateRe, extract))
	setIfEmpty(fields, models.FieldPromotionName, firstMatch(promotedByRe, extract))
}

func extractTitleFacts(extract string, fields map[string]string) {
	if y := firstMatch(foundedRe, extract); plausibleYear(y) {
		setIfEmpty(fields, models.FieldEstablished, y)
	}
	if y := firstMatch(retiredRe, extract); plausibleYear(y) {
		setIfEmpty(fields, models.FieldRetirementYear, y)
	}
	setIfEmpty(fields, models.FieldCurrentChamp, firstMatch(championRe, extract))
}

func extractVenueFacts(extract string, fields map[string]string) {
	setIfEmpty(fields, models.FieldLocation, firstMatch(locationRe, extract))
	if c := firstMatch(capacityRe, extract); c != "" {
		setIfEmpty(fields, models.FieldCapacity, strings.ReplaceAll(c, ",", ""))
	}
}

func extractStableFacts(extract string, fields map[string]string) {
	if y := firstMatch(foundedRe, extract); plausibleYear(y) {
		setIfEmpty(fields, models.FieldFormedYear, y)
	}
	if y := firstMatch(disbandedRe, extract); plausibleYear(y) {
		setIfEmpty(fields, models.FieldDisbandedYear, y)
	}
	setIfEmpty(fields, models.FieldManager, firstMatch(managedByRe, extract))
}

func extractMediaFacts(extract string, fields map[string]string) {
	// Article leads usually open "X is a 2004 professional wrestling
	// video game"; fall back to an explicit release sentence.
	if y := firstMatch(isAYearRe, extract); plausibleYear(y) {
		setIfEmpty(fields, models.FieldReleaseYear, y)
	}
	if y := firstMatch(releasedRe, extract); plausibleYear(y) {
		setIfEmpty(fields, models.FieldReleaseYear, y)
	}
}
