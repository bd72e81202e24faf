package integrity

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/owdb/wrestlebot/internal/models"
)

// MatchStore is the repair surface the verifier needs over matches.
type MatchStore interface {
	ListMatchesWithWinner(ctx context.Context) ([]models.Match, error)
	ListTitleMatches(ctx context.Context) ([]models.Match, error)
	SetWinner(ctx context.Context, matchID, wrestlerID int64) error
	ClearTitle(ctx context.Context, matchID int64) error
	ReassignTitle(ctx context.Context, fromTitleID, toTitleID int64) (int64, error)
}

// TitleStore is the repair surface the verifier needs over titles.
// DuplicateGroups orders each group by match count descending; the
// first title is the merge target. PromotionID resolves a promotion
// slug to its row id, 0 when the promotion is not in the catalog.
type TitleStore interface {
	List(ctx context.Context) ([]models.Title, error)
	DuplicateGroups(ctx context.Context) (map[string][]models.Title, error)
	Delete(ctx context.Context, titleID int64) error
	SetPromotion(ctx context.Context, titleID, promotionID int64) error
	PromotionID(ctx context.Context, slug string) (int64, error)
}

// winnerRe extracts a winner name from free-text results like
// "Cody Rhodes wins by pinfall".
var winnerRe = regexp.MustCompile(`^(.+?)\s+(?i:wins?)\s+(?i:by)\s+`)

// Verifier runs batch consistency checks over persisted matches and
// titles. Every repair is conservative: when the correct value is
// ambiguous the reference is cleared or the match is flagged, never
// guessed.
type Verifier struct {
	matches MatchStore
	titles  TitleStore
	logger  *slog.Logger
	dryRun  bool
	now     func() time.Time
}

// New creates a Verifier. With dryRun set, violations are reported but
// no repair is written.
func New(matches MatchStore, titles TitleStore, logger *slog.Logger, dryRun bool) *Verifier {
	return &Verifier{
		matches: matches,
		titles:  titles,
		logger:  logger,
		dryRun:  dryRun,
		now:     time.Now,
	}
}

// Report summarizes one verification pass.
type Report struct {
	Violations       []models.IntegrityViolation
	TitlesMerged     int
	PromotionsFilled int
	MatchesExamined  int
}

// Run executes every check in a fixed order. Checks are independent and
// idempotent; a second pass over repaired data reports nothing.
func (v *Verifier) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	winnerViolations, examined, err := v.verifyWinners(ctx)
	if err != nil {
		return report, fmt.Errorf("winner verification failed: %w", err)
	}
	report.Violations = append(report.Violations, winnerViolations...)
	report.MatchesExamined += examined

	titleViolations, examined, err := v.verifyTitles(ctx)
	if err != nil {
		return report, fmt.Errorf("title verification failed: %w", err)
	}
	report.Violations = append(report.Violations, titleViolations...)
	report.MatchesExamined += examined

	merged, err := v.mergeDuplicateTitles(ctx)
	if err != nil {
		return report, fmt.Errorf("duplicate title merge failed: %w", err)
	}
	report.TitlesMerged = merged

	filled, err := v.fillTitlePromotions(ctx)
	if err != nil {
		return report, fmt.Errorf("title promotion fill failed: %w", err)
	}
	report.PromotionsFilled = filled

	v.logger.Info("integrity pass complete",
		"violations", len(report.Violations),
		"titles_merged", report.TitlesMerged,
		"promotions_filled", report.PromotionsFilled,
		"matches_examined", report.MatchesExamined,
		"dry_run", v.dryRun)
	return report, nil
}

// verifyWinners enforces that a recorded winner is a participant. A
// mismatch is corrected only when the free-text result names a
// participant unambiguously; otherwise it is flagged and left alone.
func (v *Verifier) verifyWinners(ctx context.Context) ([]models.IntegrityViolation, int, error) {
	matches, err := v.matches.ListMatchesWithWinner(ctx)
	if err != nil {
		return nil, 0, err
	}

	var violations []models.IntegrityViolation
	for _, m := range matches {
		if m.WinnerID == nil || len(m.Participants) == 0 {
			continue
		}
		if m.ParticipantIDs()[*m.WinnerID] {
			continue
		}

		violation := models.IntegrityViolation{
			Type:     models.ViolationWinnerNotParticipant,
			MatchID:  m.ID,
			WinnerID: m.WinnerID,
		}

		corrected := v.rederiveWinner(&m)
		if corrected != nil {
			violation.Remediation = models.RemediationCorrected
			violation.Detail = fmt.Sprintf("winner %q not a participant; result text names %q", m.WinnerName, corrected.Name)
			if !v.dryRun {
				if err := v.matches.SetWinner(ctx, m.ID, corrected.ID); err != nil {
					return violations, len(matches), err
				}
				violation.Applied = true
			}
		} else {
			violation.Remediation = models.RemediationFlagged
			violation.Detail = fmt.Sprintf("winner %q not a participant and result text is inconclusive", m.WinnerName)
		}

		v.logger.Warn("winner-participant violation",
			"match_id", m.ID,
			"winner", m.WinnerName,
			"remediation", violation.Remediation,
			"applied", violation.Applied)
		violations = append(violations, violation)
	}
	return violations, len(matches), nil
}

// rederiveWinner parses the result text and matches the extracted name
// against participants, case-insensitively and by substring.
func (v *Verifier) rederiveWinner(m *models.Match) *models.Wrestler {
	groups := winnerRe.FindStringSubmatch(m.Result)
	if len(groups) < 2 {
		return nil
	}
	name := strings.ToLower(strings.TrimSpace(groups[1]))
	if name == "" {
		return nil
	}

	for i := range m.Participants {
		participant := strings.ToLower(m.Participants[i].Name)
		if participant == name || strings.Contains(participant, name) {
			return &m.Participants[i]
		}
	}
	return nil
}

// verifyTitles runs the gender, title-text, brand and era checks over
// title matches. A match's title reference is cleared at most once per
// pass.
func (v *Verifier) verifyTitles(ctx context.Context) ([]models.IntegrityViolation, int, error) {
	matches, err := v.matches.ListTitleMatches(ctx)
	if err != nil {
		return nil, 0, err
	}

	var violations []models.IntegrityViolation
	for _, m := range matches {
		if m.TitleID == nil {
			continue
		}

		violation := v.checkTitleMatch(&m)
		if violation == nil {
			continue
		}

		if violation.Remediation == models.RemediationClearField && !v.dryRun {
			if err := v.matches.ClearTitle(ctx, m.ID); err != nil {
				return violations, len(matches), err
			}
			violation.Applied = true
		}

		v.logger.Warn("title violation",
			"match_id", m.ID,
			"title", m.TitleName,
			"type", violation.Type,
			"remediation", violation.Remediation,
			"applied", violation.Applied)
		violations = append(violations, *violation)
	}
	return violations, len(matches), nil
}

// checkTitleMatch returns the first violation a title match exhibits, or
// nil when it is consistent.
func (v *Verifier) checkTitleMatch(m *models.Match) *models.IntegrityViolation {
	if violation := v.checkTitleGender(m); violation != nil {
		return violation
	}
	if violation := v.checkTitleText(m); violation != nil {
		return violation
	}
	if violation := v.checkCrossPromotion(m); violation != nil {
		return violation
	}
	return v.checkEra(m)
}

// checkTitleGender clears a women's title when the match has a known
// male participant and no known female one, and a men's title in the
// mirror case. Participants outside both rosters count as neither, so
// a match with only unknown names is never touched.
func (v *Verifier) checkTitleGender(m *models.Match) *models.IntegrityViolation {
	if MixedTitle(m.TitleName) {
		return nil
	}

	hasMale, hasFemale := false, false
	for _, w := range m.Participants {
		if KnownMale(w.Name) {
			hasMale = true
		}
		if KnownFemale(w.Name) {
			hasFemale = true
		}
	}

	womens := WomensTitle(m.TitleName)
	if womens && hasMale && !hasFemale {
		return &models.IntegrityViolation{
			Type:        models.ViolationGenderTitleMismatch,
			MatchID:     m.ID,
			TitleID:     m.TitleID,
			Detail:      fmt.Sprintf("women's title %q contested only by known male wrestlers", m.TitleName),
			Remediation: models.RemediationClearField,
		}
	}
	if !womens && hasFemale && !hasMale {
		return &models.IntegrityViolation{
			Type:        models.ViolationGenderTitleMismatch,
			MatchID:     m.ID,
			TitleID:     m.TitleID,
			Detail:      fmt.Sprintf("men's title %q contested only by known female wrestlers", m.TitleName),
			Remediation: models.RemediationClearField,
		}
	}
	return nil
}

// checkTitleText requires a legitimate title match's description to
// mention the title somewhere, e.g. "Main event for the WWE
// Championship". Absent text is not a violation.
func (v *Verifier) checkTitleText(m *models.Match) *models.IntegrityViolation {
	if m.MatchText == "" || m.TitleName == "" {
		return nil
	}
	firstWord := strings.ToLower(strings.Fields(m.TitleName)[0])
	if strings.Contains(strings.ToLower(m.MatchText), firstWord) {
		return nil
	}
	return &models.IntegrityViolation{
		Type:        models.ViolationTitleTextMismatch,
		MatchID:     m.ID,
		TitleID:     m.TitleID,
		Detail:      fmt.Sprintf("title %q absent from match text %q", m.TitleName, truncate(m.MatchText, 60)),
		Remediation: models.RemediationClearField,
	}
}

// checkCrossPromotion clears a title whose inferred brand contradicts
// the event's. Both names must name a brand; one unknown side proves
// nothing.
func (v *Verifier) checkCrossPromotion(m *models.Match) *models.IntegrityViolation {
	titlePromo := InferPromotion(m.TitleName)
	eventPromo := InferPromotion(m.EventName)
	if titlePromo == nil || eventPromo == nil || titlePromo.Slug == eventPromo.Slug {
		return nil
	}
	return &models.IntegrityViolation{
		Type:        models.ViolationCrossPromotionTitle,
		MatchID:     m.ID,
		TitleID:     m.TitleID,
		Detail:      fmt.Sprintf("title belongs to %s but event %q is %s", titlePromo.Abbreviation, m.EventName, eventPromo.Abbreviation),
		Remediation: models.RemediationClearField,
	}
}

// checkEra flags matches dated outside the plausible history of the
// business. Dates are never auto-repaired, only reported.
func (v *Verifier) checkEra(m *models.Match) *models.IntegrityViolation {
	if m.EventDate == nil {
		return nil
	}
	earliest := time.Date(1880, 1, 1, 0, 0, 0, 0, time.UTC)
	latest := v.now().AddDate(1, 0, 0)
	if m.EventDate.After(earliest) && m.EventDate.Before(latest) {
		return nil
	}
	return &models.IntegrityViolation{
		Type:        models.ViolationEraMismatch,
		MatchID:     m.ID,
		TitleID:     m.TitleID,
		Detail:      fmt.Sprintf("event %q dated %s, outside plausible range", m.EventName, m.EventDate.Format("2006-01-02")),
		Remediation: models.RemediationFlagged,
	}
}

// mergeDuplicateTitles folds titles sharing a slug into the one with
// the most matches, reassigning the others' matches first.
func (v *Verifier) mergeDuplicateTitles(ctx context.Context) (int, error) {
	groups, err := v.titles.DuplicateGroups(ctx)
	if err != nil {
		return 0, err
	}

	merged := 0
	for slug, titles := range groups {
		if len(titles) < 2 {
			continue
		}
		canonical := titles[0]
		for _, dup := range titles[1:] {
			if v.dryRun {
				merged++
				continue
			}
			moved, err := v.matches.ReassignTitle(ctx, dup.ID, canonical.ID)
			if err != nil {
				return merged, err
			}
			if err := v.titles.Delete(ctx, dup.ID); err != nil {
				return merged, err
			}
			v.logger.Info("merged duplicate title",
				"slug", slug,
				"kept", canonical.ID,
				"removed", dup.ID,
				"matches_moved", moved)
			merged++
		}
	}
	return merged, nil
}

// fillTitlePromotions sets the promotion reference on titles whose
// name names a brand but whose reference is missing. Only brands
// already in the catalog are filled; inference never creates rows.
func (v *Verifier) fillTitlePromotions(ctx context.Context) (int, error) {
	titles, err := v.titles.List(ctx)
	if err != nil {
		return 0, err
	}

	filled := 0
	for _, t := range titles {
		if t.PromotionID != nil {
			continue
		}
		ref := InferPromotion(t.Name)
		if ref == nil {
			continue
		}
		promotionID, err := v.titles.PromotionID(ctx, ref.Slug)
		if err != nil {
			return filled, err
		}
		if promotionID == 0 {
			continue
		}
		if !v.dryRun {
			if err := v.titles.SetPromotion(ctx, t.ID, promotionID); err != nil {
				return filled, err
			}
		}
		v.logger.Info("filled title promotion",
			"title", t.Name,
			"promotion", ref.Abbreviation,
			"dry_run", v.dryRun)
		filled++
	}
	return filled, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
