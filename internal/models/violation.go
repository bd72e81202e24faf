package models

// ViolationType identifies a class of structurally impossible relationship
// detected by the integrity verifier.
type ViolationType string

const (
	ViolationWinnerNotParticipant ViolationType = "winner_not_participant"
	ViolationGenderTitleMismatch  ViolationType = "gender_title_mismatch"
	ViolationTitleTextMismatch    ViolationType = "title_text_mismatch"
	ViolationCrossPromotionTitle  ViolationType = "cross_promotion_title"
	ViolationEraMismatch          ViolationType = "era_mismatch"
)

// Remediation is what the verifier decided to do about a violation.
type Remediation string

const (
	RemediationClearField Remediation = "clear_field" // offending reference set to null
	RemediationCorrected  Remediation = "corrected"   // reference re-derived and fixed
	RemediationFlagged    Remediation = "flagged"     // ambiguous, reported for review
)

// IntegrityViolation describes one detected inconsistency and how it was
// (or was not) repaired.
type IntegrityViolation struct {
	Type        ViolationType
	MatchID     int64
	TitleID     *int64
	WinnerID    *int64
	Detail      string
	Remediation Remediation
	Applied     bool // false in dry-run mode
}
