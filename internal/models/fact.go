package models

import "strings"

// Field names shared between the source adapters and the merge engine. The
// merge engine's priority table is keyed by these, so adapters must emit
// them verbatim.
const (
	FieldName           = "name"
	FieldSlug           = "slug"
	FieldRealName       = "real_name"
	FieldBirthDate      = "birth_date"
	FieldDebutYear      = "debut_year"
	FieldRetirementYear = "retirement_year"
	FieldHometown       = "hometown"
	FieldNationality    = "nationality"
	FieldHeight         = "height"
	FieldWeight         = "weight"
	FieldFinishers      = "finishers"
	FieldSignatureMoves = "signature_moves"
	FieldAliases        = "aliases"
	FieldTrainedBy      = "trained_by"
	FieldAbout          = "about"
	FieldFoundedYear    = "founded_year"
	FieldClosedYear     = "closed_year"
	FieldAbbreviation   = "abbreviation"
	FieldEstablished    = "established_year"
	FieldCurrentChamp   = "current_champion"
	FieldDate           = "date"
	FieldPromotionName  = "promotion_name"
	FieldLocation       = "location"
	FieldCapacity       = "capacity"
	FieldFormedYear     = "formed_year"
	FieldDisbandedYear  = "disbanded_year"
	FieldManager        = "manager"
	FieldReleaseYear    = "release_year"
	FieldAuthor         = "author"
)

// FactRecord holds the raw facts one source supplied for one entity.
// Immutable once fetched; several records for the same entity feed a
// single merge.
type FactRecord struct {
	Source         string            // source tag, e.g. "wikipedia"
	Key            string            // entity natural key (name)
	Fields         map[string]string // field name -> raw value
	AttributionURL string
}

// Get returns the value for a field, or "" when the source did not supply it.
func (f *FactRecord) Get(field string) string {
	if f == nil || f.Fields == nil {
		return ""
	}
	return f.Fields[field]
}

// PopulatedOptionalFields counts substantive fields beyond the bare name,
// used as the discovery validity heuristic. The page summary and source
// attribution URLs don't count: every existing page has an extract, so
// they would make any page pass.
func (f *FactRecord) PopulatedOptionalFields() int {
	n := 0
	for field, value := range f.Fields {
		if field == FieldName || field == FieldSlug || field == FieldAbout || value == "" {
			continue
		}
		if strings.HasSuffix(field, "_url") {
			continue
		}
		n++
	}
	return n
}

// MergedEntity is the resolved view of an entity after one merge pass.
type MergedEntity struct {
	Key    string            // natural key (slug)
	Fields map[string]string // field name -> resolved value
	// Sources records which source tags contributed each resolved field,
	// for traceability.
	Sources map[string][]string
}
