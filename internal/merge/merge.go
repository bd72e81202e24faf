package merge

import (
	"strings"

	"github.com/owdb/wrestlebot/internal/models"
	"github.com/owdb/wrestlebot/internal/sources"
)

// Engine resolves fact records from several sources into one entity
// view. Scalar fields take the value of the highest-priority source that
// supplied one; list fields union across all sources.
type Engine struct {
	// fieldPriority overrides the default source order per field.
	fieldPriority map[string][]string
	// defaultPriority is the source order for fields with no override.
	defaultPriority []string
	// listFields are merged as comma-separated unions instead of
	// first-match-wins.
	listFields map[string]bool
}

// New creates an Engine with the production priority table. Cagematch
// outranks Wikipedia for ring statistics because its numbers are curated
// per match rather than parsed from prose.
func New() *Engine {
	return &Engine{
		fieldPriority: map[string][]string{
			models.FieldDebutYear: {sources.SourceCagematch, sources.SourceWikipedia, sources.SourceProFightDB},
			models.FieldHeight:    {sources.SourceCagematch, sources.SourceWikipedia},
			models.FieldWeight:    {sources.SourceCagematch, sources.SourceWikipedia},
		},
		defaultPriority: []string{sources.SourceWikipedia, sources.SourceCagematch, sources.SourceProFightDB, sources.SourceTMDB},
		listFields: map[string]bool{
			models.FieldFinishers:      true,
			models.FieldSignatureMoves: true,
			models.FieldAliases:        true,
			models.FieldTrainedBy:      true,
		},
	}
}

// Merge resolves records into one entity. Records from sources absent
// from the priority tables rank after all listed ones, in input order.
// With no records the result has the key and empty fields.
func (e *Engine) Merge(key string, records []*models.FactRecord) *models.MergedEntity {
	merged := &models.MergedEntity{
		Key:     key,
		Fields:  map[string]string{},
		Sources: map[string][]string{},
	}

	bySource := map[string]*models.FactRecord{}
	fieldSet := map[string]bool{}
	for _, rec := range records {
		if rec == nil {
			continue
		}
		// First record per source wins; an adapter should not be
		// queried twice for one entity.
		if _, ok := bySource[rec.Source]; ok {
			continue
		}
		bySource[rec.Source] = rec
		for field, value := range rec.Fields {
			if value != "" {
				fieldSet[field] = true
			}
		}
		if rec.AttributionURL != "" {
			merged.Fields[rec.Source+"_url"] = rec.AttributionURL
		}
	}

	for field := range fieldSet {
		order := e.priorityFor(field, records, bySource)
		if e.listFields[field] {
			value, contributors := unionList(field, order, bySource)
			if value != "" {
				merged.Fields[field] = value
				merged.Sources[field] = contributors
			}
			continue
		}
		for _, source := range order {
			rec := bySource[source]
			if v := rec.Get(field); v != "" {
				merged.Fields[field] = v
				merged.Sources[field] = []string{source}
				break
			}
		}
	}

	return merged
}

// priorityFor returns the source order to consult for a field: the
// configured order filtered to sources that responded, then any
// unlisted responding sources in input order.
func (e *Engine) priorityFor(field string, records []*models.FactRecord, bySource map[string]*models.FactRecord) []string {
	configured, ok := e.fieldPriority[field]
	if !ok {
		configured = e.defaultPriority
	}

	order := make([]string, 0, len(bySource))
	seen := map[string]bool{}
	for _, source := range configured {
		if _, responded := bySource[source]; responded {
			order = append(order, source)
			seen[source] = true
		}
	}
	for _, rec := range records {
		if rec == nil || seen[rec.Source] {
			continue
		}
		if _, responded := bySource[rec.Source]; responded {
			order = append(order, rec.Source)
			seen[rec.Source] = true
		}
	}
	return order
}

// unionList merges a comma-separated list field across sources in
// priority order. Deduplication is case-insensitive and the first-seen
// casing is kept.
func unionList(field string, order []string, bySource map[string]*models.FactRecord) (string, []string) {
	var items []string
	var contributors []string
	seen := map[string]bool{}

	for _, source := range order {
		raw := bySource[source].Get(field)
		if raw == "" {
			continue
		}
		added := false
		for _, item := range strings.Split(raw, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			lower := strings.ToLower(item)
			if seen[lower] {
				continue
			}
			seen[lower] = true
			items = append(items, item)
			added = true
		}
		if added {
			contributors = append(contributors, source)
		}
	}

	return strings.Join(items, ", "), contributors
}
