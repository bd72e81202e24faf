package sources

import (
	"context"

	"github.com/owdb/wrestlebot/internal/models"
)

// Cagematch is a declared-but-inactive adapter. It advertises the fields
// it would supply so the merge priority table stays honest, but returns
// no data until scraping that site is implemented.
type Cagematch struct{}

// NewCagematch creates the inactive Cagematch adapter.
func NewCagematch() *Cagematch { return &Cagematch{} }

// Name returns the source tag.
func (c *Cagematch) Name() string { return SourceCagematch }

// Fields lists what Cagematch would supply once implemented.
func (c *Cagematch) Fields(entityType models.EntityType) []string {
	switch entityType {
	case models.EntityTypeWrestler:
		return []string{
			models.FieldDebutYear, models.FieldHeight, models.FieldWeight,
			models.FieldFinishers, models.FieldSignatureMoves, models.FieldTrainedBy,
		}
	case models.EntityTypePromotion:
		return []string{models.FieldFoundedYear, models.FieldAbbreviation}
	default:
		return nil
	}
}

// EntityData returns nil; no scraper exists yet.
func (c *Cagematch) EntityData(context.Context, models.EntityType, string) *models.FactRecord {
	return nil
}

// ProFightDB is a declared-but-inactive adapter, same contract as
// Cagematch.
type ProFightDB struct{}

// NewProFightDB creates the inactive ProFightDB adapter.
func NewProFightDB() *ProFightDB { return &ProFightDB{} }

// Name returns the source tag.
func (p *ProFightDB) Name() string { return SourceProFightDB }

// Fields lists what ProFightDB would supply once implemented.
func (p *ProFightDB) Fields(entityType models.EntityType) []string {
	if entityType != models.EntityTypeWrestler {
		return nil
	}
	return []string{models.FieldDebutYear, models.FieldRealName, models.FieldAliases}
}

// EntityData returns nil; no scraper exists yet.
func (p *ProFightDB) EntityData(context.Context, models.EntityType, string) *models.FactRecord {
	return nil
}
