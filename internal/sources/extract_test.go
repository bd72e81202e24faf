package sources

import (
	"testing"

	"github.com/owdb/wrestlebot/internal/models"
)

func TestExtractWrestlerFacts(t *testing.T) {
	extract := "Steven James Borden (born March 20, 1959), better known by the ring name Sting, " +
		"is an American professional wrestler from Omaha, Nebraska, who made his debut in 1985 " +
		"and retired in 2024. He stands 6 ft 2 in tall and weighs 250 lbs. " +
		"His finisher is the Scorpion Death Lock, applied across five decades."

	fields := map[string]string{}
	extractWrestlerFacts(extract, fields)

	tests := []struct {
		field string
		want  string
	}{
		{models.FieldBirthDate, "March 20, 1959"},
		{models.FieldDebutYear, "1985"},
		{models.FieldRetirementYear, "2024"},
		{models.FieldHometown, "Omaha, Nebraska"},
		{models.FieldNationality, "American"},
		{models.FieldHeight, "6 ft 2 in"},
		{models.FieldWeight, "250 lb"},
		{models.FieldFinishers, "Scorpion Death Lock"},
	}
	for _, tt := range tests {
		if got := fields[tt.field]; got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.field, tt.want, got)
		}
	}
}

func TestExtractWrestlerFactsRejectsImplausibleYears(t *testing.T) {
	fields := map[string]string{}
	extractWrestlerFacts("He made his debut in 9999.", fields)
	if _, ok := fields[models.FieldDebutYear]; ok {
		t.Errorf("expected implausible year to be rejected, got %q", fields[models.FieldDebutYear])
	}
}

func TestExtractPromotionFacts(t *testing.T) {
	extract := "All Elite Wrestling (AEW) is an American professional wrestling promotion " +
		"founded in 2019 by Tony Khan."

	fields := map[string]string{}
	extractPromotionFacts(extract, "All Elite Wrestling", fields)

	if got := fields[models.FieldFoundedYear]; got != "2019" {
		t.Errorf("expected founded_year 2019, got %q", got)
	}
	if got := fields[models.FieldAbbreviation]; got != "AEW" {
		t.Errorf("expected abbreviation AEW, got %q", got)
	}
}

func TestExtractPromotionFactsIgnoresDistantAbbreviation(t *testing.T) {
	// A parenthesized acronym far from the name is probably someone
	// else's.
	extract := "Big Time Wrestling was a regional promotion. It fed talent to the " +
		"World Wide Wrestling Federation (WWWF) for years."

	fields := map[string]string{}
	extractPromotionFacts(extract, "Big Time Wrestling", fields)

	if got := fields[models.FieldAbbreviation]; got != "" {
		t.Errorf("expected no abbreviation, got %q", got)
	}
}

func TestExtractEventFacts(t *testing.T) {
	extract := "WrestleMania III was a professional wrestling event produced by the " +
		"World Wrestling Federation. It took place on March 29, 1987, at the Pontiac Silverdome."

	fields := map[string]string{}
	extractEventFacts(extract, fields)

	if got := fields[models.FieldDate]; got != "March 29, 1987" {
		t.Errorf("expected date March 29, 1987, got %q", got)
	}
	if got := fields[models.FieldPromotionName]; got != "World Wrestling Federation" {
		t.Errorf("expected promotion World Wrestling Federation, got %q", got)
	}
}

func TestExtractTitleFacts(t *testing.T) {
	extract := "The championship was established in 1963. The current champion is Cody Rhodes, " +
		"who won the belt at WrestleMania."

	fields := map[string]string{}
	extractTitleFacts(extract, fields)

	if got := fields[models.FieldEstablished]; got != "1963" {
		t.Errorf("expected established_year 1963, got %q", got)
	}
	if got := fields[models.FieldCurrentChamp]; got != "Cody Rhodes" {
		t.Errorf("expected current_champion Cody Rhodes, got %q", got)
	}
}

func TestExtractVenueFacts(t *testing.T) {
	extract := "Madison Square Garden is an arena located in New York City, New York. " +
		"It has a seating capacity of 20,789 for boxing and wrestling."

	fields := map[string]string{}
	extractVenueFacts(extract, fields)

	if got := fields[models.FieldLocation]; got != "New York City, New York" {
		t.Errorf("expected location New York City, New York, got %q", got)
	}
	if got := fields[models.FieldCapacity]; got != "20789" {
		t.Errorf("expected capacity 20789, got %q", got)
	}
}

func TestExtractStableFacts(t *testing.T) {
	extract := "The Four Horsemen was a stable formed in 1985 and led by James J. Dillon. " +
		"The group disbanded in 1999."

	fields := map[string]string{}
	extractStableFacts(extract, fields)

	if got := fields[models.FieldFormedYear]; got != "1985" {
		t.Errorf("expected formed_year 1985, got %q", got)
	}
	if got := fields[models.FieldDisbandedYear]; got != "1999" {
		t.Errorf("expected disbanded_year 1999, got %q", got)
	}
	if got := fields[models.FieldManager]; got != "James J. Dillon" {
		t.Errorf("expected manager James J. Dillon, got %q", got)
	}
}

func TestSetIfEmptyDoesNotOverwrite(t *testing.T) {
	fields := map[string]string{models.FieldDebutYear: "1990"}
	setIfEmpty(fields, models.FieldDebutYear, "2001")
	if fields[models.FieldDebutYear] != "1990" {
		t.Errorf("expected existing value kept, got %q", fields[models.FieldDebutYear])
	}
}
