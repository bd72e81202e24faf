package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/owdb/wrestlebot/internal/breaker"
	"github.com/owdb/wrestlebot/internal/fetch"
	"github.com/owdb/wrestlebot/internal/models"
)

const wikipediaAPIURL = "https://en.wikipedia.org/w/api.php"

// Wikipedia adapts the MediaWiki action API: page search, summary
// extraction and category membership listing.
type Wikipedia struct {
	baseURL string
	client  *fetch.Client
	breaker *breaker.Breaker
	logger  *slog.Logger
}

// NewWikipedia creates the Wikipedia adapter.
func NewWikipedia(client *fetch.Client, br *breaker.Breaker, logger *slog.Logger) *Wikipedia {
	return &Wikipedia{
		baseURL: wikipediaAPIURL,
		client:  client,
		breaker: br,
		logger:  logger,
	}
}

// NewWikipediaWithBaseURL is used by tests to point the adapter at a stub
// server.
func NewWikipediaWithBaseURL(baseURL string, client *fetch.Client, br *breaker.Breaker, logger *slog.Logger) *Wikipedia {
	w := NewWikipedia(client, br, logger)
	w.baseURL = baseURL
	return w
}

// Name returns the source tag.
func (w *Wikipedia) Name() string { return SourceWikipedia }

// Fields lists the fields the Wikipedia heuristics can populate per
// entity type.
func (w *Wikipedia) Fields(entityType models.EntityType) []string {
	switch entityType {
	case models.EntityTypeWrestler:
		return []string{
			models.FieldRealName, models.FieldBirthDate, models.FieldDebutYear,
			models.FieldRetirementYear, models.FieldHometown, models.FieldNationality,
			models.FieldHeight, models.FieldWeight, models.FieldFinishers,
			models.FieldAbout,
		}
	case models.EntityTypePromotion:
		return []string{
			models.FieldFoundedYear, models.FieldClosedYear,
			models.FieldAbbreviation, models.FieldAbout,
		}
	case models.EntityTypeEvent:
		return []string{models.FieldDate, models.FieldPromotionName, models.FieldAbout}
	case models.EntityTypeTitle:
		return []string{
			models.FieldEstablished, models.FieldRetirementYear,
			models.FieldCurrentChamp, models.FieldAbout,
		}
	case models.EntityTypeVenue:
		return []string{models.FieldLocation, models.FieldCapacity, models.FieldAbout}
	case models.EntityTypeStable:
		return []string{
			models.FieldFormedYear, models.FieldDisbandedYear,
			models.FieldManager, models.FieldAbout,
		}
	case models.EntityTypeVideoGame, models.EntityTypeDocumentary:
		return []string{models.FieldReleaseYear, models.FieldAbout}
	case models.EntityTypeBook:
		return []string{models.FieldAuthor, models.FieldReleaseYear, models.FieldAbout}
	default:
		return []string{models.FieldAbout}
	}
}

// searchSuffix biases the page search toward wrestling content per
// entity type.
func searchSuffix(entityType models.EntityType) string {
	switch entityType {
	case models.EntityTypeWrestler:
		return " wrestler"
	case models.EntityTypePromotion:
		return " wrestling"
	case models.EntityTypeEvent:
		return " wrestling event"
	case models.EntityTypeTitle:
		return " championship wrestling"
	case models.EntityTypeVenue:
		return " arena"
	case models.EntityTypeStable:
		return " wrestling stable"
	case models.EntityTypeVideoGame:
		return " wrestling video game"
	case models.EntityTypeBook:
		return " wrestling book"
	case models.EntityTypeDocumentary:
		return " wrestling documentary"
	default:
		return " wrestling"
	}
}

// EntityData searches for the entity's page and extracts atomic facts
// from its plain-text summary. Errors are logged and reported as nil.
func (w *Wikipedia) EntityData(ctx context.Context, entityType models.EntityType, name string) *models.FactRecord {
	title, err := w.searchTitle(ctx, name+searchSuffix(entityType))
	if err != nil {
		w.logger.Warn("wikipedia search failed", "name", name, "error", err)
		return nil
	}
	if title == "" {
		return nil
	}

	extract, err := w.PageExtract(ctx, title)
	if err != nil {
		w.logger.Warn("wikipedia page fetch failed", "title", title, "error", err)
		return nil
	}
	if extract == "" {
		return nil
	}

	clean := models.CleanPageTitle(title)
	fields := map[string]string{
		models.FieldName: clean,
		models.FieldSlug: models.Slugify(clean),
	}
	if about := truncate(extract, 2000); about != "" {
		fields[models.FieldAbout] = about
	}
	extractFacts(entityType, extract, title, fields)

	return &models.FactRecord{
		Source:         SourceWikipedia,
		Key:            clean,
		Fields:         fields,
		AttributionURL: PageURL(title),
	}
}

// PageURL builds the canonical article URL for a page title.
func PageURL(title string) string {
	return "https://en.wikipedia.org/wiki/" + strings.ReplaceAll(title, " ", "_")
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

// searchTitle returns the best-matching page title for a query, or ""
// when nothing matches.
func (w *Wikipedia) searchTitle(ctx context.Context, query string) (string, error) {
	params := url.Values{
		"action":   {"query"},
		"format":   {"json"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {"1"},
	}

	var body []byte
	err := w.breaker.Do(func() error {
		var ferr error
		body, ferr = w.client.Get(ctx, w.baseURL, params)
		return ferr
	})
	if err != nil {
		return "", err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode search response: %w", err)
	}
	if len(resp.Query.Search) == 0 {
		return "", nil
	}
	return resp.Query.Search[0].Title, nil
}

type pagesResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string    `json:"title"`
			Extract string    `json:"extract"`
			Missing *struct{} `json:"missing,omitempty"`
		} `json:"pages"`
	} `json:"query"`
}

// PageExtract returns the full plain-text extract for a page, or "" when
// the page is missing.
func (w *Wikipedia) PageExtract(ctx context.Context, title string) (string, error) {
	params := url.Values{
		"action":      {"query"},
		"format":      {"json"},
		"titles":      {title},
		"prop":        {"extracts"},
		"explaintext": {"1"},
	}

	var body []byte
	err := w.breaker.Do(func() error {
		var ferr error
		body, ferr = w.client.Get(ctx, w.baseURL, params)
		return ferr
	})
	if err != nil {
		return "", err
	}

	var resp pagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode page response: %w", err)
	}

	for _, page := range resp.Query.Pages {
		if page.Missing != nil {
			return "", nil
		}
		return page.Extract, nil
	}
	return "", nil
}

type categoryResponse struct {
	Continue struct {
		CmContinue string `json:"cmcontinue"`
	} `json:"continue"`
	Query struct {
		CategoryMembers []struct {
			Title string `json:"title"`
		} `json:"categorymembers"`
	} `json:"query"`
}

// CategoryMembers lists member pages of a category, following the
// continuation token. List, category and template pages are filtered out.
func (w *Wikipedia) CategoryMembers(ctx context.Context, category, continueToken string, limit int) ([]string, string, error) {
	params := url.Values{
		"action":  {"query"},
		"format":  {"json"},
		"list":    {"categorymembers"},
		"cmtitle": {"Category:" + category},
		"cmlimit": {fmt.Sprintf("%d", limit)},
		"cmtype":  {"page"},
	}
	if continueToken != "" {
		params.Set("cmcontinue", continueToken)
	}

	var body []byte
	err := w.breaker.Do(func() error {
		var ferr error
		body, ferr = w.client.Get(ctx, w.baseURL, params)
		return ferr
	})
	if err != nil {
		return nil, "", err
	}

	var resp categoryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, "", fmt.Errorf("failed to decode category response: %w", err)
	}

	members := make([]string, 0, len(resp.Query.CategoryMembers))
	for _, m := range resp.Query.CategoryMembers {
		if skipPageTitle(m.Title) {
			continue
		}
		members = append(members, m.Title)
	}

	return members, resp.Continue.CmContinue, nil
}

// skipPageTitle filters out navigation pages that are never entities.
func skipPageTitle(title string) bool {
	return strings.HasPrefix(title, "Category:") ||
		strings.HasPrefix(title, "List of") ||
		strings.HasPrefix(title, "Template:") ||
		strings.Contains(title, "(disambiguation)")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
