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

const tmdbAPIURL = "https://api.themoviedb.org/3"

// TMDB adapts The Movie Database API for documentary and TV-show
// metadata, including per-season episode listings used by the episode
// backfill stage.
type TMDB struct {
	baseURL string
	apiKey  string
	client  *fetch.Client
	breaker *breaker.Breaker
	logger  *slog.Logger
}

// NewTMDB creates the TMDB adapter. With an empty API key every call
// short-circuits to nil.
func NewTMDB(apiKey string, client *fetch.Client, br *breaker.Breaker, logger *slog.Logger) *TMDB {
	return &TMDB{
		baseURL: tmdbAPIURL,
		apiKey:  apiKey,
		client:  client,
		breaker: br,
		logger:  logger,
	}
}

// NewTMDBWithBaseURL is used by tests to point the adapter at a stub server.
func NewTMDBWithBaseURL(baseURL, apiKey string, client *fetch.Client, br *breaker.Breaker, logger *slog.Logger) *TMDB {
	t := NewTMDB(apiKey, client, br, logger)
	t.baseURL = baseURL
	return t
}

// Name returns the source tag.
func (t *TMDB) Name() string { return SourceTMDB }

// Fields lists what TMDB can populate. Only documentaries are covered.
func (t *TMDB) Fields(entityType models.EntityType) []string {
	if entityType != models.EntityTypeDocumentary {
		return nil
	}
	return []string{models.FieldDate, models.FieldAbout}
}

// Enabled reports whether an API key is configured.
func (t *TMDB) Enabled() bool { return t.apiKey != "" }

type tmdbSearchResponse struct {
	Results []struct {
		ID           int    `json:"id"`
		Title        string `json:"title"`
		Name         string `json:"name"`
		ReleaseDate  string `json:"release_date"`
		FirstAirDate string `json:"first_air_date"`
		Overview     string `json:"overview"`
	} `json:"results"`
}

// EntityData looks the documentary up in the movie index and falls back
// to the TV index. Errors are logged and reported as nil.
func (t *TMDB) EntityData(ctx context.Context, entityType models.EntityType, name string) *models.FactRecord {
	if entityType != models.EntityTypeDocumentary || !t.Enabled() {
		return nil
	}

	for _, kind := range []string{"movie", "tv"} {
		rec, err := t.search(ctx, kind, name)
		if err != nil {
			t.logger.Warn("tmdb search failed", "kind", kind, "name", name, "error", err)
			return nil
		}
		if rec != nil {
			return rec
		}
	}
	return nil
}

func (t *TMDB) search(ctx context.Context, kind, name string) (*models.FactRecord, error) {
	params := url.Values{
		"api_key": {t.apiKey},
		"query":   {name},
	}

	var body []byte
	err := t.breaker.Do(func() error {
		var ferr error
		body, ferr = t.client.Get(ctx, t.baseURL+"/search/"+kind, params)
		return ferr
	})
	if err != nil {
		return nil, err
	}

	var resp tmdbSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode tmdb search response: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	hit := resp.Results[0]
	title := hit.Title
	if title == "" {
		title = hit.Name
	}
	// Reject loose matches; TMDB search is fuzzy and the first result for
	// an obscure documentary can be unrelated.
	if !strings.EqualFold(title, name) && !strings.Contains(strings.ToLower(title), strings.ToLower(name)) {
		return nil, nil
	}

	fields := map[string]string{
		models.FieldName: title,
		models.FieldSlug: models.Slugify(title),
	}
	date := hit.ReleaseDate
	if date == "" {
		date = hit.FirstAirDate
	}
	if date != "" {
		fields[models.FieldDate] = date
	}
	if hit.Overview != "" {
		fields[models.FieldAbout] = hit.Overview
	}

	return &models.FactRecord{
		Source:         SourceTMDB,
		Key:            title,
		Fields:         fields,
		AttributionURL: fmt.Sprintf("https://www.themoviedb.org/%s/%d", kind, hit.ID),
	}, nil
}

// TVShow is the season inventory of one series.
type TVShow struct {
	ID      int
	Name    string
	Seasons []TVSeason
}

// TVSeason is one season's number and declared episode count.
type TVSeason struct {
	SeasonNumber int
	EpisodeCount int
}

// TVEpisode is one aired episode, used to backfill weekly-show events.
type TVEpisode struct {
	SeasonNumber  int
	EpisodeNumber int
	Name          string
	AirDate       string
	Overview      string
}

type tmdbShowResponse struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Seasons []struct {
		SeasonNumber int `json:"season_number"`
		EpisodeCount int `json:"episode_count"`
	} `json:"seasons"`
}

// FindShow searches the TV index for a series by name.
func (t *TMDB) FindShow(ctx context.Context, name string) (*TVShow, error) {
	if !t.Enabled() {
		return nil, nil
	}

	params := url.Values{
		"api_key": {t.apiKey},
		"query":   {name},
	}
	var body []byte
	err := t.breaker.Do(func() error {
		var ferr error
		body, ferr = t.client.Get(ctx, t.baseURL+"/search/tv", params)
		return ferr
	})
	if err != nil {
		return nil, err
	}

	var resp tmdbSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode tmdb search response: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	return t.showDetails(ctx, resp.Results[0].ID)
}

func (t *TMDB) showDetails(ctx context.Context, showID int) (*TVShow, error) {
	params := url.Values{"api_key": {t.apiKey}}
	var body []byte
	err := t.breaker.Do(func() error {
		var ferr error
		body, ferr = t.client.Get(ctx, fmt.Sprintf("%s/tv/%d", t.baseURL, showID), params)
		return ferr
	})
	if err != nil {
		return nil, err
	}

	var resp tmdbShowResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode tmdb show response: %w", err)
	}

	show := &TVShow{ID: resp.ID, Name: resp.Name}
	for _, s := range resp.Seasons {
		if s.SeasonNumber == 0 {
			continue // specials
		}
		show.Seasons = append(show.Seasons, TVSeason{
			SeasonNumber: s.SeasonNumber,
			EpisodeCount: s.EpisodeCount,
		})
	}
	return show, nil
}

type tmdbSeasonResponse struct {
	Episodes []struct {
		SeasonNumber  int    `json:"season_number"`
		EpisodeNumber int    `json:"episode_number"`
		Name          string `json:"name"`
		AirDate       string `json:"air_date"`
		Overview      string `json:"overview"`
	} `json:"episodes"`
}

// SeasonEpisodes lists the aired episodes of one season. Episodes
// without an air date are dropped, they cannot become dated events.
func (t *TMDB) SeasonEpisodes(ctx context.Context, showID, seasonNumber int) ([]TVEpisode, error) {
	if !t.Enabled() {
		return nil, nil
	}

	params := url.Values{"api_key": {t.apiKey}}
	var body []byte
	err := t.breaker.Do(func() error {
		var ferr error
		body, ferr = t.client.Get(ctx, fmt.Sprintf("%s/tv/%d/season/%d", t.baseURL, showID, seasonNumber), params)
		return ferr
	})
	if err != nil {
		return nil, err
	}

	var resp tmdbSeasonResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode tmdb season response: %w", err)
	}

	episodes := make([]TVEpisode, 0, len(resp.Episodes))
	for _, e := range resp.Episodes {
		if e.AirDate == "" {
			continue
		}
		episodes = append(episodes, TVEpisode{
			SeasonNumber:  e.SeasonNumber,
			EpisodeNumber: e.EpisodeNumber,
			Name:          e.Name,
			AirDate:       e.AirDate,
			Overview:      e.Overview,
		})
	}
	return episodes, nil
}
