package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/owdb/wrestlebot/internal/breaker"
	"github.com/owdb/wrestlebot/internal/fetch"
	"github.com/owdb/wrestlebot/internal/models"
)

// RSS adapts podcast feeds (RSS 2.0 and Atom) into episode records. As a
// source adapter it contributes nothing to entity enrichment; the
// orchestrator drives it through Feed during podcast import.
type RSS struct {
	client  *fetch.Client
	breaker *breaker.Breaker
	logger  *slog.Logger
}

// NewRSS creates the feed adapter.
func NewRSS(client *fetch.Client, br *breaker.Breaker, logger *slog.Logger) *RSS {
	return &RSS{client: client, breaker: br, logger: logger}
}

// Name returns the source tag.
func (r *RSS) Name() string { return SourceRSS }

// Fields reports no enrichment fields; feeds carry episodes, not facts.
func (r *RSS) Fields(models.EntityType) []string { return nil }

// EntityData always returns nil; feed parsing goes through Feed.
func (r *RSS) EntityData(context.Context, models.EntityType, string) *models.FactRecord {
	return nil
}

// PodcastFeed is a parsed feed with its episodes, newest first as
// published.
type PodcastFeed struct {
	Title       string
	Description string
	Episodes    []PodcastEpisode
}

// PodcastEpisode is one feed item.
type PodcastEpisode struct {
	Title       string
	Description string
	Published   time.Time
	AudioURL    string
	Duration    time.Duration
	GUID        string
}

type rssDocument struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Title       string `xml:"title"`
		Description string `xml:"description"`
		Items       []struct {
			Title       string `xml:"title"`
			Description string `xml:"description"`
			PubDate     string `xml:"pubDate"`
			GUID        string `xml:"guid"`
			Duration    string `xml:"duration"`
			Enclosure   struct {
				URL  string `xml:"url,attr"`
				Type string `xml:"type,attr"`
			} `xml:"enclosure"`
		} `xml:"item"`
	} `xml:"channel"`
}

type atomDocument struct {
	XMLName  xml.Name `xml:"feed"`
	Title    string   `xml:"title"`
	Subtitle string   `xml:"subtitle"`
	Entries  []struct {
		Title     string `xml:"title"`
		Summary   string `xml:"summary"`
		Published string `xml:"published"`
		Updated   string `xml:"updated"`
		ID        string `xml:"id"`
		Links     []struct {
			Rel  string `xml:"rel,attr"`
			Href string `xml:"href,attr"`
			Type string `xml:"type,attr"`
		} `xml:"link"`
	} `xml:"entry"`
}

// Feed fetches and parses one feed URL.
func (r *RSS) Feed(ctx context.Context, feedURL string) (*PodcastFeed, error) {
	var body []byte
	err := r.breaker.Do(func() error {
		var ferr error
		body, ferr = r.client.Get(ctx, feedURL, nil)
		return ferr
	})
	if err != nil {
		return nil, err
	}
	return parseFeed(body)
}

func parseFeed(body []byte) (*PodcastFeed, error) {
	var rssDoc rssDocument
	if err := xml.Unmarshal(body, &rssDoc); err == nil && rssDoc.XMLName.Local == "rss" {
		return fromRSS(&rssDoc), nil
	}

	var atomDoc atomDocument
	if err := xml.Unmarshal(body, &atomDoc); err == nil && atomDoc.XMLName.Local == "feed" {
		return fromAtom(&atomDoc), nil
	}

	return nil, fmt.Errorf("unrecognized feed format")
}

func fromRSS(doc *rssDocument) *PodcastFeed {
	feed := &PodcastFeed{
		Title:       strings.TrimSpace(doc.Channel.Title),
		Description: strings.TrimSpace(doc.Channel.Description),
	}
	for _, item := range doc.Channel.Items {
		feed.Episodes = append(feed.Episodes, PodcastEpisode{
			Title:       strings.TrimSpace(item.Title),
			Description: strings.TrimSpace(item.Description),
			Published:   parseFeedTime(item.PubDate),
			AudioURL:    item.Enclosure.URL,
			Duration:    parseItunesDuration(item.Duration),
			GUID:        strings.TrimSpace(item.GUID),
		})
	}
	return feed
}

func fromAtom(doc *atomDocument) *PodcastFeed {
	feed := &PodcastFeed{
		Title:       strings.TrimSpace(doc.Title),
		Description: strings.TrimSpace(doc.Subtitle),
	}
	for _, entry := range doc.Entries {
		published := entry.Published
		if published == "" {
			published = entry.Updated
		}
		ep := PodcastEpisode{
			Title:       strings.TrimSpace(entry.Title),
			Description: strings.TrimSpace(entry.Summary),
			Published:   parseFeedTime(published),
			GUID:        strings.TrimSpace(entry.ID),
		}
		for _, link := range entry.Links {
			if link.Rel == "enclosure" || strings.HasPrefix(link.Type, "audio/") {
				ep.AudioURL = link.Href
				break
			}
		}
		feed.Episodes = append(feed.Episodes, ep)
	}
	return feed
}

// feedTimeFormats covers the date layouts seen across podcast hosts.
var feedTimeFormats = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2006-01-02T15:04:05Z",
	"2006-01-02",
}

func parseFeedTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range feedTimeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseItunesDuration accepts "HH:MM:SS", "MM:SS" or bare seconds.
func parseItunesDuration(s string) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	parts := strings.Split(s, ":")
	if len(parts) == 1 {
		secs, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0
		}
		return time.Duration(secs) * time.Second
	}

	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second
}
