package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/owdb/wrestlebot/internal/breaker"
	"github.com/owdb/wrestlebot/internal/fetch"
	"github.com/owdb/wrestlebot/internal/models"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Grilling JR</title>
    <description>Jim Ross talks wrestling history.</description>
    <item>
      <title>The Montreal Screwjob</title>
      <description>JR remembers Survivor Series 1997.</description>
      <pubDate>Thu, 04 Nov 2021 07:00:00 +0000</pubDate>
      <guid>ep-101</guid>
      <duration>1:02:30</duration>
      <enclosure url="https://cdn.example.com/ep101.mp3" type="audio/mpeg"/>
    </item>
    <item>
      <title>WrestleMania III</title>
      <pubDate>Thu, 11 Nov 2021 07:00:00 +0000</pubDate>
      <guid>ep-102</guid>
      <duration>3600</duration>
      <enclosure url="https://cdn.example.com/ep102.mp3" type="audio/mpeg"/>
    </item>
  </channel>
</rss>`

const atomFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Wrestling Observer</title>
  <subtitle>News and analysis.</subtitle>
  <entry>
    <title>Weekly Recap</title>
    <summary>The week in wrestling.</summary>
    <published>2021-11-04T07:00:00Z</published>
    <id>urn:ep-1</id>
    <link rel="enclosure" type="audio/mpeg" href="https://cdn.example.com/obs1.mp3"/>
  </entry>
</feed>`

func TestRSSFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.Write([]byte(rssFixture))
	}))
	defer server.Close()

	rss := NewRSS(fetch.New(0, 5*time.Second), breaker.New("rss", breaker.DefaultConfig(), testLogger()), testLogger())
	feed, err := rss.Feed(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if feed.Title != "Grilling JR" {
		t.Errorf("expected title Grilling JR, got %q", feed.Title)
	}
	if len(feed.Episodes) != 2 {
		t.Fatalf("expected 2 episodes, got %d", len(feed.Episodes))
	}

	ep := feed.Episodes[0]
	if ep.Title != "The Montreal Screwjob" {
		t.Errorf("unexpected episode title %q", ep.Title)
	}
	if ep.AudioURL != "https://cdn.example.com/ep101.mp3" {
		t.Errorf("unexpected audio url %q", ep.AudioURL)
	}
	if want := time.Date(2021, 11, 4, 7, 0, 0, 0, time.UTC); !ep.Published.Equal(want) {
		t.Errorf("expected published %v, got %v", want, ep.Published)
	}
	if want := time.Hour + 2*time.Minute + 30*time.Second; ep.Duration != want {
		t.Errorf("expected duration %v, got %v", want, ep.Duration)
	}
	if feed.Episodes[1].Duration != time.Hour {
		t.Errorf("expected bare-seconds duration 1h, got %v", feed.Episodes[1].Duration)
	}
}

func TestRSSFeedAtom(t *testing.T) {
	feed, err := parseFeed([]byte(atomFixture))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if feed.Title != "Wrestling Observer" {
		t.Errorf("expected title Wrestling Observer, got %q", feed.Title)
	}
	if len(feed.Episodes) != 1 {
		t.Fatalf("expected 1 episode, got %d", len(feed.Episodes))
	}
	if feed.Episodes[0].AudioURL != "https://cdn.example.com/obs1.mp3" {
		t.Errorf("unexpected audio url %q", feed.Episodes[0].AudioURL)
	}
}

func TestRSSFeedUnrecognized(t *testing.T) {
	if _, err := parseFeed([]byte(`{"not":"xml"}`)); err == nil {
		t.Error("expected error for non-feed payload")
	}
}

func TestParseItunesDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"1:02:30", time.Hour + 2*time.Minute + 30*time.Second},
		{"45:10", 45*time.Minute + 10*time.Second},
		{"3600", time.Hour},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		if got := parseItunesDuration(tt.in); got != tt.want {
			t.Errorf("parseItunesDuration(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestStubAdaptersReturnNil(t *testing.T) {
	adapters := []Adapter{NewCagematch(), NewProFightDB()}
	for _, a := range adapters {
		if rec := a.EntityData(context.Background(), models.EntityTypeWrestler, "Anyone"); rec != nil {
			t.Errorf("%s: expected nil, got %+v", a.Name(), rec)
		}
		if fields := a.Fields(models.EntityTypeWrestler); len(fields) == 0 {
			t.Errorf("%s: expected declared wrestler fields", a.Name())
		}
	}
}
