package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/owdb/wrestlebot/internal/models"
)

// ImportPodcast imports every episode of a podcast feed as a podcast
// entity, matching known wrestler names appearing in episode titles as
// guests. Returns the number of episodes written. Without a configured
// RSS adapter this is a no-op.
func (o *Orchestrator) ImportPodcast(ctx context.Context, feedURL string) (int, error) {
	if o.rss == nil {
		return 0, nil
	}

	feed, err := o.rss.Feed(ctx, feedURL)
	if err != nil {
		return 0, fmt.Errorf("fetching feed %q failed: %w", feedURL, err)
	}

	wrestlers, err := o.store.ListNames(ctx, models.EntityTypeWrestler)
	if err != nil {
		return 0, fmt.Errorf("listing wrestlers for guest matching failed: %w", err)
	}

	imported := 0
	for _, ep := range feed.Episodes {
		if ep.Title == "" {
			continue
		}
		name := feed.Title + ": " + ep.Title

		fields := map[string]string{
			models.FieldName: name,
			models.FieldSlug: models.Slugify(name),
		}
		if ep.Description != "" {
			fields[models.FieldAbout] = ep.Description
		}
		if !ep.Published.IsZero() {
			fields[models.FieldDate] = ep.Published.Format("2006-01-02")
		}
		if ep.AudioURL != "" {
			fields["audio_url"] = ep.AudioURL
		}
		if ep.Duration > 0 {
			fields["duration_seconds"] = strconv.Itoa(int(ep.Duration.Seconds()))
		}
		if guests := matchGuests(ep.Title, wrestlers); len(guests) > 0 {
			fields["guests"] = strings.Join(guests, ", ")
		}

		entity, created, err := o.store.CreateOrUpdate(ctx, models.EntityTypePodcast, name, fields)
		if err != nil {
			return imported, fmt.Errorf("persisting episode %q failed: %w", name, err)
		}
		imported++
		o.collector.RecordEntity(string(models.EntityTypePodcast), created)
		action := models.ActionUpdated
		if created {
			action = models.ActionCreated
		}
		o.logActivity(ctx, models.ActivityLog{
			Action:     action,
			EntityType: models.EntityTypePodcast,
			EntityName: name,
			EntityID:   &entity.ID,
			SourceURL:  feedURL,
			Success:    true,
			Details:    map[string]interface{}{"feed": feed.Title},
		})
	}
	return imported, nil
}

// matchGuests finds known wrestler names appearing in an episode title.
// Short names are skipped; two-character ring names match everything.
func matchGuests(title string, wrestlers []string) []string {
	lower := strings.ToLower(title)
	var guests []string
	for _, name := range wrestlers {
		if len(name) < 4 {
			continue
		}
		if strings.Contains(lower, strings.ToLower(name)) {
			guests = append(guests, name)
		}
	}
	return guests
}
