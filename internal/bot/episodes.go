package bot

import (
	"context"
	"fmt"

	"github.com/owdb/wrestlebot/internal/integrity"
	"github.com/owdb/wrestlebot/internal/models"
)

// BackfillEpisodes imports every aired episode of a weekly wrestling
// show from TMDB as an event entity. Returns the number of episodes
// written. Without a configured TMDB adapter this is a no-op.
func (o *Orchestrator) BackfillEpisodes(ctx context.Context, showName string) (int, error) {
	if o.tmdb == nil || !o.tmdb.Enabled() {
		return 0, nil
	}

	show, err := o.tmdb.FindShow(ctx, showName)
	if err != nil {
		return 0, fmt.Errorf("looking up show %q failed: %w", showName, err)
	}
	if show == nil {
		return 0, nil
	}

	promotion := integrity.InferPromotion(show.Name)

	imported := 0
	for _, season := range show.Seasons {
		episodes, err := o.tmdb.SeasonEpisodes(ctx, show.ID, season.SeasonNumber)
		if err != nil {
			return imported, fmt.Errorf("listing %s season %d failed: %w", show.Name, season.SeasonNumber, err)
		}

		for _, ep := range episodes {
			name := fmt.Sprintf("%s S%02dE%02d", show.Name, ep.SeasonNumber, ep.EpisodeNumber)
			if ep.Name != "" {
				name += ": " + ep.Name
			}

			fields := map[string]string{
				models.FieldName: name,
				models.FieldSlug: models.Slugify(name),
				models.FieldDate: ep.AirDate,
			}
			if ep.Overview != "" {
				fields[models.FieldAbout] = ep.Overview
			}
			if promotion != nil {
				fields[models.FieldPromotionName] = promotion.Name
			}

			entity, created, err := o.store.CreateOrUpdate(ctx, models.EntityTypeEvent, name, fields)
			if err != nil {
				return imported, fmt.Errorf("persisting episode %q failed: %w", name, err)
			}
			imported++
			o.collector.RecordEntity(string(models.EntityTypeEvent), created)
			action := models.ActionUpdated
			if created {
				action = models.ActionCreated
			}
			o.logActivity(ctx, models.ActivityLog{
				Action:     action,
				EntityType: models.EntityTypeEvent,
				EntityName: name,
				EntityID:   &entity.ID,
				Success:    true,
				Details:    map[string]interface{}{"show": show.Name, "season": ep.SeasonNumber},
			})
		}
	}
	return imported, nil
}
