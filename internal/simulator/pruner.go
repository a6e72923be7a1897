package simulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/openfacility/facility-status/internal/domain"
	"github.com/openfacility/facility-status/internal/store"
)

// PruneHistory bounds the number of retained ended incidents. Incidents
// whose end time is in the past are ordered by start descending, with
// nil starts sorting as most recent; everything beyond the newest
// historySize is deleted together with its events, and the facility's
// href sets are trimmed to match. Open incidents (nil end) are never
// pruned regardless of age.
func (s *Service) PruneHistory(ctx context.Context) error {
	incidents, err := s.repo.ListIncidents(ctx)
	if err != nil {
		return fmt.Errorf("list incidents: %w", err)
	}

	now := s.now()

	ended := make([]*domain.Incident, 0, len(incidents))
	for _, incident := range incidents {
		if incident.Ended(now) {
			ended = append(ended, incident)
		}
	}

	// Newest first. A nil start sorts as most recent, so incidents that
	// never got a scheduled start are the last to be dropped.
	sort.SliceStable(ended, func(i, j int) bool {
		a, b := ended[i].Start, ended[j].Start
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		default:
			return a.After(*b)
		}
	})

	if len(ended) <= s.historySize {
		return nil
	}

	facility, err := s.facility(ctx)
	if err != nil {
		return err
	}

	excess := ended[s.historySize:]
	for _, incident := range excess {
		if err := s.deleteIncident(ctx, facility, incident, now); err != nil {
			return err
		}
	}

	if err := s.repo.SaveFacility(ctx, facility); err != nil {
		return fmt.Errorf("save facility: %w", err)
	}

	slog.Info("history pruned", "deleted", len(excess), "retained", s.historySize)
	return nil
}

// deleteIncident removes an incident, every event it references, and
// the facility's references to both. Event hrefs that no longer
// resolve are ignored.
func (s *Service) deleteIncident(ctx context.Context, facility *domain.Facility, incident *domain.Incident, now time.Time) error {
	for _, href := range incident.EventHrefs {
		event, err := s.repo.GetEventByHref(ctx, href)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return fmt.Errorf("get event %s: %w", href, err)
		}

		if err := s.repo.DeleteEvent(ctx, event.ID); err != nil {
			return fmt.Errorf("delete event %s: %w", event.ID, err)
		}
		facility.RemoveEventHref(event.Href, now)
		recordEventPruned()
	}

	if err := s.repo.DeleteIncident(ctx, incident.ID); err != nil {
		return fmt.Errorf("delete incident %s: %w", incident.ID, err)
	}
	facility.RemoveIncidentHref(incident.Href, now)
	recordIncidentPruned()

	return nil
}
