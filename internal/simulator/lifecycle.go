package simulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openfacility/facility-status/internal/domain"
	"github.com/openfacility/facility-status/internal/store"
)

// TransitionIncidents performs one sweep of the lifecycle state
// machine over all open incidents. Each incident advances at most one
// step per sweep: a pending incident that is already past its end time
// becomes unresolved now and waits for the next sweep to complete.
func (s *Service) TransitionIncidents(ctx context.Context) error {
	incidents, err := s.repo.ListIncidents(ctx)
	if err != nil {
		return fmt.Errorf("list incidents: %w", err)
	}

	facility, err := s.facility(ctx)
	if err != nil {
		return err
	}

	now := s.now()

	for _, incident := range incidents {
		if incident.Resolution.IsTerminal() {
			continue
		}

		if err := s.transitionOne(ctx, facility, incident, now); err != nil {
			return fmt.Errorf("transition incident %s: %w", incident.ID, err)
		}
	}

	if err := s.repo.SaveFacility(ctx, facility); err != nil {
		return fmt.Errorf("save facility: %w", err)
	}

	return nil
}

func (s *Service) transitionOne(ctx context.Context, facility *domain.Facility, incident *domain.Incident, now time.Time) error {
	switch incident.Resolution {
	case domain.ResolutionPending:
		if incident.Start == nil || !now.Before(*incident.Start) {
			return s.activate(ctx, facility, incident, now)
		}

	case domain.ResolutionUnresolved:
		if !s.pastEnd(incident, now) {
			return nil
		}
		if s.randFloat() < completeProbability {
			return s.complete(ctx, facility, incident, now)
		}
		return s.extend(ctx, incident, now)

	case domain.ResolutionExtended:
		if s.pastEnd(incident, now) {
			return s.complete(ctx, facility, incident, now)
		}
	}
	return nil
}

// pastEnd reports whether the incident is eligible for resolution. An
// incident with no end time counts as past-end once it has gone
// untouched for staleOpenAge, so nothing stays open forever.
func (s *Service) pastEnd(incident *domain.Incident, now time.Time) bool {
	if incident.End != nil {
		return now.After(*incident.End)
	}
	return now.Sub(incident.LastModified) > staleOpenAge
}

// activate moves a pending incident to unresolved. For planned
// incidents this is where event creation was deferred to: every
// targeted resource goes down now.
func (s *Service) activate(ctx context.Context, facility *domain.Facility, incident *domain.Incident, now time.Time) error {
	resources, err := s.incidentResources(ctx, incident)
	if err != nil {
		return err
	}

	if err := s.takeResourcesDown(ctx, facility, incident, resources, now); err != nil {
		return err
	}

	recordTransition(incident.Resolution, domain.ResolutionUnresolved)
	incident.Resolution = domain.ResolutionUnresolved
	incident.LastModified = now

	if err := s.repo.SaveIncident(ctx, incident); err != nil {
		return fmt.Errorf("save incident: %w", err)
	}

	slog.Info("incident activated", "incident_id", incident.ID)
	return nil
}

// extend pushes the incident's end time into the future instead of
// completing it.
func (s *Service) extend(ctx context.Context, incident *domain.Incident, now time.Time) error {
	end := now.Add(extensionDuration)

	recordTransition(incident.Resolution, domain.ResolutionExtended)
	incident.Resolution = domain.ResolutionExtended
	incident.End = &end
	incident.LastModified = now

	if err := s.repo.SaveIncident(ctx, incident); err != nil {
		return fmt.Errorf("save incident: %w", err)
	}

	slog.Info("incident extended", "incident_id", incident.ID, "end", end)
	return nil
}

// complete resolves the incident: one up event per impacted resource,
// resources flip back up, the resource-type locks are released, and
// the resolution becomes terminal.
func (s *Service) complete(ctx context.Context, facility *domain.Facility, incident *domain.Incident, now time.Time) error {
	resources, err := s.incidentResources(ctx, incident)
	if err != nil {
		return err
	}

	for _, resource := range resources {
		resource.CurrentStatus = domain.StatusUp
		resource.LastModified = now

		event := s.newEvent(domain.StatusUp, now)
		s.linkEvent(facility, incident, event, resource)

		if err := s.repo.SaveEvent(ctx, event); err != nil {
			return fmt.Errorf("save event for %s: %w", resource.Name, err)
		}
		if err := s.repo.SaveResource(ctx, resource); err != nil {
			return fmt.Errorf("save resource %s: %w", resource.Name, err)
		}

		recordEventEmitted(event.Status)
		s.tracker.Release(resource.Type)
	}

	recordTransition(incident.Resolution, domain.ResolutionCompleted)
	incident.Resolution = domain.ResolutionCompleted
	incident.Status = domain.StatusUp
	if incident.End == nil {
		end := now
		incident.End = &end
	}
	incident.LastModified = now

	if err := s.repo.SaveIncident(ctx, incident); err != nil {
		return fmt.Errorf("save incident: %w", err)
	}

	slog.Info("incident completed", "incident_id", incident.ID, "resources", len(resources))
	return nil
}

// incidentResources resolves the incident's resource hrefs back to
// resources. Hrefs that no longer resolve are skipped.
func (s *Service) incidentResources(ctx context.Context, incident *domain.Incident) ([]*domain.Resource, error) {
	resources := make([]*domain.Resource, 0, len(incident.ResourceHrefs))
	for _, href := range incident.ResourceHrefs {
		id, ok := s.hrefs.ResourceID(href)
		if !ok {
			slog.Warn("unparseable resource href", "incident_id", incident.ID, "href", href)
			continue
		}

		resource, err := s.repo.GetResourceByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				slog.Warn("incident references missing resource", "incident_id", incident.ID, "resource_id", id)
				continue
			}
			return nil, fmt.Errorf("get resource %s: %w", id, err)
		}
		resources = append(resources, resource)
	}
	return resources, nil
}
