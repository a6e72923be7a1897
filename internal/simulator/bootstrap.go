package simulator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/openfacility/facility-status/internal/domain"
)

// Bootstrap runs once at process start. It resets the availability
// tracker from the current resource state, marks every resource up
// under a single synthetic completed startup incident (one up event per
// resource), and seeds one planned incident on a random resource type
// so a fresh deployment has something to show.
func (s *Service) Bootstrap(ctx context.Context) error {
	facility, err := s.facility(ctx)
	if err != nil {
		return err
	}

	resources, err := s.repo.ListResources(ctx)
	if err != nil {
		return fmt.Errorf("list resources: %w", err)
	}

	s.tracker.Reset(domain.AllResourceTypes())
	for _, resource := range resources {
		if resource.CurrentStatus != domain.StatusUp {
			s.tracker.MarkInUse(resource.Type)
		}
	}

	now := s.now()
	incident := &domain.Incident{
		ID:           uuid.New().String(),
		Title:        "Startup",
		Type:         domain.IncidentTypeUnplanned,
		Status:       domain.StatusUp,
		Resolution:   domain.ResolutionCompleted,
		Start:        &now,
		End:          &now,
		LastModified: now,
	}
	incident.Href = s.hrefs.Incident(incident.ID)

	for _, resource := range resources {
		incident.AddResourceHref(resource.Href)

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

	facility.AddIncidentHref(incident.Href, now)

	if err := s.repo.SaveIncident(ctx, incident); err != nil {
		return fmt.Errorf("save incident: %w", err)
	}
	if err := s.repo.SaveFacility(ctx, facility); err != nil {
		return fmt.Errorf("save facility: %w", err)
	}

	recordIncidentCreated(incident.Type)

	slog.Info("startup incident recorded", "incident_id", incident.ID, "resources", len(resources))

	return s.seedPlannedIncident(ctx)
}

// seedPlannedIncident creates one pending planned incident on a random
// available resource type for demo purposes.
func (s *Service) seedPlannedIncident(ctx context.Context) error {
	resourceType, ok := s.tracker.PickAvailable()
	if !ok {
		slog.Warn("no available resource type for seed incident")
		return nil
	}

	now := s.now()
	start := now.Add(plannedLeadTime)
	end := start.Add(plannedDuration)

	if _, err := s.CreateIncident(ctx, domain.IncidentTypePlanned, resourceType, &start, &end); err != nil {
		return fmt.Errorf("seed planned incident: %w", err)
	}
	s.tracker.MarkInUse(resourceType)

	return nil
}
