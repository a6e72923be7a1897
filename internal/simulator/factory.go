package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openfacility/facility-status/internal/domain"
)

// CreateIncident builds a new incident targeting every resource of the
// given type and links it into the facility. Unplanned incidents start
// unresolved and immediately take their resources down, emitting one
// down event per resource; planned incidents start pending and defer
// event creation until they leave pending. Not idempotent: every call
// creates a distinct incident.
func (s *Service) CreateIncident(ctx context.Context, incidentType domain.IncidentType, resourceType domain.ResourceType, start, end *time.Time) (*domain.Incident, error) {
	facility, err := s.facility(ctx)
	if err != nil {
		return nil, err
	}

	resources, err := s.resourcesOfType(ctx, resourceType)
	if err != nil {
		return nil, err
	}

	now := s.now()
	incident := &domain.Incident{
		ID:           uuid.New().String(),
		Title:        fmt.Sprintf("%s %s outage", incidentType, resourceType),
		Type:         incidentType,
		Status:       domain.StatusDown,
		Start:        start,
		End:          end,
		LastModified: now,
	}
	incident.Href = s.hrefs.Incident(incident.ID)

	for _, resource := range resources {
		incident.AddResourceHref(resource.Href)
	}

	switch incidentType {
	case domain.IncidentTypeUnplanned:
		incident.Resolution = domain.ResolutionUnresolved
		if err := s.takeResourcesDown(ctx, facility, incident, resources, now); err != nil {
			return nil, err
		}
	default:
		incident.Resolution = domain.ResolutionPending
	}

	facility.AddIncidentHref(incident.Href, now)

	if err := s.repo.SaveIncident(ctx, incident); err != nil {
		return nil, fmt.Errorf("save incident: %w", err)
	}
	if err := s.repo.SaveFacility(ctx, facility); err != nil {
		return nil, fmt.Errorf("save facility: %w", err)
	}

	recordIncidentCreated(incident.Type)

	slog.Info("incident created",
		"incident_id", incident.ID,
		"type", incident.Type,
		"resource_type", resourceType,
		"resources", len(resources),
	)

	return incident, nil
}

// takeResourcesDown emits a down event for each resource and flips its
// current status to down.
func (s *Service) takeResourcesDown(ctx context.Context, facility *domain.Facility, incident *domain.Incident, resources []*domain.Resource, now time.Time) error {
	for _, resource := range resources {
		resource.CurrentStatus = domain.StatusDown
		resource.LastModified = now

		event := s.newEvent(domain.StatusDown, now)
		s.linkEvent(facility, incident, event, resource)

		if err := s.repo.SaveEvent(ctx, event); err != nil {
			return fmt.Errorf("save event for %s: %w", resource.Name, err)
		}
		if err := s.repo.SaveResource(ctx, resource); err != nil {
			return fmt.Errorf("save resource %s: %w", resource.Name, err)
		}

		recordEventEmitted(event.Status)
	}
	return nil
}
