package simulator

import (
	"context"
	"log/slog"
	"time"

	"github.com/openfacility/facility-status/internal/domain"
)

const (
	// plannedLeadTime is how far in the future a generated planned
	// incident starts.
	plannedLeadTime = 30 * time.Minute
	// plannedDuration is the scheduled length of a planned incident.
	plannedDuration = 2 * time.Hour
	// unplannedDuration is the initial length of an unplanned incident.
	unplannedDuration = time.Hour
)

// GenerateIncident is the generation job body: pick a random resource
// type not already involved in an incident and create a new planned or
// unplanned incident against it. When every type is busy the cycle is
// skipped.
func (s *Service) GenerateIncident(ctx context.Context) error {
	resourceType, ok := s.tracker.PickAvailable()
	if !ok {
		slog.Debug("all resource types in use, skipping generation")
		return nil
	}

	now := s.now()

	incidentType := domain.IncidentTypeUnplanned
	start := now
	end := now.Add(unplannedDuration)
	if s.randFloat() < 0.5 {
		incidentType = domain.IncidentTypePlanned
		start = now.Add(plannedLeadTime)
		end = start.Add(plannedDuration)
	}

	if _, err := s.CreateIncident(ctx, incidentType, resourceType, &start, &end); err != nil {
		return err
	}
	s.tracker.MarkInUse(resourceType)

	return nil
}
