// Package simulator contains the incident lifecycle simulation engine:
// scheduled jobs that create, transition, and prune fake incidents and
// their events against the facility's resources to keep the read API
// demoable.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/openfacility/facility-status/internal/domain"
	"github.com/openfacility/facility-status/internal/store"
)

// Service errors.
var (
	ErrNoFacility = errors.New("no facility in store")
)

const (
	// completeProbability is the chance an unresolved incident past its
	// end time completes instead of being extended.
	completeProbability = 0.90
	// extensionDuration is how far an extended incident's end time is
	// pushed into the future.
	extensionDuration = time.Hour
	// staleOpenAge forces completion of incidents that have no end time
	// and have not been touched for this long, so nothing stays open
	// indefinitely.
	staleOpenAge = 24 * time.Hour
)

// Config holds simulator settings.
type Config struct {
	BaseURL            string
	HistorySize        int
	GenerateInterval   time.Duration
	TransitionInterval time.Duration
	PruneInterval      time.Duration
}

// DefaultConfig returns default simulator settings.
func DefaultConfig() Config {
	return Config{
		BaseURL:            "http://localhost:8080/api/v1",
		HistorySize:        20,
		GenerateInterval:   30 * time.Minute,
		TransitionInterval: 30 * time.Second,
		PruneInterval:      30 * time.Minute,
	}
}

// Service implements the simulation engine.
type Service struct {
	repo        store.Repository
	tracker     *AvailabilityTracker
	hrefs       domain.HrefBuilder
	historySize int

	// now and randFloat are swappable for deterministic tests.
	now       func() time.Time
	randFloat func() float64
}

// NewService creates a new simulator service.
func NewService(repo store.Repository, tracker *AvailabilityTracker, cfg Config) *Service {
	return &Service{
		repo:        repo,
		tracker:     tracker,
		hrefs:       domain.NewHrefBuilder(cfg.BaseURL),
		historySize: cfg.HistorySize,
		now:         time.Now,
		randFloat:   rand.Float64,
	}
}

// facility returns the singleton facility entity.
func (s *Service) facility(ctx context.Context) (*domain.Facility, error) {
	facilities, err := s.repo.ListFacilities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	if len(facilities) == 0 {
		return nil, ErrNoFacility
	}
	return facilities[0], nil
}

// resourcesOfType returns every resource with the given type.
func (s *Service) resourcesOfType(ctx context.Context, resourceType domain.ResourceType) ([]*domain.Resource, error) {
	resources, err := s.repo.ListResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}

	matched := make([]*domain.Resource, 0, len(resources))
	for _, r := range resources {
		if r.Type == resourceType {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// newEvent builds an event with a fresh ID and self-URI. Linking to
// the incident, resource, and facility is done by linkEvent.
func (s *Service) newEvent(status domain.OperationalStatus, occurredAt time.Time) *domain.Event {
	event := &domain.Event{
		ID:           uuid.New().String(),
		Status:       status,
		OccurredAt:   occurredAt,
		LastModified: occurredAt,
	}
	event.Href = s.hrefs.Event(event.ID)
	return event
}

// linkEvent establishes the cross-references between a newly created
// event, its incident, its resource, and the facility. Pure linking:
// any status mutation happens at the call site before linking.
func (s *Service) linkEvent(facility *domain.Facility, incident *domain.Incident, event *domain.Event, resource *domain.Resource) {
	event.ResourceHref = resource.Href
	event.IncidentHref = incident.Href

	incident.AddEventHref(event.Href)
	facility.AddEventHref(event.Href, event.OccurredAt)
}
