package simulator

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openfacility/facility-status/internal/domain"
	"github.com/openfacility/facility-status/internal/store/memory"
)

const testBaseURL = "http://test.local/api/v1"

// fixture drives the simulator against a seeded in-memory store with a
// frozen clock and a controllable random draw.
type fixture struct {
	svc     *Service
	repo    *memory.Repository
	tracker *AvailabilityTracker
	hrefs   domain.HrefBuilder

	clock time.Time
	draw  float64
}

func newFixture(t *testing.T, resourcesPerType int, types ...domain.ResourceType) *fixture {
	t.Helper()

	f := &fixture{
		repo:  memory.NewRepository(),
		hrefs: domain.NewHrefBuilder(testBaseURL),
		clock: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		draw:  0.5,
	}

	facility := &domain.Facility{
		ID:           "fac-1",
		Name:         "Test Facility",
		LastModified: f.clock,
	}
	facility.Href = f.hrefs.Facility(facility.ID)
	require.NoError(t, f.repo.SaveFacility(context.Background(), facility))

	for _, resourceType := range types {
		for i := 1; i <= resourcesPerType; i++ {
			resource := &domain.Resource{
				ID:            fmt.Sprintf("%s-%02d", resourceType, i),
				Name:          fmt.Sprintf("%s-%02d", resourceType, i),
				Type:          resourceType,
				CurrentStatus: domain.StatusUp,
				LastModified:  f.clock,
			}
			resource.Href = f.hrefs.Resource(resource.ID)
			require.NoError(t, f.repo.SaveResource(context.Background(), resource))
		}
	}

	f.tracker = NewAvailabilityTracker()
	f.tracker.Reset(domain.AllResourceTypes())

	f.svc = NewService(f.repo, f.tracker, Config{
		BaseURL:     testBaseURL,
		HistorySize: 2,
	})
	f.svc.now = func() time.Time { return f.clock }
	f.svc.randFloat = func() float64 { return f.draw }

	return f
}

func (f *fixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func (f *fixture) facility(t *testing.T) *domain.Facility {
	t.Helper()
	facilities, err := f.repo.ListFacilities(context.Background())
	require.NoError(t, err)
	require.Len(t, facilities, 1)
	return facilities[0]
}

func (f *fixture) incidents(t *testing.T) []*domain.Incident {
	t.Helper()
	incidents, err := f.repo.ListIncidents(context.Background())
	require.NoError(t, err)
	return incidents
}

func (f *fixture) incident(t *testing.T, id string) *domain.Incident {
	t.Helper()
	for _, inc := range f.incidents(t) {
		if inc.ID == id {
			return inc
		}
	}
	t.Fatalf("incident %s not found", id)
	return nil
}

func (f *fixture) resource(t *testing.T, id string) *domain.Resource {
	t.Helper()
	resource, err := f.repo.GetResourceByID(context.Background(), id)
	require.NoError(t, err)
	return resource
}

func (f *fixture) resources(t *testing.T) []*domain.Resource {
	t.Helper()
	resources, err := f.repo.ListResources(context.Background())
	require.NoError(t, err)
	return resources
}

// eventsOf resolves every event href an incident references.
func (f *fixture) eventsOf(t *testing.T, incident *domain.Incident) []*domain.Event {
	t.Helper()
	events := make([]*domain.Event, 0, len(incident.EventHrefs))
	for _, href := range incident.EventHrefs {
		ev, err := f.repo.GetEventByHref(context.Background(), href)
		require.NoError(t, err)
		events = append(events, ev)
	}
	return events
}
