package simulator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfacility/facility-status/internal/domain"
)

func createPlanned(t *testing.T, f *fixture, resourceType domain.ResourceType, start, end time.Time) *domain.Incident {
	t.Helper()
	incident, err := f.svc.CreateIncident(context.Background(), domain.IncidentTypePlanned, resourceType, &start, &end)
	require.NoError(t, err)
	f.tracker.MarkInUse(resourceType)
	return incident
}

func createUnplanned(t *testing.T, f *fixture, resourceType domain.ResourceType, start, end time.Time) *domain.Incident {
	t.Helper()
	incident, err := f.svc.CreateIncident(context.Background(), domain.IncidentTypeUnplanned, resourceType, &start, &end)
	require.NoError(t, err)
	f.tracker.MarkInUse(resourceType)
	return incident
}

func TestTransition_PendingActivatesAtStart(t *testing.T) {
	f := newFixture(t, 2, domain.ResourceTypeCompute)
	incident := createPlanned(t, f, domain.ResourceTypeCompute, f.clock.Add(10*time.Minute), f.clock.Add(2*time.Hour))

	// Before start: nothing happens.
	require.NoError(t, f.svc.TransitionIncidents(context.Background()))
	assert.Equal(t, domain.ResolutionPending, f.incident(t, incident.ID).Resolution)

	// At/after start: pending -> unresolved, resources go down now.
	f.advance(10 * time.Minute)
	require.NoError(t, f.svc.TransitionIncidents(context.Background()))

	stored := f.incident(t, incident.ID)
	assert.Equal(t, domain.ResolutionUnresolved, stored.Resolution)

	events := f.eventsOf(t, stored)
	require.Len(t, events, 2)
	for _, ev := range events {
		assert.Equal(t, domain.StatusDown, ev.Status)
	}
	for _, res := range f.resources(t) {
		assert.Equal(t, domain.StatusDown, res.CurrentStatus)
	}
}

func TestTransition_PendingWithNilStartActivates(t *testing.T) {
	f := newFixture(t, 1, domain.ResourceTypeStorage)

	incident, err := f.svc.CreateIncident(context.Background(), domain.IncidentTypePlanned, domain.ResourceTypeStorage, nil, nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.TransitionIncidents(context.Background()))
	assert.Equal(t, domain.ResolutionUnresolved, f.incident(t, incident.ID).Resolution)
}

func TestTransition_OneStepPerSweep(t *testing.T) {
	f := newFixture(t, 1, domain.ResourceTypeCompute)
	f.draw = 0.1 // would complete if it reached the unresolved rule

	// Already past its end time, but still pending.
	incident := createPlanned(t, f, domain.ResourceTypeCompute, f.clock.Add(-2*time.Hour), f.clock.Add(-time.Hour))

	require.NoError(t, f.svc.TransitionIncidents(context.Background()))

	// One sweep advances exactly one step: unresolved, not completed.
	assert.Equal(t, domain.ResolutionUnresolved, f.incident(t, incident.ID).Resolution)

	require.NoError(t, f.svc.TransitionIncidents(context.Background()))
	assert.Equal(t, domain.ResolutionCompleted, f.incident(t, incident.ID).Resolution)
}

func TestTransition_UnresolvedPastEnd_Completes(t *testing.T) {
	f := newFixture(t, 3, domain.ResourceTypeCompute)
	f.draw = 0.5 // below the 0.90 completion threshold

	incident := createUnplanned(t, f, domain.ResourceTypeCompute, f.clock, f.clock.Add(time.Hour))
	f.advance(2 * time.Hour)

	require.NoError(t, f.svc.TransitionIncidents(context.Background()))

	stored := f.incident(t, incident.ID)
	assert.Equal(t, domain.ResolutionCompleted, stored.Resolution)
	assert.Equal(t, domain.StatusUp, stored.Status)

	// One up event per impacted resource, on top of the creation downs.
	events := f.eventsOf(t, stored)
	ups := 0
	for _, ev := range events {
		if ev.Status == domain.StatusUp {
			ups++
		}
	}
	assert.Equal(t, 3, ups)

	for _, res := range f.resources(t) {
		assert.Equal(t, domain.StatusUp, res.CurrentStatus)
	}

	// Completion releases the resource-type lock.
	assert.False(t, f.tracker.InUse(domain.ResourceTypeCompute))
}

func TestTransition_UnresolvedPastEnd_Extends(t *testing.T) {
	f := newFixture(t, 1, domain.ResourceTypeCompute)
	f.draw = 0.95 // above the completion threshold

	incident := createUnplanned(t, f, domain.ResourceTypeCompute, f.clock, f.clock.Add(time.Hour))
	f.advance(2 * time.Hour)

	require.NoError(t, f.svc.TransitionIncidents(context.Background()))

	stored := f.incident(t, incident.ID)
	assert.Equal(t, domain.ResolutionExtended, stored.Resolution)
	require.NotNil(t, stored.End)
	assert.Equal(t, f.clock.Add(extensionDuration), *stored.End)

	// Still down, lock still held.
	assert.Equal(t, domain.StatusDown, f.resources(t)[0].CurrentStatus)
	assert.True(t, f.tracker.InUse(domain.ResourceTypeCompute))
}

func TestTransition_UnresolvedPastEnd_NeverStaysUnresolved(t *testing.T) {
	for _, draw := range []float64{0.0, 0.5, 0.89, 0.9, 0.99} {
		f := newFixture(t, 1, domain.ResourceTypeCompute)
		f.draw = draw

		incident := createUnplanned(t, f, domain.ResourceTypeCompute, f.clock.Add(-2*time.Hour), f.clock.Add(-time.Hour))

		require.NoError(t, f.svc.TransitionIncidents(context.Background()))

		resolution := f.incident(t, incident.ID).Resolution
		assert.NotEqual(t, domain.ResolutionUnresolved, resolution, "draw %v", draw)
		assert.Contains(t, []domain.Resolution{domain.ResolutionExtended, domain.ResolutionCompleted}, resolution)
	}
}

func TestTransition_UnresolvedBeforeEnd_Unchanged(t *testing.T) {
	f := newFixture(t, 1, domain.ResourceTypeCompute)

	incident := createUnplanned(t, f, domain.ResourceTypeCompute, f.clock, f.clock.Add(time.Hour))

	require.NoError(t, f.svc.TransitionIncidents(context.Background()))
	assert.Equal(t, domain.ResolutionUnresolved, f.incident(t, incident.ID).Resolution)
}

func TestTransition_NilEndForcedAfterStaleAge(t *testing.T) {
	f := newFixture(t, 1, domain.ResourceTypeCompute)
	f.draw = 0.1

	incident := createUnplanned(t, f, domain.ResourceTypeCompute, f.clock, f.clock.Add(time.Hour))

	// Strip the end time and age the incident past the fallback bound.
	stored := f.incident(t, incident.ID)
	stored.End = nil
	stored.LastModified = f.clock.Add(-25 * time.Hour)
	require.NoError(t, f.repo.SaveIncident(context.Background(), stored))

	require.NoError(t, f.svc.TransitionIncidents(context.Background()))

	after := f.incident(t, incident.ID)
	assert.Equal(t, domain.ResolutionCompleted, after.Resolution)
	// Forced completion records an end time so the pruner can collect it.
	require.NotNil(t, after.End)
	assert.Equal(t, f.clock, *after.End)
}

func TestTransition_NilEndFreshStaysOpen(t *testing.T) {
	f := newFixture(t, 1, domain.ResourceTypeCompute)

	incident := createUnplanned(t, f, domain.ResourceTypeCompute, f.clock, f.clock.Add(time.Hour))

	stored := f.incident(t, incident.ID)
	stored.End = nil
	require.NoError(t, f.repo.SaveIncident(context.Background(), stored))

	require.NoError(t, f.svc.TransitionIncidents(context.Background()))
	assert.Equal(t, domain.ResolutionUnresolved, f.incident(t, incident.ID).Resolution)
}

func TestTransition_ExtendedPastEnd_Completes(t *testing.T) {
	f := newFixture(t, 2, domain.ResourceTypeStorage)
	f.draw = 0.95

	incident := createUnplanned(t, f, domain.ResourceTypeStorage, f.clock, f.clock.Add(time.Hour))

	f.advance(2 * time.Hour)
	require.NoError(t, f.svc.TransitionIncidents(context.Background()))
	require.Equal(t, domain.ResolutionExtended, f.incident(t, incident.ID).Resolution)

	// Extended incidents always complete once past the new end time.
	f.advance(2 * time.Hour)
	require.NoError(t, f.svc.TransitionIncidents(context.Background()))

	stored := f.incident(t, incident.ID)
	assert.Equal(t, domain.ResolutionCompleted, stored.Resolution)
	for _, res := range f.resources(t) {
		assert.Equal(t, domain.StatusUp, res.CurrentStatus)
	}
}

func TestTransition_CompletedIsTerminal(t *testing.T) {
	f := newFixture(t, 1, domain.ResourceTypeCompute)
	f.draw = 0.1

	incident := createUnplanned(t, f, domain.ResourceTypeCompute, f.clock.Add(-2*time.Hour), f.clock.Add(-time.Hour))

	require.NoError(t, f.svc.TransitionIncidents(context.Background()))
	completed := f.incident(t, incident.ID)
	require.Equal(t, domain.ResolutionCompleted, completed.Resolution)
	eventCount := len(completed.EventHrefs)

	f.advance(48 * time.Hour)
	require.NoError(t, f.svc.TransitionIncidents(context.Background()))

	after := f.incident(t, incident.ID)
	assert.Equal(t, domain.ResolutionCompleted, after.Resolution)
	assert.Len(t, after.EventHrefs, eventCount)
}
