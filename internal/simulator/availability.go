package simulator

import (
	"math/rand"
	"sync"

	"github.com/openfacility/facility-status/internal/domain"
)

// AvailabilityTracker maps resource types to an "involved in an
// incident" flag. It is the one piece of state shared between the
// generation and transition jobs, so access is mutex-guarded. The
// tracker itself never creates incidents: callers mark a type in use
// after creating one and release it on completion.
type AvailabilityTracker struct {
	mu    sync.Mutex
	inUse map[domain.ResourceType]bool
}

// NewAvailabilityTracker creates a tracker with no types registered.
// Call Reset before use.
func NewAvailabilityTracker() *AvailabilityTracker {
	return &AvailabilityTracker{
		inUse: make(map[domain.ResourceType]bool),
	}
}

// Reset registers the given types, all marked available.
func (t *AvailabilityTracker) Reset(types []domain.ResourceType) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.inUse = make(map[domain.ResourceType]bool, len(types))
	for _, tp := range types {
		t.inUse[tp] = false
	}
	recordTypesInUse(0)
}

// MarkInUse flags a type as involved in an incident.
func (t *AvailabilityTracker) MarkInUse(resourceType domain.ResourceType) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.inUse[resourceType] = true
	recordTypesInUse(t.inUseCountLocked())
}

// Release clears a type's in-use flag.
func (t *AvailabilityTracker) Release(resourceType domain.ResourceType) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.inUse[resourceType] = false
	recordTypesInUse(t.inUseCountLocked())
}

// InUse reports whether a type is currently involved in an incident.
func (t *AvailabilityTracker) InUse(resourceType domain.ResourceType) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.inUse[resourceType]
}

// PickAvailable returns a uniformly random type among those not in
// use. The second return is false when every type is in use, which the
// generation job treats as "skip this cycle". Read-only: the picked
// type is not marked in use.
func (t *AvailabilityTracker) PickAvailable() (domain.ResourceType, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	available := make([]domain.ResourceType, 0, len(t.inUse))
	for tp, used := range t.inUse {
		if !used {
			available = append(available, tp)
		}
	}
	if len(available) == 0 {
		return "", false
	}
	return available[rand.Intn(len(available))], true
}

func (t *AvailabilityTracker) inUseCountLocked() int {
	n := 0
	for _, used := range t.inUse {
		if used {
			n++
		}
	}
	return n
}
