// Package memory provides the in-memory Repository implementation the
// service runs against. All entities are held in maps
// guarded by a single RWMutex; entities are copied on the way in and
// out so callers never share memory with the store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/openfacility/facility-status/internal/domain"
	"github.com/openfacility/facility-status/internal/store"
)

// Repository is an in-memory implementation of store.Repository.
type Repository struct {
	mu         sync.RWMutex
	facilities map[string]*domain.Facility
	resources  map[string]*domain.Resource
	incidents  map[string]*domain.Incident
	events     map[string]*domain.Event
	// eventsByHref indexes events by self-URI for href lookups.
	eventsByHref map[string]string
}

// NewRepository creates an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{
		facilities:   make(map[string]*domain.Facility),
		resources:    make(map[string]*domain.Resource),
		incidents:    make(map[string]*domain.Incident),
		events:       make(map[string]*domain.Event),
		eventsByHref: make(map[string]string),
	}
}

// ListFacilities returns all facilities.
func (r *Repository) ListFacilities(_ context.Context) ([]*domain.Facility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Facility, 0, len(r.facilities))
	for _, f := range r.facilities {
		out = append(out, f.Clone())
	}
	return out, nil
}

// ListResources returns all resources.
func (r *Repository) ListResources(_ context.Context) ([]*domain.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Resource, 0, len(r.resources))
	for _, res := range r.resources {
		out = append(out, res.Clone())
	}
	return out, nil
}

// ListIncidents returns all incidents.
func (r *Repository) ListIncidents(_ context.Context) ([]*domain.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Incident, 0, len(r.incidents))
	for _, inc := range r.incidents {
		out = append(out, inc.Clone())
	}
	return out, nil
}

// GetResourceByID returns the resource with the given ID.
func (r *Repository) GetResourceByID(_ context.Context, id string) (*domain.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.resources[id]
	if !ok {
		return nil, fmt.Errorf("resource %s: %w", id, store.ErrNotFound)
	}
	return res.Clone(), nil
}

// GetEventByHref returns the event with the given self-URI.
func (r *Repository) GetEventByHref(_ context.Context, href string) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.eventsByHref[href]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", href, store.ErrNotFound)
	}
	return r.events[id].Clone(), nil
}

// SaveFacility upserts a facility.
func (r *Repository) SaveFacility(_ context.Context, facility *domain.Facility) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.facilities[facility.ID] = facility.Clone()
	return nil
}

// SaveResource upserts a resource.
func (r *Repository) SaveResource(_ context.Context, resource *domain.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.resources[resource.ID] = resource.Clone()
	return nil
}

// SaveIncident upserts an incident.
func (r *Repository) SaveIncident(_ context.Context, incident *domain.Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.incidents[incident.ID] = incident.Clone()
	return nil
}

// SaveEvent upserts an event.
func (r *Repository) SaveEvent(_ context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[event.ID] = event.Clone()
	r.eventsByHref[event.Href] = event.ID
	return nil
}

// DeleteIncident removes an incident. Deleting an unknown ID is a no-op.
func (r *Repository) DeleteIncident(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.incidents, id)
	return nil
}

// DeleteEvent removes an event. Deleting an unknown ID is a no-op.
func (r *Repository) DeleteEvent(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ev, ok := r.events[id]; ok {
		delete(r.eventsByHref, ev.Href)
		delete(r.events, id)
	}
	return nil
}
