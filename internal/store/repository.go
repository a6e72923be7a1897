// Package store defines the storage contract the simulator runs against.
package store

import (
	"context"
	"errors"

	"github.com/openfacility/facility-status/internal/domain"
)

// Repository errors.
var (
	ErrNotFound = errors.New("entity not found")
)

// Repository defines the interface for entity storage. Saves are
// upserts with immediate read-after-write visibility; deletes remove
// the entity from all subsequent finds.
type Repository interface {
	ListFacilities(ctx context.Context) ([]*domain.Facility, error)
	ListResources(ctx context.Context) ([]*domain.Resource, error)
	ListIncidents(ctx context.Context) ([]*domain.Incident, error)

	GetResourceByID(ctx context.Context, id string) (*domain.Resource, error)
	GetEventByHref(ctx context.Context, href string) (*domain.Event, error)

	SaveFacility(ctx context.Context, facility *domain.Facility) error
	SaveResource(ctx context.Context, resource *domain.Resource) error
	SaveIncident(ctx context.Context, incident *domain.Incident) error
	SaveEvent(ctx context.Context, event *domain.Event) error

	DeleteIncident(ctx context.Context, id string) error
	DeleteEvent(ctx context.Context, id string) error
}
