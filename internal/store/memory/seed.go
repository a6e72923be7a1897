package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openfacility/facility-status/internal/domain"
)

// SeedConfig controls the demo data set.
type SeedConfig struct {
	FacilityName     string
	ResourcesPerType int
}

// Seed populates the repository with one facility and a fixed number
// of resources per resource type, all initially up. The simulator runs
// against this data set.
func Seed(ctx context.Context, repo *Repository, hrefs domain.HrefBuilder, cfg SeedConfig) (*domain.Facility, error) {
	now := time.Now()

	facility := &domain.Facility{
		ID:           uuid.New().String(),
		Name:         cfg.FacilityName,
		LastModified: now,
	}
	facility.Href = hrefs.Facility(facility.ID)

	if err := repo.SaveFacility(ctx, facility); err != nil {
		return nil, fmt.Errorf("save facility: %w", err)
	}

	for _, resourceType := range domain.AllResourceTypes() {
		for i := 1; i <= cfg.ResourcesPerType; i++ {
			resource := &domain.Resource{
				ID:            uuid.New().String(),
				Name:          fmt.Sprintf("%s-%02d", resourceType, i),
				Type:          resourceType,
				CurrentStatus: domain.StatusUp,
				LastModified:  now,
			}
			resource.Href = hrefs.Resource(resource.ID)

			if err := repo.SaveResource(ctx, resource); err != nil {
				return nil, fmt.Errorf("save resource %s: %w", resource.Name, err)
			}
		}
	}

	return facility, nil
}
