package domain

import "time"

// ResourceType groups resources for simultaneous incident impact. An
// incident always targets every resource of a single type.
type ResourceType string

// Resource types.
const (
	ResourceTypeCompute       ResourceType = "compute"
	ResourceTypeStorage       ResourceType = "storage"
	ResourceTypeNetwork       ResourceType = "network"
	ResourceTypeVisualization ResourceType = "visualization"
	ResourceTypeInstrument    ResourceType = "instrument"
)

// AllResourceTypes returns every defined resource type.
func AllResourceTypes() []ResourceType {
	return []ResourceType{
		ResourceTypeCompute,
		ResourceTypeStorage,
		ResourceTypeNetwork,
		ResourceTypeVisualization,
		ResourceTypeInstrument,
	}
}

// IsValid checks if the resource type is valid.
func (t ResourceType) IsValid() bool {
	switch t {
	case ResourceTypeCompute, ResourceTypeStorage, ResourceTypeNetwork,
		ResourceTypeVisualization, ResourceTypeInstrument:
		return true
	}
	return false
}

// OperationalStatus represents whether a resource (or an incident's
// current impact) is up or down.
type OperationalStatus string

// Operational statuses.
const (
	StatusUp   OperationalStatus = "up"
	StatusDown OperationalStatus = "down"
)

// IsValid checks if the operational status is valid.
func (s OperationalStatus) IsValid() bool {
	return s == StatusUp || s == StatusDown
}

// Resource represents a single monitored facility resource.
type Resource struct {
	ID            string            `json:"id"`
	Href          string            `json:"href"`
	Name          string            `json:"name"`
	Type          ResourceType      `json:"type"`
	CurrentStatus OperationalStatus `json:"current_status"`
	LastModified  time.Time         `json:"last_modified"`
}

// Clone returns a deep copy of the resource.
func (r *Resource) Clone() *Resource {
	cp := *r
	return &cp
}
