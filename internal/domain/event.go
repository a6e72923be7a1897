package domain

import "time"

// Event is a point-in-time status change for a single resource, caused
// by an incident. It mirrors the resource's status at the moment it
// occurred and references both the resource and the originating incident.
type Event struct {
	ID           string            `json:"id"`
	Href         string            `json:"href"`
	Status       OperationalStatus `json:"status"`
	OccurredAt   time.Time         `json:"occurred_at"`
	ResourceHref string            `json:"resource_href"`
	IncidentHref string            `json:"incident_href"`
	LastModified time.Time         `json:"last_modified"`
}

// Clone returns a copy of the event.
func (e *Event) Clone() *Event {
	cp := *e
	return &cp
}
