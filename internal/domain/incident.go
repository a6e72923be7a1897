package domain

import "time"

// IncidentType distinguishes scheduled maintenance from unexpected outages.
type IncidentType string

// Incident types.
const (
	IncidentTypePlanned   IncidentType = "planned"
	IncidentTypeUnplanned IncidentType = "unplanned"
)

// IsValid checks if the incident type is valid.
func (t IncidentType) IsValid() bool {
	return t == IncidentTypePlanned || t == IncidentTypeUnplanned
}

// Resolution is the incident's lifecycle state. It only ever moves
// forward: pending -> unresolved -> extended -> completed, where
// unresolved may also complete directly. Completed is terminal.
type Resolution string

// Resolutions.
const (
	ResolutionPending    Resolution = "pending"
	ResolutionUnresolved Resolution = "unresolved"
	ResolutionExtended   Resolution = "extended"
	ResolutionCompleted  Resolution = "completed"
)

// IsValid checks if the resolution is valid.
func (r Resolution) IsValid() bool {
	switch r {
	case ResolutionPending, ResolutionUnresolved, ResolutionExtended, ResolutionCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether the resolution admits no further transitions.
func (r Resolution) IsTerminal() bool {
	return r == ResolutionCompleted
}

// CanTransitionTo reports whether next is a legal single step from r.
func (r Resolution) CanTransitionTo(next Resolution) bool {
	switch r {
	case ResolutionPending:
		return next == ResolutionUnresolved
	case ResolutionUnresolved:
		return next == ResolutionExtended || next == ResolutionCompleted
	case ResolutionExtended:
		return next == ResolutionCompleted
	}
	return false
}

// Incident is an outage record, planned or unplanned, affecting every
// resource of one type. End is nil while the incident is still open.
type Incident struct {
	ID            string            `json:"id"`
	Href          string            `json:"href"`
	Title         string            `json:"title"`
	Type          IncidentType      `json:"type"`
	Status        OperationalStatus `json:"status"`
	Resolution    Resolution        `json:"resolution"`
	Start         *time.Time        `json:"start"`
	End           *time.Time        `json:"end"`
	ResourceHrefs []string          `json:"resource_hrefs"`
	EventHrefs    []string          `json:"event_hrefs"`
	LastModified  time.Time         `json:"last_modified"`
}

// AddResourceHref appends a resource reference if not already present.
func (i *Incident) AddResourceHref(href string) {
	if added, ok := addHref(i.ResourceHrefs, href); ok {
		i.ResourceHrefs = added
	}
}

// AddEventHref appends an event reference if not already present.
func (i *Incident) AddEventHref(href string) {
	if added, ok := addHref(i.EventHrefs, href); ok {
		i.EventHrefs = added
	}
}

// Ended reports whether the incident has an end time in the past.
func (i *Incident) Ended(now time.Time) bool {
	return i.End != nil && i.End.Before(now)
}

// Clone returns a deep copy of the incident.
func (i *Incident) Clone() *Incident {
	cp := *i
	if i.Start != nil {
		start := *i.Start
		cp.Start = &start
	}
	if i.End != nil {
		end := *i.End
		cp.End = &end
	}
	cp.ResourceHrefs = append([]string(nil), i.ResourceHrefs...)
	cp.EventHrefs = append([]string(nil), i.EventHrefs...)
	return &cp
}
