package domain

import "time"

// Facility is the singleton root entity. It holds href references to
// every incident and event so the read API can expose them as a single
// discovery document. LastModified moves every time a child reference
// is added or removed.
type Facility struct {
	ID            string    `json:"id"`
	Href          string    `json:"href"`
	Name          string    `json:"name"`
	IncidentHrefs []string  `json:"incident_hrefs"`
	EventHrefs    []string  `json:"event_hrefs"`
	LastModified  time.Time `json:"last_modified"`
}

// AddIncidentHref appends an incident reference if not already present.
func (f *Facility) AddIncidentHref(href string, now time.Time) {
	if added, ok := addHref(f.IncidentHrefs, href); ok {
		f.IncidentHrefs = added
		f.LastModified = now
	}
}

// RemoveIncidentHref removes an incident reference if present.
func (f *Facility) RemoveIncidentHref(href string, now time.Time) {
	if removed, ok := removeHref(f.IncidentHrefs, href); ok {
		f.IncidentHrefs = removed
		f.LastModified = now
	}
}

// AddEventHref appends an event reference if not already present.
func (f *Facility) AddEventHref(href string, now time.Time) {
	if added, ok := addHref(f.EventHrefs, href); ok {
		f.EventHrefs = added
		f.LastModified = now
	}
}

// RemoveEventHref removes an event reference if present.
func (f *Facility) RemoveEventHref(href string, now time.Time) {
	if removed, ok := removeHref(f.EventHrefs, href); ok {
		f.EventHrefs = removed
		f.LastModified = now
	}
}

// Clone returns a deep copy of the facility.
func (f *Facility) Clone() *Facility {
	cp := *f
	cp.IncidentHrefs = append([]string(nil), f.IncidentHrefs...)
	cp.EventHrefs = append([]string(nil), f.EventHrefs...)
	return &cp
}

func addHref(hrefs []string, href string) ([]string, bool) {
	for _, h := range hrefs {
		if h == href {
			return hrefs, false
		}
	}
	return append(hrefs, href), true
}

func removeHref(hrefs []string, href string) ([]string, bool) {
	for i, h := range hrefs {
		if h == href {
			return append(hrefs[:i:i], hrefs[i+1:]...), true
		}
	}
	return hrefs, false
}
