package domain

import "strings"

// HrefBuilder builds entity self-URIs from the configured API base URL.
// The simulator stores cross-references between entities as hrefs, the
// same form the read API later serves them in.
type HrefBuilder struct {
	base string
}

// NewHrefBuilder creates a builder rooted at baseURL.
func NewHrefBuilder(baseURL string) HrefBuilder {
	return HrefBuilder{base: strings.TrimRight(baseURL, "/")}
}

// Facility returns the self-URI for a facility.
func (b HrefBuilder) Facility(id string) string {
	return b.base + "/facilities/" + id
}

// Resource returns the self-URI for a resource.
func (b HrefBuilder) Resource(id string) string {
	return b.base + "/resources/" + id
}

// Incident returns the self-URI for an incident.
func (b HrefBuilder) Incident(id string) string {
	return b.base + "/incidents/" + id
}

// Event returns the self-URI for an event.
func (b HrefBuilder) Event(id string) string {
	return b.base + "/events/" + id
}

// ResourceID extracts the resource ID from a resource href produced by
// this builder. Returns false if the href has a different shape.
func (b HrefBuilder) ResourceID(href string) (string, bool) {
	id, ok := strings.CutPrefix(href, b.base+"/resources/")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
