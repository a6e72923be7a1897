package httputil

import (
	"net/http"
	"time"
)

// NotModified reports whether a response can be answered with 304 Not
// Modified: the entity has not changed since the client's
// If-Modified-Since time. HTTP dates carry second resolution, so the
// entity's last-modified time is truncated before comparing. A zero
// ifModifiedSince means the client sent no conditional header.
func NotModified(ifModifiedSince, lastModified time.Time) bool {
	if ifModifiedSince.IsZero() {
		return false
	}
	return !lastModified.Truncate(time.Second).After(ifModifiedSince)
}

// ConditionalGet wraps a handler with If-Modified-Since handling. The
// lastModified callback returns the entity's last-modified time for
// the request; a false second return disables conditional handling for
// that request.
func ConditionalGet(lastModified func(*http.Request) (time.Time, bool)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			modTime, ok := lastModified(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Last-Modified", modTime.UTC().Format(http.TimeFormat))

			if since, err := http.ParseTime(r.Header.Get("If-Modified-Since")); err == nil {
				if NotModified(since, modTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
