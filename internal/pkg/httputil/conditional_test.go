package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotModified(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		ifModifiedSince time.Time
		lastModified    time.Time
		expected        bool
	}{
		{
			name:            "no conditional header",
			ifModifiedSince: time.Time{},
			lastModified:    base,
			expected:        false,
		},
		{
			name:            "unchanged since request time",
			ifModifiedSince: base,
			lastModified:    base.Add(-time.Hour),
			expected:        true,
		},
		{
			name:            "modified after request time",
			ifModifiedSince: base,
			lastModified:    base.Add(time.Hour),
			expected:        false,
		},
		{
			name:            "equal timestamps",
			ifModifiedSince: base,
			lastModified:    base,
			expected:        true,
		},
		{
			name:            "sub-second drift is not a modification",
			ifModifiedSince: base,
			lastModified:    base.Add(500 * time.Millisecond),
			expected:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NotModified(tt.ifModifiedSince, tt.lastModified))
		})
	}
}

func TestConditionalGet(t *testing.T) {
	lastModified := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	handler := ConditionalGet(func(*http.Request) (time.Time, bool) {
		return lastModified, true
	})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("no header serves normally", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, lastModified.Format(http.TimeFormat), rec.Header().Get("Last-Modified"))
	})

	t.Run("fresh client gets 304", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("If-Modified-Since", lastModified.Format(http.TimeFormat))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotModified, rec.Code)
	})

	t.Run("stale client gets full response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("If-Modified-Since", lastModified.Add(-time.Hour).Format(http.TimeFormat))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("disabled callback passes through", func(t *testing.T) {
		passthrough := ConditionalGet(func(*http.Request) (time.Time, bool) {
			return time.Time{}, false
		})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("If-Modified-Since", lastModified.Format(http.TimeFormat))
		rec := httptest.NewRecorder()
		passthrough.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Last-Modified"))
	})
}
