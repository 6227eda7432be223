package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
)

func TestRequestIDMiddleware_Generates(t *testing.T) {
	log, _ := test.NewNullLogger()
	s := &Server{log: log.WithField("component", "api")}

	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.Header().Get("X-Request-ID")
		w.WriteHeader(http.StatusOK)
	})
	handler := s.requestIDMiddleware(inner)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	id := rr.Header().Get("X-Request-ID")
	if len(id) != 36 {
		t.Fatalf("expected a uuid request id, got %q", id)
	}
	if seen != id {
		t.Fatalf("handler saw %q, response carries %q", seen, id)
	}
}

func TestRequestIDMiddleware_ReusesCallerID(t *testing.T) {
	log, hook := test.NewNullLogger()
	s := &Server{log: log.WithField("component", "api")}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logFor(r).Info("handled")
		w.WriteHeader(http.StatusOK)
	})
	handler := s.requestIDMiddleware(inner)

	req := httptest.NewRequest(http.MethodGet, "/spot", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("expected caller request id, got %q", got)
	}
	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if entry.Data["request_id"] != "abc-123" || entry.Data["path"] != "/spot" {
		t.Fatalf("unexpected log fields: %v", entry.Data)
	}
}

func TestValidateDate(t *testing.T) {
	valid := []string{"2024-01-15", "2025-12-31", "2020-02-29"}
	for _, d := range valid {
		if !validateDate(d) {
			t.Fatalf("expected %q to be valid", d)
		}
	}

	invalid := []string{
		"", "2024", "01-15-2024", "2024/01/15",
		"abcd-ef-gh", "2024-13-01", "2024-01-32",
		"2024-1-5", "20240115", "2023-02-29",
	}
	for _, d := range invalid {
		if validateDate(d) {
			t.Fatalf("expected %q to be invalid", d)
		}
	}
}

func TestParseLimit(t *testing.T) {
	cases := []struct {
		query    string
		deflt    int
		expected int
	}{
		{"", 20, 20},
		{"?limit=50", 20, 50},
		{"?limit=0", 20, 20},
		{"?limit=-5", 20, 20},
		{"?limit=abc", 20, 20},
		{"?limit=2000", 20, maxQueryLimit},
		{"?limit=200", 20, 200},
		{"?limit=1", 24, 1},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/test"+tc.query, nil)
		got := parseLimit(req, tc.deflt)
		if got != tc.expected {
			t.Fatalf("parseLimit(%q, %d) = %d, want %d", tc.query, tc.deflt, got, tc.expected)
		}
	}
}

func TestParseWindow(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/spot?from=2024-03-01&to=2024-03-31", nil)
	w, err := parseWindow(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !w.from.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected from %v", w.from)
	}
	if !w.contains(time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)) {
		t.Fatal("a bare day as upper bound should cover the whole day")
	}
	if w.contains(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("the day after the upper bound should be excluded")
	}

	req = httptest.NewRequest(http.MethodGet, "/spot?to=2024-03-05T12:00:00Z", nil)
	if w, err = parseWindow(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !w.from.IsZero() || w.contains(time.Date(2024, 3, 5, 12, 0, 1, 0, time.UTC)) {
		t.Fatalf("unexpected window %+v", w)
	}

	for _, q := range []string{"?from=2024-02-30", "?to=yesterday", "?from=2024-1-5"} {
		req = httptest.NewRequest(http.MethodGet, "/spot"+q, nil)
		if _, err := parseWindow(req); err == nil {
			t.Fatalf("expected %q to be rejected", q)
		}
	}
}

func TestCorsMiddleware_Headers(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := corsMiddleware(inner, "https://myapp.example.com")

	req := httptest.NewRequest(http.MethodGet, "/now", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	origin := rr.Header().Get("Access-Control-Allow-Origin")
	if origin != "https://myapp.example.com" {
		t.Fatalf("expected custom origin, got %q", origin)
	}

	allow := rr.Header().Get("Access-Control-Allow-Headers")
	if allow == "" {
		t.Fatal("expected Allow-Headers to be set")
	}
}

func TestCorsMiddleware_DefaultsToWildcard(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := corsMiddleware(inner, "")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/coins", nil))

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected *, got %q", got)
	}
}

func TestCorsMiddleware_Preflight(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called for OPTIONS")
	})
	handler := corsMiddleware(inner, "*")

	req := httptest.NewRequest(http.MethodOptions, "/spot", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for preflight, got %d", rr.Code)
	}
}
