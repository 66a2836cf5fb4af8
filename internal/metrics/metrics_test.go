package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/v1/workspaces/{workspaceID}/search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/v1/workspaces/ws-42/search?q=launch", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/workspaces/{workspaceID}/search", "200"))
	if val < 1 {
		t.Errorf("expected requests_total keyed by route pattern >= 1, got %f", val)
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/forbidden", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	r.Get("/gateway", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream failure"))
	})

	tests := []struct {
		path   string
		status string
	}{
		{"/forbidden", "403"},
		{"/gateway", "502"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, http.NoBody)
			r.ServeHTTP(httptest.NewRecorder(), req)

			val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", tc.path, tc.status))
			if val < 1 {
				t.Errorf("expected requests_total for %s with status %s >= 1, got %f", tc.path, tc.status, val)
			}
		})
	}
}

func TestRouteLabel_NoRouteContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/anything", http.NoBody)
	if got := routeLabel(req); got != "unknown" {
		t.Errorf("routeLabel() = %q, want unknown", got)
	}
}

func TestSearchMetrics(t *testing.T) {
	before := testutil.ToFloat64(SearchMessagesFiltered)
	SearchMessagesFiltered.Add(3)
	if got := testutil.ToFloat64(SearchMessagesFiltered) - before; got != 3 {
		t.Errorf("expected filtered counter to grow by 3, got %f", got)
	}

	before = testutil.ToFloat64(SearchFilesFiltered)
	SearchFilesFiltered.Inc()
	if got := testutil.ToFloat64(SearchFilesFiltered) - before; got != 1 {
		t.Errorf("expected filtered files counter to grow by 1, got %f", got)
	}

	SearchResultsTotal.WithLabelValues("message").Add(2)
	if testutil.ToFloat64(SearchResultsTotal.WithLabelValues("message")) < 2 {
		t.Error("expected results_total for message >= 2")
	}

	SearchSourceDuration.WithLabelValues("files").Observe(0.01)
	if testutil.CollectAndCount(SearchSourceDuration) == 0 {
		t.Error("expected source duration observations")
	}
}

func TestHandler_ExposesSearchMetrics(t *testing.T) {
	SearchDuration.WithLabelValues("ok").Observe(0.02)

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", http.NoBody))

	body, err := io.ReadAll(rr.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "sercha_search_duration_seconds") {
		t.Error("expected sercha_search_duration_seconds in scrape output")
	}
}
