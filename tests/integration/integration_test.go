package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ecotrack/recycle-ledger-go/internal/clock"
	"github.com/ecotrack/recycle-ledger-go/internal/domain"
	"github.com/ecotrack/recycle-ledger-go/internal/handler"
	"github.com/ecotrack/recycle-ledger-go/internal/infra/cache"
	"github.com/ecotrack/recycle-ledger-go/internal/infra/observability"
	"github.com/ecotrack/recycle-ledger-go/internal/infra/regions"
	"github.com/ecotrack/recycle-ledger-go/internal/infra/resilience"
	"github.com/ecotrack/recycle-ledger-go/internal/infra/store"
	"github.com/ecotrack/recycle-ledger-go/internal/ledger"
	"github.com/ecotrack/recycle-ledger-go/internal/service"
	"github.com/ecotrack/recycle-ledger-go/internal/session"
)

// newSyncAPIServer emulates the remote sync backend: one state document
// per device, stored in memory.
func newSyncAPIServer() *httptest.Server {
	var mu sync.Mutex
	states := map[string][]byte{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		switch r.Method {
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			states[r.URL.Path] = body
			w.WriteHeader(http.StatusOK)
		case http.MethodGet:
			body, ok := states[r.URL.Path]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
}

func newEngine(syncURL string) (*service.CollectionService, http.Handler) {
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	clk := clock.System{}

	stateStore := store.NewRESTStore(
		&http.Client{Timeout: 5 * time.Second},
		syncURL,
		"test-key",
		"device-integration-1",
		resilience.NewCircuitBreaker("test"),
		resilience.Config{MaxRetries: 1, InitialBackoff: 10 * time.Millisecond, MaxConcurrency: 10},
		logger,
	)

	svc := service.NewCollectionService(
		ledger.New(clk),
		session.NewTracker(clk),
		regions.Defaults(),
		stateStore,
		cache.New[time.Time](time.Minute),
		clk,
		metrics,
		logger,
	)
	return svc, handler.NewRouter(svc, metrics, logger, "")
}

func postJSON(t *testing.T, serverURL, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(serverURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func getJSON(t *testing.T, serverURL, path string, out any) {
	t.Helper()
	resp, err := http.Get(serverURL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
}

// TestIntegration_FullFlow runs a scanning session end to end against the
// full HTTP surface, backed by a mock sync API.
func TestIntegration_FullFlow(t *testing.T) {
	syncServer := newSyncAPIServer()
	defer syncServer.Close()

	_, router := newEngine(syncServer.URL)
	apiServer := httptest.NewServer(router)
	defer apiServer.Close()

	// Start a session.
	resp := postJSON(t, apiServer.URL, "/v1/sessions/start", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start session: status %d", resp.StatusCode)
	}

	// Scan three batches. Distinct payloads so dedupe stays out of the way.
	for i := 1; i <= 3; i++ {
		resp := postJSON(t, apiServer.URL, "/v1/collections", map[string]any{
			"containerCount": i,
			"confidence":     0.9,
			"regionCode":     "br",
			"materials":      []string{"pet"},
		})
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("scan %d: status %d: %s", i, resp.StatusCode, body)
		}
	}

	// An identical repeat scan within the dedupe window is a conflict.
	resp = postJSON(t, apiServer.URL, "/v1/collections", map[string]any{
		"containerCount": 3,
		"confidence":     0.9,
		"regionCode":     "br",
		"materials":      []string{"pet"},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate scan: expected 409, got %d", resp.StatusCode)
	}

	// A garbage observation is rejected without touching the ledger.
	resp = postJSON(t, apiServer.URL, "/v1/collections", map[string]any{
		"containerCount": "many",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("garbage scan: expected 400, got %d", resp.StatusCode)
	}

	// End the session: 1+2+3 containers over 3 events.
	var report domain.SessionReport
	resp = postJSON(t, apiServer.URL, "/v1/sessions/end", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("end session: status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	resp.Body.Close()
	if report.Containers != 6 || report.EventCount != 3 {
		t.Errorf("expected 6 containers over 3 events, got %+v", report)
	}

	// Aggregate and today's window agree with the session.
	var agg domain.LedgerAggregate
	getJSON(t, apiServer.URL, "/v1/ledger/aggregate", &agg)
	if agg.LifetimeContainers != 6 || agg.EventCount != 3 {
		t.Errorf("aggregate mismatch: %+v", agg)
	}
	if agg.CurrentStreakDays != 1 {
		t.Errorf("expected 1-day streak, got %d", agg.CurrentStreakDays)
	}

	var today domain.WindowStats
	getJSON(t, apiServer.URL, "/v1/stats/today", &today)
	if today.Containers != 6 {
		t.Errorf("today window mismatch: %+v", today)
	}

	// Flush and verify the sync API holds the full log.
	resp = postJSON(t, apiServer.URL, "/v1/sync/flush", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("flush: status %d", resp.StatusCode)
	}

	var status domain.SyncStatus
	getJSON(t, apiServer.URL, "/v1/sync/status", &status)
	if status.Dirty || status.PendingEvents != 0 {
		t.Errorf("expected clean sync status, got %+v", status)
	}
}

// TestIntegration_RestartRestoresState verifies that a second engine
// instance pointed at the same sync backend picks up where the first left
// off.
func TestIntegration_RestartRestoresState(t *testing.T) {
	syncServer := newSyncAPIServer()
	defer syncServer.Close()

	_, router := newEngine(syncServer.URL)
	apiServer := httptest.NewServer(router)

	for i := 1; i <= 2; i++ {
		resp := postJSON(t, apiServer.URL, "/v1/collections", map[string]any{
			"containerCount": i * 2,
			"confidence":     0.8,
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("scan %d: status %d", i, resp.StatusCode)
		}
	}

	var want domain.LedgerAggregate
	getJSON(t, apiServer.URL, "/v1/ledger/aggregate", &want)

	resp := postJSON(t, apiServer.URL, "/v1/sync/flush", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("flush: status %d", resp.StatusCode)
	}
	apiServer.Close()

	// "Restart": fresh engine, same backend.
	second, router2 := newEngine(syncServer.URL)
	if err := second.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	apiServer2 := httptest.NewServer(router2)
	defer apiServer2.Close()

	var got domain.LedgerAggregate
	getJSON(t, apiServer2.URL, "/v1/ledger/aggregate", &got)
	if got.LifetimeContainers != want.LifetimeContainers ||
		got.EventCount != want.EventCount ||
		fmt.Sprintf("%.6f", got.AverageConfidence) != fmt.Sprintf("%.6f", want.AverageConfidence) {
		t.Errorf("restored aggregate differs:\n got %+v\nwant %+v", got, want)
	}

	// The restored engine keeps accepting events.
	resp = postJSON(t, apiServer2.URL, "/v1/collections", map[string]any{"containerCount": 1})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("post-restore scan: status %d", resp.StatusCode)
	}
}
