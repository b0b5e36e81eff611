package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ecotrack/recycle-ledger-go/internal/domain"
	"github.com/ecotrack/recycle-ledger-go/internal/infra/resilience"
)

var tracer = otel.Tracer("store")

// RESTStore persists ledger state through a remote sync API, keyed by
// device. Calls go through the circuit breaker and retry policy so a flaky
// backend degrades to "not yet durable" instead of stalling appends.
type RESTStore struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	deviceID   string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	logger     *zap.Logger
}

// NewRESTStore creates a remote state store.
func NewRESTStore(httpClient *http.Client, baseURL, apiKey, deviceID string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) *RESTStore {
	return &RESTStore{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		deviceID:   deviceID,
		cb:         cb,
		cfg:        cfg,
		logger:     logger,
	}
}

// Save uploads the full state document for this device.
func (s *RESTStore) Save(ctx context.Context, state *domain.LedgerState) error {
	ctx, span := tracer.Start(ctx, "RESTStore.Save")
	defer span.End()
	span.SetAttributes(attribute.Int("ledger.events", len(state.Events)))

	payload, err := json.Marshal(state)
	if err != nil {
		return &domain.ErrPersistence{Op: "save", Err: fmt.Errorf("encode state: %w", err)}
	}

	_, err = s.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, s.cfg, func() error {
			_, err := s.doRequest(ctx, http.MethodPut, s.statePath(), payload)
			return err
		})
	})
	if err != nil {
		return &domain.ErrPersistence{Op: "save", Err: err}
	}
	return nil
}

// Load fetches the state document; 404 means no prior state.
func (s *RESTStore) Load(ctx context.Context) (*domain.LedgerState, error) {
	ctx, span := tracer.Start(ctx, "RESTStore.Load")
	defer span.End()

	var state *domain.LedgerState

	_, err := s.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, s.cfg, func() error {
			body, err := s.doRequest(ctx, http.MethodGet, s.statePath(), nil)
			if err != nil {
				return err
			}
			if body == nil {
				state = nil
				return nil
			}
			var decoded domain.LedgerState
			if err := json.Unmarshal(body, &decoded); err != nil {
				return fmt.Errorf("decode state: %w", err)
			}
			state = &decoded
			return nil
		})
	})
	if err != nil {
		return nil, &domain.ErrPersistence{Op: "load", Err: err}
	}
	return state, nil
}

func (s *RESTStore) statePath() string {
	return fmt.Sprintf("v1/devices/%s/ledger-state", s.deviceID)
}

// doRequest executes an authenticated request against the sync API.
// A 404 returns (nil, nil) so Load can map it to "no prior state".
func (s *RESTStore) doRequest(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", s.baseURL, path)

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("sync api: request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn("sync api: non-2xx response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("sync api returned status %d: %s", resp.StatusCode, string(body))
	}

	s.logger.Debug("sync api: request OK",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)
	return body, nil
}
