package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/feefines/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"
)

// IdempotencyMiddleware replays the stored response of a mutating request
// when a client resends it under the same Idempotency-Key.
type IdempotencyMiddleware struct {
	store  usecase.IdempotencyStore
	ttl    time.Duration
	onHit  func()
	logger zerolog.Logger
}

// IdempotencyOption configures an IdempotencyMiddleware.
type IdempotencyOption func(*IdempotencyMiddleware)

// WithIdempotencyTTL sets how long keys are remembered.
func WithIdempotencyTTL(ttl time.Duration) IdempotencyOption {
	return func(m *IdempotencyMiddleware) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithReplayHook registers a callback run for every replayed response.
func WithReplayHook(fn func()) IdempotencyOption {
	return func(m *IdempotencyMiddleware) { m.onHit = fn }
}

// WithIdempotencyLogger sets the logger for store failures after the handler ran.
func WithIdempotencyLogger(logger zerolog.Logger) IdempotencyOption {
	return func(m *IdempotencyMiddleware) { m.logger = logger }
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, opts ...IdempotencyOption) *IdempotencyMiddleware {
	m := &IdempotencyMiddleware{
		store:  store,
		ttl:    usecase.IdempotencyKeyTTL,
		onHit:  func() {},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "bad_request", "invalid request body")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		fingerprint := requestFingerprint(r, body)
		existing, reserved, err := m.store.Reserve(r.Context(), key, fingerprint, m.ttl)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "internal_error", "idempotency check failed")
			return
		}

		if !reserved {
			m.replay(w, existing, fingerprint)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		// Failed requests free the key so the client can retry them.
		if recorder.statusCode < 200 || recorder.statusCode >= 300 {
			if err := m.store.Release(r.Context(), key); err != nil {
				m.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to release idempotency key")
			}
			return
		}

		record := usecase.IdempotencyRecord{
			Fingerprint: fingerprint,
			StatusCode:  recorder.statusCode,
			Body:        recorder.body.Bytes(),
		}
		if err := m.store.Complete(r.Context(), key, record, m.ttl); err != nil {
			m.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to store idempotent response")
		}
	})
}

func (m *IdempotencyMiddleware) replay(w http.ResponseWriter, existing *usecase.IdempotencyRecord, fingerprint string) {
	switch {
	case existing == nil || existing.Pending:
		writeJSONError(w, http.StatusConflict, "conflict", "a request with this idempotency key is in progress")
	case existing.Fingerprint != fingerprint:
		writeJSONError(w, http.StatusUnprocessableEntity, "validation_failed", "idempotency key was used for a different request")
	default:
		m.onHit()
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set(IdempotencyReplayHeader, "true")
		w.WriteHeader(existing.StatusCode)
		_, _ = w.Write(existing.Body)
	}
}

// requestFingerprint identifies a request by method, path and body.
func requestFingerprint(r *http.Request, body []byte) string {
	h := sha256.New()
	h.Write([]byte(r.Method))
	h.Write([]byte{0})
	h.Write([]byte(r.URL.Path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
