package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shareit/internal/apperr"
	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/metrics"
)

const (
	userIDHeader    = "X-Sharer-User-Id"
	requestIDHeader = "X-Request-Id"
)

// Server is the edge proxy in front of the application server. It validates
// request shape, applies rate limiting and forwards everything else verbatim.
type Server struct {
	cfg       config.GatewayConfig
	serverURL string
	client    *http.Client
	limiter   domain.RateLimiter
	logger    *zerolog.Logger
	server    *http.Server
}

func NewServer(cfg config.GatewayConfig, limiter domain.RateLimiter, logger *zerolog.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		serverURL: strings.TrimRight(cfg.ServerURL, "/"),
		client:    &http.Client{Timeout: 30 * time.Second},
		limiter:   limiter,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.handle)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	return s
}

func (s *Server) Start() error {
	s.logger.Info().Int("port", s.cfg.Port).Str("server_url", s.serverURL).Msg("Starting gateway")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("gateway server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the routing for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	logger := s.logger.With().
		Str("request_id", requestID).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Logger()

	if !s.allow(r, &logger) {
		metrics.IncGatewayRejected("rate_limit")
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, apperr.BadRequest("failed to read request body"))
		return
	}

	if err := validate(r.Method, r.URL.Path, r.URL.Query(), body); err != nil {
		metrics.IncGatewayRejected("validation")
		logger.Debug().Err(err).Msg("Request rejected by gateway validation")
		writeError(w, err)
		return
	}

	s.forward(w, r, body, requestID, &logger)
}

// allow asks the limiter per caller, keyed by the sharer header when present
// and the remote address otherwise. A limiter failure lets the request
// through: availability over strictness.
func (s *Server) allow(r *http.Request, logger *zerolog.Logger) bool {
	if !s.cfg.RateLimit.Enabled || s.limiter == nil {
		return true
	}

	key := r.Header.Get(userIDHeader)
	if key == "" {
		key = r.RemoteAddr
	}

	allowed, err := s.limiter.Allow(r.Context(), key)
	if err != nil {
		logger.Warn().Err(err).Msg("Rate limiter unavailable, allowing request")
		return true
	}
	return allowed
}

func (s *Server) forward(w http.ResponseWriter, r *http.Request, body []byte, requestID string, logger *zerolog.Logger) {
	url := s.serverURL + r.URL.RequestURI()
	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, bytes.NewReader(body))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build upstream request")
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream unavailable"})
		return
	}

	for _, header := range []string{"Content-Type", userIDHeader} {
		if v := r.Header.Get(header); v != "" {
			req.Header.Set(header, v)
		}
	}
	req.Header.Set(requestIDHeader, requestID)

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Error().Err(err).Msg("Upstream request failed")
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream unavailable"})
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		w.Header().Set("Content-Disposition", cd)
	}
	w.Header().Set(requestIDHeader, requestID)
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		logger.Warn().Err(err).Msg("Failed to relay upstream response")
	}
}
