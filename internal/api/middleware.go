package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

const userIDHeader = "X-Sharer-User-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler, logger *zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		endpoint := endpointLabel(r.URL.Path)
		metrics.IncHTTP(endpoint, strconv.Itoa(rec.status))
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Str("request_id", r.Header.Get("X-Request-Id")).
			Msg("http request")
	})
}

// endpointLabel collapses paths with ids into their resource prefix to keep
// metric cardinality bounded.
func endpointLabel(path string) string {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)
	if len(parts) == 0 || parts[0] == "" {
		return "/"
	}
	return "/" + parts[0]
}

// callerID extracts the acting user from the X-Sharer-User-Id header.
func callerID(r *http.Request) (int64, error) {
	raw := r.Header.Get(userIDHeader)
	if raw == "" {
		return 0, apperr.BadRequest("missing " + userIDHeader + " header")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.BadRequest("invalid " + userIDHeader + " header")
	}
	return id, nil
}

// pathID parses the trailing integer id of a path like /bookings/42.
func pathID(path, prefix string) (int64, error) {
	raw := strings.TrimPrefix(path, prefix)
	raw = strings.TrimSuffix(raw, "/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.NotFound("not found")
	}
	return id, nil
}

// parsePage reads the optional from/size query pair. Absent "from" means the
// caller wants the unpaged variant; bounds are checked downstream.
func parsePage(r *http.Request) (*models.Page, error) {
	rawFrom := r.URL.Query().Get("from")
	if rawFrom == "" {
		return nil, nil
	}

	from, err := strconv.Atoi(rawFrom)
	if err != nil {
		return nil, apperr.BadRequest("invalid pagination parameters")
	}

	size := 0
	if rawSize := r.URL.Query().Get("size"); rawSize != "" {
		size, err = strconv.Atoi(rawSize)
		if err != nil {
			return nil, apperr.BadRequest("invalid pagination parameters")
		}
	}

	return &models.Page{From: from, Size: size}, nil
}
