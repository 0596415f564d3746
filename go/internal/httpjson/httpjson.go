// Package httpjson holds the small encode/decode helpers shared by the
// domain service handlers.
package httpjson

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type errorBody struct {
	Error string `json:"error"`
}

// Write encodes v as the JSON response body.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response body")
	}
}

// Error writes a JSON error body with the given status.
func Error(w http.ResponseWriter, status int, err error) {
	Write(w, status, errorBody{Error: err.Error()})
}

// Decode reads the request body into v.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// PathUUID parses a UUID path segment.
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return id, nil
}

// ActorID reads the authenticated caller's id. Upstream auth middleware sets
// the X-User-ID header; until then clients pass it directly.
func ActorID(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return uuid.Nil, fmt.Errorf("X-User-ID header is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid X-User-ID header: %w", err)
	}
	return id, nil
}
