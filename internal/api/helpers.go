package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lmeyer/ankiforge/internal/errors"
)

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a JSON body into dst, enforcing the given size limit.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, maxBytes int) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if _, ok := err.(*http.MaxBytesError); ok {
			return errors.NewBadRequestError("request body too large")
		}
		if err == io.EOF {
			return errors.NewBadRequestError("request body is required")
		}
		return errors.NewBadRequestError("invalid JSON body")
	}
	return nil
}

// positionParam parses the 1-based {pos} route parameter.
func positionParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "pos")
	pos, err := strconv.Atoi(raw)
	if err != nil || pos < 1 {
		return 0, errors.NewBadRequestError("invalid card position")
	}
	return pos, nil
}
