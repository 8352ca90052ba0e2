// Package handlers implements the HTTP API handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/mediasort/mediasort/internal/config"
	"github.com/mediasort/mediasort/internal/library"
	"github.com/mediasort/mediasort/internal/store"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// Handler serves the API over the library service.
type Handler struct {
	config  *config.Config
	library *library.Service
}

// New creates the API handler.
func New(cfg *config.Config, svc *library.Service) *Handler {
	return &Handler{config: cfg, library: svc}
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the library error taxonomy onto HTTP statuses:
// validation failures are client errors, unknown ids are 404, anything
// else (including consistency errors) is a server error.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case library.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, library.ErrLoadInProgress):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// itemJSON is the wire shape of an item record.
type itemJSON struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Timestamp int64  `json:"timestamp"`
}

func toItemJSON(rec store.ItemRecord) itemJSON {
	return itemJSON{ID: rec.ID, Path: rec.Path, Timestamp: rec.Timestamp.Unix()}
}

// setJSON is the wire shape of a set summary or detail.
type setJSON struct {
	ID     string     `json:"id"`
	Name   string     `json:"name,omitempty"`
	Start  int64      `json:"start"`
	End    int64      `json:"end"`
	Length int        `json:"length"`
	Items  []itemJSON `json:"items,omitempty"`
}

func toSetJSON(rec store.SetRecord, items []store.ItemRecord) setJSON {
	out := setJSON{
		ID:     rec.ID,
		Name:   rec.Name,
		Start:  rec.Start.Unix(),
		End:    rec.End.Unix(),
		Length: rec.Length,
	}
	for _, it := range items {
		out.Items = append(out.Items, toItemJSON(it))
	}
	return out
}

// cursorFromQuery builds a pagination cursor from after_ts/after_id query
// parameters; both must be present for a cursor to apply.
func cursorFromQuery(r *http.Request) *store.Cursor {
	tsParam := r.URL.Query().Get("after_ts")
	idParam := r.URL.Query().Get("after_id")
	if tsParam == "" || idParam == "" {
		return nil
	}
	ts, err := parseInt64(tsParam)
	if err != nil {
		return nil
	}
	return &store.Cursor{Timestamp: time.Unix(ts, 0).UTC(), ID: idParam}
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// queryInt reads an integer query parameter, keeping the default when the
// parameter is absent or unparsable.
func queryInt(r *http.Request, key string, defaultVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return n
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
