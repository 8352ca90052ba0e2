package handlers

import (
	"log"
	"net/http"

	"github.com/mediasort/mediasort/internal/media"
	"github.com/mediasort/mediasort/internal/store"
)

// Status reports the durable load status and the current item and set
// counts.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.library.Status(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	items, sets, err := h.library.Counts(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":     status,
		"item_count": items,
		"set_count":  sets,
	})
}

// Reload clears the persisted state and starts a fresh load in the
// background. Callers poll /status to see it finish; there is no
// completion callback.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	status, err := h.library.Status(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if status == store.StatusLoading {
		respondError(w, http.StatusConflict, "data is still loading")
		return
	}

	if err := h.library.Clear(r.Context()); err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("starting background load from %s", h.config.InputDir)
	h.library.PopulateAsync(media.NewDirSource(h.config.InputDir, nil))

	respondJSON(w, http.StatusOK, map[string]string{"result": "OK"})
}
