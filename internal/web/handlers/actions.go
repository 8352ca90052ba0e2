package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mediasort/mediasort/internal/library"
	"github.com/mediasort/mediasort/internal/store"
)

type moveRequest struct {
	ItemIDs []string `json:"item_ids"`
	Name    string   `json:"name"`
	DryRun  *bool    `json:"dry_run"`
}

// MoveItems moves the named items to the destination implied by the
// action in the URL and removes them from the library. Mutations are
// rejected while a load is running.
func (h *Handler) MoveItems(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	status, err := h.library.Status(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if status == store.StatusLoading {
		respondError(w, http.StatusConflict, "data is still loading")
		return
	}

	dryRun := h.config.DryRun
	if req.DryRun != nil {
		dryRun = *req.DryRun
	}

	dir, err := h.library.Move(r.Context(), action, req.ItemIDs, req.Name, dryRun)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if library.IsSaveAction(action) && req.Name != "" {
		if err := h.library.AddSuggestion(r.Context(), req.Name); err != nil {
			log.Printf("could not record name suggestion: %v", err)
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"result":      "OK",
		"destination": dir,
	})
}

type detachRequest struct {
	ItemID string `json:"item_id"`
	SetID  string `json:"set_id"`
}

// Detach removes an item from its set and gives it a singleton set of
// its own.
func (h *Handler) Detach(w http.ResponseWriter, r *http.Request) {
	var req detachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	status, err := h.library.Status(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if status == store.StatusLoading {
		respondError(w, http.StatusConflict, "data is still loading")
		return
	}

	newSetID, err := h.library.Detach(r.Context(), req.ItemID, req.SetID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"new_set_id": newSetID})
}
