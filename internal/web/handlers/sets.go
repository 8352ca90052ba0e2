package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListSets returns set summaries ordered earliest first.
func (h *Handler) ListSets(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", h.config.SetsShown)

	sets, err := h.library.ListSets(r.Context(), limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	out := make([]setJSON, 0, len(sets))
	for _, rec := range sets {
		out = append(out, toSetJSON(rec, nil))
	}
	respondJSON(w, http.StatusOK, map[string]any{"sets": out})
}

// GetSet returns a set with a slice of its items. start/end query
// parameters follow sorted-set range semantics; the default is the whole
// set.
func (h *Handler) GetSet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	start := queryInt(r, "start", 0)
	end := queryInt(r, "end", -1)

	detail, err := h.library.GetSet(r.Context(), id, start, end)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSetJSON(detail.SetRecord, detail.Items))
}

// PreviewSet returns a set with only its first and last few items, for
// previewing large sets cheaply.
func (h *Handler) PreviewSet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit := queryInt(r, "limit", h.config.SummaryItems)

	detail, err := h.library.TopTail(r.Context(), id, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSetJSON(detail.SetRecord, detail.Items))
}
