package handlers

import (
	"encoding/json"
	"net/http"
)

// Suggestions returns previously used set names for autocompletion.
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	names, err := h.library.Suggestions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"suggestions": names})
}

// AddSuggestion records a name for autocompletion without moving anything.
func (h *Handler) AddSuggestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if err := h.library.AddSuggestion(r.Context(), req.Name); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"result": "OK"})
}
