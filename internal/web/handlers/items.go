package handlers

import (
	"net/http"

	"github.com/mediasort/mediasort/internal/store"
)

// ListItems returns a page of items ordered by timestamp. Pagination is
// cursor based: the response carries a next_after cursor that the client
// feeds back as after_ts/after_id query parameters.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", h.config.ItemsPerPage)
	order := store.Order(r.URL.Query().Get("order"))
	if order == "" {
		order = store.OrderAsc
	}
	after := cursorFromQuery(r)

	page, err := h.library.ListItems(r.Context(), limit, after, order)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	items := make([]itemJSON, 0, len(page.Items))
	for _, rec := range page.Items {
		items = append(items, toItemJSON(rec))
	}

	resp := map[string]any{
		"items":    items,
		"has_more": page.HasMore,
	}
	if page.NextCursor != nil {
		resp["next_after"] = map[string]any{
			"after_ts": page.NextCursor.Timestamp.Unix(),
			"after_id": page.NextCursor.ID,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}
