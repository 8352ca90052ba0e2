package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mediasort/mediasort/internal/config"
	"github.com/mediasort/mediasort/internal/library"
	"github.com/mediasort/mediasort/internal/media"
	"github.com/mediasort/mediasort/internal/store"
	"github.com/mediasort/mediasort/internal/store/mock"
)

var base = time.Date(2022, 3, 5, 14, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		InputDir:     "/input",
		OutputDir:    "/output",
		DeleteDir:    "/delete",
		GapHours:     2,
		SetsShown:    10,
		SummaryItems: 3,
		ItemsPerPage: 5,
		MaxItems:     20,
		DryRun:       true,
	}
}

type harness struct {
	server *Server
	store  *mock.Store
	svc    *library.Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st := mock.New()
	cfg := testConfig()
	svc := library.New(st, cfg).WithFS(
		func(path string) (os.FileInfo, error) {
			if strings.HasPrefix(path, cfg.InputDir+"/") {
				return nil, nil
			}
			return nil, os.ErrNotExist
		},
		func(string, string) error { return nil },
		func(string) error { return nil },
	)
	return &harness{
		server: NewServer(cfg, svc, 0, "127.0.0.1"),
		store:  st,
		svc:    svc,
	}
}

// seed loads n items one minute apart and returns the resulting set id.
func (h *harness) seed(t *testing.T, n int) string {
	t.Helper()
	ctx := context.Background()

	src := &sliceSource{}
	for i := 0; i < n; i++ {
		src.items = append(src.items, media.Item{
			ID:        fmt.Sprintf("item-%02d", i),
			Path:      fmt.Sprintf("/input/%02d.jpg", i),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}
	if err := h.svc.Populate(ctx, src); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	sets, err := h.store.ListSets(ctx, 1, false)
	if err != nil || len(sets) != 1 {
		t.Fatalf("expected a single seeded set, got %d (%v)", len(sets), err)
	}
	return sets[0].ID
}

type sliceSource struct {
	items []media.Item
	pos   int
}

func (s *sliceSource) Next() (media.Item, error) {
	if s.pos >= len(s.items) {
		return media.Item{}, io.EOF
	}
	item := s.items[s.pos]
	s.pos++
	return item, nil
}

func (h *harness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.server.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(into); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 3)

	rec := h.do(t, http.MethodGet, "/api/v1/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status    string `json:"status"`
		ItemCount int    `json:"item_count"`
		SetCount  int    `json:"set_count"`
	}
	decode(t, rec, &resp)
	if resp.Status != "done" {
		t.Errorf("expected done, got %s", resp.Status)
	}
	if resp.ItemCount != 3 || resp.SetCount != 1 {
		t.Errorf("expected 3 items in 1 set, got %d/%d", resp.ItemCount, resp.SetCount)
	}
}

func TestListSetsEndpoint(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 2)

	rec := h.do(t, http.MethodGet, "/api/v1/sets", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Sets []struct {
			ID     string `json:"id"`
			Start  int64  `json:"start"`
			End    int64  `json:"end"`
			Length int    `json:"length"`
		} `json:"sets"`
	}
	decode(t, rec, &resp)
	if len(resp.Sets) != 1 {
		t.Fatalf("expected 1 set, got %d", len(resp.Sets))
	}
	if resp.Sets[0].Length != 2 {
		t.Errorf("expected length 2, got %d", resp.Sets[0].Length)
	}
	if resp.Sets[0].Start != base.Unix() {
		t.Errorf("expected start %d, got %d", base.Unix(), resp.Sets[0].Start)
	}
}

func TestGetSetEndpoint(t *testing.T) {
	h := newHarness(t)
	setID := h.seed(t, 4)

	rec := h.do(t, http.MethodGet, "/api/v1/sets/"+setID+"?start=1&end=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID    string `json:"id"`
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	decode(t, rec, &resp)
	if resp.ID != setID {
		t.Errorf("expected set %s, got %s", setID, resp.ID)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items in window, got %d", len(resp.Items))
	}
	if resp.Items[0].ID != "item-01" {
		t.Errorf("unexpected window start: %s", resp.Items[0].ID)
	}
}

func TestGetSetEndpoint_NotFound(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/v1/sets/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPreviewSetEndpoint(t *testing.T) {
	h := newHarness(t)
	setID := h.seed(t, 10)

	rec := h.do(t, http.MethodGet, "/api/v1/sets/"+setID+"/preview?limit=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Length int `json:"length"`
		Items  []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	decode(t, rec, &resp)
	if resp.Length != 10 {
		t.Errorf("expected cached length 10, got %d", resp.Length)
	}
	if len(resp.Items) != 4 {
		t.Fatalf("expected head and tail only, got %d items", len(resp.Items))
	}
}

func TestListItemsEndpoint_Pagination(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 8)

	rec := h.do(t, http.MethodGet, "/api/v1/items?limit=5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		HasMore   bool `json:"has_more"`
		NextAfter *struct {
			AfterTs int64  `json:"after_ts"`
			AfterID string `json:"after_id"`
		} `json:"next_after"`
	}
	decode(t, rec, &resp)
	if len(resp.Items) != 5 || !resp.HasMore || resp.NextAfter == nil {
		t.Fatalf("expected a full page with a cursor, got %d items hasMore=%v", len(resp.Items), resp.HasMore)
	}

	next := fmt.Sprintf("/api/v1/items?limit=5&after_ts=%d&after_id=%s", resp.NextAfter.AfterTs, resp.NextAfter.AfterID)
	rec = h.do(t, http.MethodGet, next, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	decode(t, rec, &resp)
	if len(resp.Items) != 3 || resp.HasMore {
		t.Errorf("expected the final 3 items, got %d hasMore=%v", len(resp.Items), resp.HasMore)
	}
}

func TestListItemsEndpoint_BadOrder(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/v1/items?order=sideways", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMoveEndpoint_DryRun(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 2)

	body := map[string]any{
		"item_ids": []string{"item-00", "item-01"},
		"name":     "Lake Trip",
	}
	rec := h.do(t, http.MethodPost, "/api/v1/sets/save_date", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Result      string `json:"result"`
		Destination string `json:"destination"`
	}
	decode(t, rec, &resp)
	if resp.Result != "OK" {
		t.Errorf("expected OK, got %s", resp.Result)
	}
	if resp.Destination == "" {
		t.Error("expected a computed destination")
	}

	// A save action records the name for type-ahead.
	names, err := h.store.Suggestions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 1 || names[0] != "Lake Trip" {
		t.Errorf("expected the name recorded, got %v", names)
	}
}

func TestMoveEndpoint_UnknownAction(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 1)

	body := map[string]any{"item_ids": []string{"item-00"}}
	rec := h.do(t, http.MethodPost, "/api/v1/sets/archive", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMoveEndpoint_RejectedWhileLoading(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 1)
	if err := h.store.SetStatus(context.Background(), store.StatusLoading); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := map[string]any{"item_ids": []string{"item-00"}}
	rec := h.do(t, http.MethodPost, "/api/v1/sets/delete", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestMoveEndpoint_InvalidBody(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sets/delete", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	h.server.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDetachEndpoint(t *testing.T) {
	h := newHarness(t)
	setID := h.seed(t, 3)

	body := map[string]string{"item_id": "item-01", "set_id": setID}
	rec := h.do(t, http.MethodPost, "/api/v1/detach", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		NewSetID string `json:"new_set_id"`
	}
	decode(t, rec, &resp)
	if resp.NewSetID == "" || resp.NewSetID == setID {
		t.Errorf("expected a fresh set id, got %q", resp.NewSetID)
	}
}

func TestDetachEndpoint_UnknownItem(t *testing.T) {
	h := newHarness(t)
	setID := h.seed(t, 2)

	body := map[string]string{"item_id": "stranger", "set_id": setID}
	rec := h.do(t, http.MethodPost, "/api/v1/detach", body)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSuggestionsEndpoint(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for _, name := range []string{"Zoo", "Alps"} {
		if err := h.store.AddSuggestion(ctx, name); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	rec := h.do(t, http.MethodGet, "/api/v1/suggestions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	decode(t, rec, &resp)
	if len(resp.Suggestions) != 2 || resp.Suggestions[0] != "Alps" {
		t.Errorf("expected sorted suggestions, got %v", resp.Suggestions)
	}
}

func TestAddSuggestionEndpoint(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/suggestions", map[string]string{"name": "Hiking"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	names, err := h.store.Suggestions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 1 || names[0] != "Hiking" {
		t.Errorf("expected the name recorded, got %v", names)
	}

	rec = h.do(t, http.MethodPost, "/api/v1/suggestions", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a missing name, got %d", rec.Code)
	}
}

func TestReloadEndpoint_RejectedWhileLoading(t *testing.T) {
	h := newHarness(t)
	if err := h.store.SetStatus(context.Background(), store.StatusLoading); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := h.do(t, http.MethodPost, "/api/v1/reload", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
