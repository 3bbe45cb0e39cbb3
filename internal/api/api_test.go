package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/cache"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/config"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/model"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/service"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/source"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *service.Dashboard) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	src := source.NewStaticSource()
	src.SetSheet("main", "Web", [][]string{
		{"Название проекта", "Статус"},
		{"Site", "В работе"},
	})

	cfg := config.DefaultConfig()
	cfg.Source.RosterSheet = ""
	cfg.Source.Sheets = []config.SheetMapping{{Name: "Web", Direction: "Web", HeaderRow: 0}}

	svc := service.New(src, cfg, st, cache.New())
	svc.SetClock(func() time.Time {
		return time.Date(2024, 6, 15, 9, 0, 0, 0, time.Local)
	})

	router := gin.New()
	NewHandler(svc, nil).RegisterRoutes(router.Group("/api"))
	return router, svc
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetAggregate(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/aggregate", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}

	var agg model.Aggregate
	if err := json.Unmarshal(w.Body.Bytes(), &agg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if agg.Summary.TotalProjects != 1 {
		t.Fatalf("total = %d", agg.Summary.TotalProjects)
	}
}

func TestDurations_BadShapeRejected(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter(t)

	for _, body := range []string{`{}`, `{"projectKeys": "Site|Web"}`, `not json`} {
		w := doRequest(t, router, http.MethodPost, "/api/durations", []byte(body))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status %d, want 400", body, w.Code)
		}
	}
}

func TestDurations_UnknownKeysAreNull(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/durations", []byte(`{"projectKeys":["Ghost|Web"]}`))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}

	var out map[string]*int
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v, ok := out["Ghost|Web"]; !ok || v != nil {
		t.Fatalf("unknown key must be present and null: %v", out)
	}
}

func TestSnapshotLifecycle(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/snapshots/2024-06-15", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing snapshot: status %d, want 404", w.Code)
	}

	w = doRequest(t, router, http.MethodGet, "/api/snapshots/not-a-date", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed date: status %d, want 400", w.Code)
	}

	w = doRequest(t, router, http.MethodPost, "/api/snapshots", []byte(`{}`))
	if w.Code != http.StatusOK {
		t.Fatalf("create: status %d: %s", w.Code, w.Body)
	}

	var meta model.SnapshotMeta
	if err := json.Unmarshal(w.Body.Bytes(), &meta); err != nil {
		t.Fatalf("decode meta: %v", err)
	}
	if meta.DateKey != "2024-06-15" || meta.DisplayDate != "15.06.2024" {
		t.Fatalf("unexpected meta: %+v", meta)
	}

	w = doRequest(t, router, http.MethodGet, "/api/snapshots/2024-06-15", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get after create: status %d", w.Code)
	}

	w = doRequest(t, router, http.MethodDelete, "/api/snapshots/2024-06-15", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status %d", w.Code)
	}
	var deleted struct {
		Deleted bool `json:"deleted"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &deleted); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !deleted.Deleted {
		t.Fatalf("existing snapshot must report deleted")
	}

	w = doRequest(t, router, http.MethodDelete, "/api/snapshots/2024-06-15", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &deleted)
	if deleted.Deleted {
		t.Fatalf("second delete must report false")
	}
}

func TestCompare_MissingBaseline(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/compare?days=3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}

	var result model.Comparison
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Available {
		t.Fatalf("no baseline yet, must be unavailable")
	}
	if result.Date != "2024-06-12" {
		t.Fatalf("attempted date = %q", result.Date)
	}

	w = doRequest(t, router, http.MethodGet, "/api/compare?days=zero", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad days: status %d, want 400", w.Code)
	}
}

func TestWorkbooks_UnavailableWithoutStorage(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/workbooks", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d, want 503", w.Code)
	}
}

func TestStatus_StoreFailureIsNotEmptyStore(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	cfg := config.DefaultConfig()
	svc := service.New(source.NewStaticSource(), cfg, st, cache.New())

	router := gin.New()
	NewHandler(svc, nil).RegisterRoutes(router.Group("/api"))

	st.Close()

	w := doRequest(t, router, http.MethodGet, "/api/status", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("closed store must surface an error, got %d: %s", w.Code, w.Body)
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}

	var resp StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Initialized {
		t.Fatalf("no snapshots yet")
	}
	if resp.DefaultSource != "main" {
		t.Fatalf("default source = %q", resp.DefaultSource)
	}
}
