package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ayusman/maestro/internal/actuator"
	"github.com/ayusman/maestro/internal/app"
	"github.com/ayusman/maestro/internal/capture"
	"github.com/ayusman/maestro/internal/config"
	"github.com/ayusman/maestro/internal/detector"
	"github.com/ayusman/maestro/internal/dispatch"
	"github.com/ayusman/maestro/internal/gesture"
	"github.com/ayusman/maestro/internal/store"
)

func newTestServer(t *testing.T) (*Server, *app.App, *store.Store) {
	t.Helper()

	engine, err := gesture.NewEngine(config.DefaultTuning(), nil)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	a, err := app.New(app.Options{
		Camera:     capture.NewMockCamera(nil, true),
		Detector:   detector.NewMockDetector(),
		Engine:     engine,
		Dispatcher: dispatch.New(actuator.NewMock(), 3, nil),
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })

	srv := New(Config{
		App:      a,
		Store:    st,
		Actuator: actuator.NewMock(),
		Hub:      NewHub(nil),
	})
	return srv, a, st
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want %q", body["status"], "ok")
	}
}

func TestStatus(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/v1/status status = %d, want 200", rec.Code)
	}

	var st StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if st.Service != "maestro" {
		t.Errorf("service = %q, want %q", st.Service, "maestro")
	}
	if !st.Pipeline.Enabled {
		t.Error("pipeline should report enabled")
	}
	if st.Actuator.Controller != "mock" {
		t.Errorf("actuator controller = %q, want %q", st.Actuator.Controller, "mock")
	}
	if st.Actuator.Volume != 50 {
		t.Errorf("actuator volume = %d, want 50", st.Actuator.Volume)
	}
	if st.StreamClients != 0 {
		t.Errorf("stream clients = %d, want 0", st.StreamClients)
	}
}

func TestGetTuning(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/tuning", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/v1/tuning status = %d, want 200", rec.Code)
	}

	var tn config.Tuning
	if err := json.Unmarshal(rec.Body.Bytes(), &tn); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if tn != config.DefaultTuning() {
		t.Errorf("tuning = %+v, want defaults", tn)
	}
}

func TestPutTuning_PartialBodyOverlays(t *testing.T) {
	srv, a, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/v1/tuning", map[string]any{
		"swipe_threshold_cm": 25,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT /api/v1/tuning status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	got := a.Tuning()
	if got.SwipeThresholdCM != 25 {
		t.Errorf("SwipeThresholdCM = %v, want 25", got.SwipeThresholdCM)
	}
	if got.HoldTimeMs != 250 {
		t.Errorf("HoldTimeMs = %d, fields absent from the body must keep their values", got.HoldTimeMs)
	}
}

func TestPutTuning_RejectsInvalid(t *testing.T) {
	srv, a, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/v1/tuning", map[string]any{
		"landmark_buffer_size": 0,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("PUT /api/v1/tuning status = %d, want 400", rec.Code)
	}
	if got := a.Tuning().BufferSize; got != 7 {
		t.Errorf("BufferSize = %d after rejected update, want 7", got)
	}
}

func TestProfileLifecycle(t *testing.T) {
	srv, a, st := newTestServer(t)

	// Creating without a tuning snapshots the live parameters.
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/profiles", ProfileRequest{Name: "couch"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/v1/profiles status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created store.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal created profile: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created profile has no ID")
	}
	if created.Tuning != config.DefaultTuning() {
		t.Errorf("created tuning = %+v, want live defaults", created.Tuning)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/profiles", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/v1/profiles status = %d, want 200", rec.Code)
	}
	var list []store.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal profile list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("profile list has %d entries, want 1", len(list))
	}

	custom := config.DefaultTuning()
	custom.HoldTimeMs = 400
	rec = doJSON(t, srv, http.MethodPut, "/api/v1/profiles/"+created.ID, ProfileRequest{
		Name:   "couch far",
		Tuning: &custom,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT profile status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/v1/profiles/"+created.ID+"/apply", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("apply profile status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if got := a.Tuning().HoldTimeMs; got != 400 {
		t.Errorf("live HoldTimeMs = %d after apply, want 400", got)
	}
	if active, err := st.Settings().Get(store.SettingActiveProfile); err != nil || active != created.ID {
		t.Errorf("active profile setting = %q, %v, want %q", active, err, created.ID)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/v1/profiles/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE profile status = %d, want 204", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/api/v1/profiles/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET deleted profile status = %d, want 404", rec.Code)
	}
}

func TestCreateProfile_Validation(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/profiles", ProfileRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST without name status = %d, want 400", rec.Code)
	}

	bad := config.DefaultTuning()
	bad.HoldTimeMs = 0
	rec = doJSON(t, srv, http.MethodPost, "/api/v1/profiles", ProfileRequest{Name: "x", Tuning: &bad})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST with invalid tuning status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/v1/profiles", ProfileRequest{Name: "dup"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST first profile status = %d, want 201", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodPost, "/api/v1/profiles", ProfileRequest{Name: "dup"})
	if rec.Code != http.StatusConflict {
		t.Errorf("POST duplicate name status = %d, want 409", rec.Code)
	}
}

func TestApplyProfile_NotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/profiles/no-such-id/apply", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("apply missing profile status = %d, want 404", rec.Code)
	}
}

func TestPauseResume(t *testing.T) {
	srv, a, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/pause", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/v1/pause status = %d, want 200", rec.Code)
	}
	var resp EnabledResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Enabled || a.Enabled() {
		t.Error("pipeline still enabled after pause")
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/v1/resume", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/v1/resume status = %d, want 200", rec.Code)
	}
	if !a.Enabled() {
		t.Error("pipeline not enabled after resume")
	}
}

func TestProfiles_ListIsIndependentPerServer(t *testing.T) {
	srv, _, _ := newTestServer(t)

	for i := 0; i < 3; i++ {
		rec := doJSON(t, srv, http.MethodPost, "/api/v1/profiles", ProfileRequest{Name: fmt.Sprintf("p%d", i)})
		if rec.Code != http.StatusCreated {
			t.Fatalf("POST profile %d status = %d, want 201", i, rec.Code)
		}
	}

	other, _, _ := newTestServer(t)
	rec := doJSON(t, other, http.MethodGet, "/api/v1/profiles", nil)
	var list []store.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal profile list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("fresh server lists %d profiles, want 0", len(list))
	}
}
