// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/mwrenn/avsignallab/internal/analyzer"
	"github.com/mwrenn/avsignallab/internal/catalog"
	"github.com/mwrenn/avsignallab/internal/config"
	"github.com/mwrenn/avsignallab/internal/export"
	"github.com/mwrenn/avsignallab/internal/preroll"
	"github.com/mwrenn/avsignallab/internal/recommend"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            8480,
			Timeout:         10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   1000,
			RateLimitWindow: time.Minute,
			MaxUploadMB:     10,
		},
		Storage: config.StorageConfig{
			DataDir:   t.TempDir(),
			UploadDir: t.TempDir(),
			ExportDir: t.TempDir(),
		},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWithConfig(t, testConfig(t))
}

func newTestServerWithConfig(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	store, err := catalog.OpenStore(cfg.Storage.DataDir)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cat := catalog.NewWithStore(store)
	exports, err := export.NewStore(cfg.Storage.ExportDir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	rt := New(
		cfg,
		cat,
		store,
		analyzer.NewEngine(cat),
		preroll.NewEngine("ffmpeg"),
		recommend.NewEngine(cat),
		nil, // no ffprobe in tests
		exports,
	)

	srv := httptest.NewServer(rt.Routes())
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *APIError       `json:"error"`
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	return resp, env
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, env := doJSON(t, srv, http.MethodGet, "/api/v1/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if env.Status != "ok" {
		t.Errorf("envelope status = %q", env.Status)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data["ffprobe_available"] != false {
		t.Error("ffprobe_available should be false in tests")
	}
	if data["custom_devices"] != true {
		t.Error("custom_devices should be true with a store")
	}
}

func TestRateLimitZeroDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.RateLimitReqs = 0
	srv := newTestServerWithConfig(t, cfg)

	for i := 0; i < 5; i++ {
		resp, _ := doJSON(t, srv, http.MethodGet, "/api/v1/health", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, resp.StatusCode)
		}
	}
}

func TestRateLimitEnforced(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.RateLimitReqs = 2
	srv := newTestServerWithConfig(t, cfg)

	var limited bool
	for i := 0; i < 5; i++ {
		resp, env := doJSON(t, srv, http.MethodGet, "/api/v1/health", nil)
		if resp.StatusCode == http.StatusTooManyRequests {
			if env.Error == nil || env.Error.Code != "RATE_LIMITED" {
				t.Fatalf("429 without RATE_LIMITED code: %+v", env.Error)
			}
			limited = true
		}
	}
	if !limited {
		t.Error("no request was rate limited with limit 2")
	}
}

func TestAnalyzeConfigJSON(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]interface{}{
		"edidmode":    "custom",
		"unmutedelay": 0,
		"edidhdrflag": false,
		"ediddvflag":  true,
	}
	resp, env := doJSON(t, srv, http.MethodPost, "/api/v1/analyze/config", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, error = %+v", resp.StatusCode, env.Error)
	}

	var data struct {
		Issues []struct {
			Rule     string `json:"rule"`
			Severity string `json:"severity"`
		} `json:"issues"`
		OptimizedConfig  map[string]interface{} `json:"optimized_config"`
		DownloadFilename string                 `json:"download_filename"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}

	if len(data.Issues) == 0 {
		t.Fatal("expected issues for a misconfigured export")
	}
	if data.Issues[0].Severity != "critical" {
		t.Errorf("first issue severity = %q, want critical (sorted)", data.Issues[0].Severity)
	}
	if data.OptimizedConfig["edidmode"] != "automix" {
		t.Errorf("optimized edidmode = %v, want automix", data.OptimizedConfig["edidmode"])
	}
	if data.DownloadFilename == "" {
		t.Error("missing download filename for optimized config")
	}

	// The exported file must be downloadable.
	dlResp, err := srv.Client().Get(srv.URL + "/api/v1/download/" + data.DownloadFilename)
	if err != nil {
		t.Fatal(err)
	}
	defer dlResp.Body.Close()
	if dlResp.StatusCode != http.StatusOK {
		t.Errorf("download status = %d", dlResp.StatusCode)
	}
}

func TestAnalyzeConfigMultipart(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "vrroom_export.json")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte(`{"edidmode":"automix","unmutedelay":150}`))
	mw.Close()

	resp, err := srv.Client().Post(srv.URL+"/api/v1/analyze/config", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestUploadExtensionRejected(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name     string
		path     string
		filename string
	}{
		{"config exe", "/api/v1/analyze/config", "payload.exe"},
		{"config no extension", "/api/v1/analyze/config", "export"},
		{"media text file", "/api/v1/analyze/preroll/file", "document.txt"},
		{"media script", "/api/v1/analyze/preroll/file", "clip.sh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			part, err := mw.CreateFormFile("file", tt.filename)
			if err != nil {
				t.Fatal(err)
			}
			part.Write([]byte(`{"edidmode":"automix"}`))
			mw.Close()

			resp, err := srv.Client().Post(srv.URL+tt.path, mw.FormDataContentType(), &buf)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 for %q", resp.StatusCode, tt.filename)
			}
		})
	}
}

func TestAnalyzeConfigMalformed(t *testing.T) {
	srv := newTestServer(t)

	resp, env := doJSON(t, srv, http.MethodPost, "/api/v1/analyze/config",
		map[string]interface{}{"unmutedelay": "not a number"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "MALFORMED_INPUT" {
		t.Errorf("error = %+v, want MALFORMED_INPUT", env.Error)
	}
}

func TestAnalyzePreroll(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]interface{}{
		"stream": map[string]interface{}{
			"width":          1280,
			"height":         720,
			"frame_rate":     map[string]int{"num": 30, "den": 1},
			"codec":          "h264",
			"dynamic_range":  "SDR",
			"color_transfer": "bt709",
		},
		"target": "4k_hdr10_24",
	}
	resp, env := doJSON(t, srv, http.MethodPost, "/api/v1/analyze/preroll", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, error = %+v", resp.StatusCode, env.Error)
	}

	var data struct {
		Matches  bool `json:"matches"`
		Findings []struct {
			Severity string `json:"severity"`
		} `json:"findings"`
		Commands []struct {
			Command string `json:"command"`
		} `json:"commands"`
		DownloadFilename string `json:"download_filename"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}

	if data.Matches {
		t.Error("720p SDR should not match a 4K HDR10 target")
	}
	if len(data.Findings) == 0 {
		t.Error("expected mismatch findings")
	}
	if len(data.Commands) == 0 {
		t.Fatal("expected re-encode commands")
	}
	if !strings.Contains(data.Commands[0].Command, "ffmpeg") {
		t.Errorf("command %q missing ffmpeg", data.Commands[0].Command)
	}
	if data.DownloadFilename == "" {
		t.Error("missing script download filename")
	}
}

func TestAnalyzePrerollUnknownTarget(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]interface{}{
		"stream": map[string]interface{}{
			"width":      3840,
			"height":     2160,
			"frame_rate": map[string]int{"num": 24000, "den": 1001},
		},
		"target": "8k_hdr_240",
	}
	resp, env := doJSON(t, srv, http.MethodPost, "/api/v1/analyze/preroll", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "UNKNOWN_TARGET" {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestAnalyzePrerollIncomplete(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]interface{}{
		"stream": map[string]interface{}{"width": 3840},
	}
	resp, env := doJSON(t, srv, http.MethodPost, "/api/v1/analyze/preroll", body)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "UNSUPPORTED_DESCRIPTOR" {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestAnalyzePrerollFileWithoutFFprobe(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "preroll.mp4")
	part.Write([]byte("not a real video"))
	mw.Close()

	resp, err := srv.Client().Post(srv.URL+"/api/v1/analyze/preroll/file", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 when ffprobe is absent", resp.StatusCode)
	}
}

func TestRecommendEndpoint(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]interface{}{
		"display":   "jvc_dla_nz7",
		"processor": "vrroom",
		"goals":     []string{"lldv_non_dv"},
	}
	resp, env := doJSON(t, srv, http.MethodPost, "/api/v1/setup/recommend", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, error = %+v", resp.StatusCode, env.Error)
	}

	var data struct {
		Summary struct {
			Display string `json:"display"`
		} `json:"summary"`
		Settings         map[string]interface{} `json:"settings"`
		DownloadFilename string                 `json:"download_filename"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Summary.Display != "JVC DLA-NZ7" {
		t.Errorf("display = %q", data.Summary.Display)
	}
	if data.Settings["ediddvflag"] != "on" {
		t.Errorf("ediddvflag = %v, want on", data.Settings["ediddvflag"])
	}
	if data.DownloadFilename == "" {
		t.Error("missing download filename")
	}
}

func TestRecommendValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name     string
		body     map[string]interface{}
		wantCode string
		status   int
	}{
		{
			name:     "no goals",
			body:     map[string]interface{}{"display": "jvc_dla_nz7"},
			wantCode: "VALIDATION_ERROR",
			status:   http.StatusBadRequest,
		},
		{
			name:     "unknown goal",
			body:     map[string]interface{}{"goals": []string{"world_peace"}},
			wantCode: "VALIDATION_ERROR",
			status:   http.StatusBadRequest,
		},
		{
			name:     "unknown device",
			body:     map[string]interface{}{"display": "NonexistentModel-X", "goals": []string{"avoid_bonk"}},
			wantCode: "UNKNOWN_DEVICE",
			status:   http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := doJSON(t, srv, http.MethodPost, "/api/v1/setup/recommend", tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
		})
	}
}

func TestDevicesEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, env := doJSON(t, srv, http.MethodGet, "/api/v1/devices/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var all map[string][]catalog.Device
	if err := json.Unmarshal(env.Data, &all); err != nil {
		t.Fatal(err)
	}
	if len(all["displays"]) == 0 {
		t.Error("no displays in catalog")
	}

	resp, _ = doJSON(t, srv, http.MethodGet, "/api/v1/devices/displays", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("category status = %d", resp.StatusCode)
	}

	resp, env = doJSON(t, srv, http.MethodGet, "/api/v1/devices/spaceships", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid category status = %d, want 400", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "INVALID_CATEGORY" {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestCustomDeviceLifecycle(t *testing.T) {
	srv := newTestServer(t)

	device := catalog.Device{
		ID:       "my_projector",
		Name:     "My Projector",
		Type:     "projector",
		Category: catalog.CategoryDisplay,
	}
	resp, env := doJSON(t, srv, http.MethodPost, "/api/v1/devices/custom/", device)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, error = %+v", resp.StatusCode, env.Error)
	}

	var created catalog.Device
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatal(err)
	}
	if !created.UserAdded {
		t.Error("created device not flagged user_added")
	}

	resp, env = doJSON(t, srv, http.MethodGet, "/api/v1/devices/custom/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var listed map[string][]catalog.Device
	if err := json.Unmarshal(env.Data, &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed["displays"]) != 1 {
		t.Fatalf("custom displays = %d, want 1", len(listed["displays"]))
	}

	device.Name = "My Projector (calibrated)"
	resp, env = doJSON(t, srv, http.MethodPut, "/api/v1/devices/custom/displays/my_projector", device)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d, error = %+v", resp.StatusCode, env.Error)
	}
	var updated catalog.Device
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatal(err)
	}
	if updated.Name != "My Projector (calibrated)" {
		t.Errorf("updated name = %q", updated.Name)
	}

	resp, _ = doJSON(t, srv, http.MethodPut, "/api/v1/devices/custom/displays/no_such_device", device)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("update missing status = %d, want 404", resp.StatusCode)
	}

	resp, _ = doJSON(t, srv, http.MethodDelete, "/api/v1/devices/custom/displays/my_projector", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
}

func TestReferenceEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{
		"/api/v1/reference/edid-presets",
		"/api/v1/reference/dv-strings",
		"/api/v1/reference/settings",
		"/api/v1/reference/manuals",
		"/api/v1/reference/speaker-tuning",
		"/api/v1/goals",
		"/api/v1/preroll/targets",
	} {
		resp, env := doJSON(t, srv, http.MethodGet, path, nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d", path, resp.StatusCode)
		}
		if len(env.Data) == 0 || string(env.Data) == "null" {
			t.Errorf("%s returned no data", path)
		}
	}
}

func TestDownloadTraversalRejected(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/api/v1/download/..%2F..%2Fetc%2Fpasswd")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		t.Fatal("traversal path served")
	}
}

func TestDownloadMissing(t *testing.T) {
	srv := newTestServer(t)

	resp, env := doJSON(t, srv, http.MethodGet, "/api/v1/download/vrroom_optimized_deadbeef.json", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "FILE_NOT_FOUND" {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, srv, http.MethodGet, "/api/v1/health", nil)
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}
