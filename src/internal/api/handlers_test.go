package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ifweave/ifweave/src/internal/config"
	"github.com/ifweave/ifweave/src/internal/service"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Extensions: []*config.ExtensionConfig{
			{Name: "noop", Type: "addrconf", Family: "any"},
		},
		Requirements: []*config.RequirementConfig{
			{Interface: "eth0", ReachableHost: "gw.example.com", Family: "ipv4"},
		},
	}

	svc, err := service.New(cfg)
	if err != nil {
		t.Fatalf("Failed to build service: %v", err)
	}
	t.Cleanup(svc.Close)

	return NewServer(svc, "127.0.0.1:0")
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer(t)

	rec := doRequest(s, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("Unexpected body: %s", rec.Body.String())
	}
}

func TestRequirementsEndpoint(t *testing.T) {
	s := testServer(t)

	rec := doRequest(s, http.MethodGet, "/api/v1/requirements", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data []service.GateStatus `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("Expected 1 gate, got %d", len(resp.Data))
	}
	if resp.Data[0].Host != "gw.example.com" || resp.Data[0].Satisfied {
		t.Errorf("Unexpected gate: %+v", resp.Data[0])
	}
}

func TestEventsEndpoint(t *testing.T) {
	s := testServer(t)

	rec := doRequest(s, http.MethodGet, "/api/v1/events", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"seq":0`) {
		t.Errorf("Expected zero counters, got: %s", rec.Body.String())
	}
}

func TestExtensionsEndpoint(t *testing.T) {
	s := testServer(t)

	rec := doRequest(s, http.MethodGet, "/api/v1/extensions/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"name":"noop"`) {
		t.Errorf("Expected extension listing, got: %s", rec.Body.String())
	}
}

func TestRunExtension_UnknownExtension(t *testing.T) {
	s := testServer(t)

	rec := doRequest(s, http.MethodPost, "/api/v1/extensions/missing/start", `{"interface":"eth0"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestRunExtension_BadOperation(t *testing.T) {
	s := testServer(t)

	rec := doRequest(s, http.MethodPost, "/api/v1/extensions/noop/restart", `{"interface":"eth0"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestRunExtension_MissingInterface(t *testing.T) {
	s := testServer(t)

	rec := doRequest(s, http.MethodPost, "/api/v1/extensions/noop/start", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestRunExtension_NoopSuccess(t *testing.T) {
	s := testServer(t)

	rec := doRequest(s, http.MethodPost, "/api/v1/extensions/noop/start", `{"interface":"eth0"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Errorf("Unexpected body: %s", rec.Body.String())
	}
}

func TestJSONContentTypeMiddleware(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extensions/noop/start", strings.NewReader(`{"interface":"eth0"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-JSON content type, got %d", rec.Code)
	}
}
