package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/aretw0/voyant/pkg/adapters/memory"
	"github.com/aretw0/voyant/pkg/domain"
)

// stubProcessor answers with a canned reply and records what it was asked.
type stubProcessor struct {
	reply   *domain.Reply
	err     error
	resumed bool
	gotID   string
	gotText string
}

func (s *stubProcessor) Process(ctx context.Context, text string) (*domain.Reply, error) {
	s.gotText = text
	if s.err != nil {
		return nil, s.err
	}
	if s.reply != nil {
		return s.reply, nil
	}
	return &domain.Reply{Text: "done", ThreadID: "t-new"}, nil
}

func (s *stubProcessor) Resume(ctx context.Context, threadID, text string) (*domain.Reply, error) {
	s.resumed = true
	s.gotID = threadID
	return s.Process(ctx, text)
}

func postJSON(handler http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestChat_ProcessesMessage(t *testing.T) {
	proc := &stubProcessor{reply: &domain.Reply{
		Text: "Two options found.",
		ToolPayloads: map[string][]json.RawMessage{
			domain.ToolSearchFlights: {
				json.RawMessage(`{"airline":"Airlink","price":"$263"}`),
				json.RawMessage(`{"airline":"FastJet","price":"$301"}`),
			},
		},
		ThreadID: "t-1",
	}}
	handler := NewHandler(proc)

	w := postJSON(handler, "/api/chat", `{"message":"flights from Durban to Harare"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var resp chatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Message != "Two options found." {
		t.Errorf("Expected oracle text, got %q", resp.Message)
	}
	if resp.Type != "flight_search" {
		t.Errorf("Expected flight_search type, got %q", resp.Type)
	}
	if len(resp.Data.Flights) != 2 {
		t.Errorf("Expected 2 flights, got %d", len(resp.Data.Flights))
	}
	if resp.Data.ThreadID != "t-1" {
		t.Errorf("Expected thread t-1, got %q", resp.Data.ThreadID)
	}
	if len(resp.Suggestions) != 3 {
		t.Errorf("Expected 3 suggestions, got %d", len(resp.Suggestions))
	}
	if resp.Metadata.BackendType != "real" {
		t.Errorf("Expected real backend type, got %q", resp.Metadata.BackendType)
	}
}

func TestChat_ResumesNamedThread(t *testing.T) {
	proc := &stubProcessor{}
	handler := NewHandler(proc)

	w := postJSON(handler, "/api/chat", `{"message":"and hotels too","thread_id":"t-9"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d", w.Code)
	}
	if !proc.resumed {
		t.Error("Expected the processor to resume, not start fresh")
	}
	if proc.gotID != "t-9" {
		t.Errorf("Expected thread t-9, got %q", proc.gotID)
	}
}

func TestChat_RejectsMissingMessage(t *testing.T) {
	handler := NewHandler(&stubProcessor{})

	w := postJSON(handler, "/api/chat", `{}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Message is required") {
		t.Errorf("Unexpected body: %s", w.Body.String())
	}
}

func TestChat_RejectsBlankMessage(t *testing.T) {
	handler := NewHandler(&stubProcessor{})

	w := postJSON(handler, "/api/chat", `{"message":"   "}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Message cannot be empty") {
		t.Errorf("Unexpected body: %s", w.Body.String())
	}
}

func TestChat_RejectsOversizedMessage(t *testing.T) {
	handler := NewHandler(&stubProcessor{})

	big := strings.Repeat("a", 5000)
	w := postJSON(handler, "/api/chat", `{"message":"`+big+`"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
}

func TestChat_RejectsInvalidBody(t *testing.T) {
	handler := NewHandler(&stubProcessor{})

	w := postJSON(handler, "/api/chat", `not json at all`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid request body") {
		t.Errorf("Unexpected body: %s", w.Body.String())
	}
}

func TestChat_ProcessorFailureIsBadGateway(t *testing.T) {
	proc := &stubProcessor{err: errors.New("oracle unreachable")}
	handler := NewHandler(proc)

	w := postJSON(handler, "/api/chat", `{"message":"anything"}`)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "technical difficulties") {
		t.Errorf("Expected apology in body: %s", w.Body.String())
	}
}

func TestFeedback_RecordsToStore(t *testing.T) {
	log := memory.NewFeedbackLog()
	handler := NewHandler(&stubProcessor{}, WithFeedbackStore(log))

	w := postJSON(handler, "/api/feedback", `{"thread_id":"t-1","type":"accuracy","rating":4,"message":"good dates"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Thank you for your feedback!") {
		t.Errorf("Unexpected body: %s", w.Body.String())
	}

	entries := log.Entries()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 feedback entry, got %d", len(entries))
	}
	if entries[0].Type != "accuracy" || entries[0].Rating != 4 {
		t.Errorf("Feedback fields not preserved: %+v", entries[0])
	}
}

func TestFeedback_DefaultsType(t *testing.T) {
	log := memory.NewFeedbackLog()
	handler := NewHandler(&stubProcessor{}, WithFeedbackStore(log))

	postJSON(handler, "/api/feedback", `{"rating":5}`)

	entries := log.Entries()
	if len(entries) != 1 || entries[0].Type != "general" {
		t.Errorf("Expected type to default to general, got %+v", entries)
	}
}

type failingFeedback struct{}

func (failingFeedback) Record(context.Context, domain.Feedback) error {
	return errors.New("disk full")
}

func TestFeedback_StoreFailure(t *testing.T) {
	handler := NewHandler(&stubProcessor{}, WithFeedbackStore(failingFeedback{}))

	w := postJSON(handler, "/api/feedback", `{"rating":1}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Failed to submit feedback") {
		t.Errorf("Unexpected body: %s", w.Body.String())
	}
}

func TestGetHealth(t *testing.T) {
	handler := NewHandler(&stubProcessor{})

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", resp["status"])
	}
	if resp["backend_available"] != true {
		t.Errorf("Expected backend_available true, got %v", resp["backend_available"])
	}
}

func TestGetInfo_ReportsAPIVersion(t *testing.T) {
	handler := NewHandler(&stubProcessor{}, WithVersion("1.2.3"))

	req := httptest.NewRequest("GET", "/api/info", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if resp["app"] != "voyant-http" {
		t.Errorf("Unexpected app name: %q", resp["app"])
	}
	if resp["version"] != "1.2.3" {
		t.Errorf("Unexpected version: %q", resp["version"])
	}
	if resp["api_version"] != "1.0.0" {
		t.Errorf("Expected api_version from the embedded OpenAPI document, got %q", resp["api_version"])
	}
}

func TestNotFound(t *testing.T) {
	handler := NewHandler(&stubProcessor{})

	req := httptest.NewRequest("GET", "/nope", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Endpoint not found") {
		t.Errorf("Unexpected body: %s", w.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := NewHandler(&stubProcessor{})

	req := httptest.NewRequest("OPTIONS", "/api/chat", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS headers on preflight response")
	}
}

func TestMetricsMountedWhenConfigured(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("metrics here"))
	})
	handler := NewHandler(&stubProcessor{}, WithMetrics(metrics))

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Body.String() != "metrics here" {
		t.Errorf("Expected the metrics handler to serve /metrics, got %q", w.Body.String())
	}
}

func TestEmbeddedOpenAPIIsValid(t *testing.T) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		t.Fatalf("Failed to load the embedded document: %v", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		t.Fatalf("Embedded document is not valid OpenAPI: %v", err)
	}
	if doc.Paths.Find("/api/chat") == nil {
		t.Error("The OpenAPI document must cover /api/chat")
	}
}
