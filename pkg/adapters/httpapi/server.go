// Package httpapi exposes the agent over REST for browser frontends: chat,
// feedback, health, and a per-thread event stream. Handlers depend on the
// Processor port, so tests drive them with stubs.
package httpapi

import (
	_ "embed"
	"encoding/json"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"

	"github.com/aretw0/voyant"
	"github.com/aretw0/voyant/internal/logging"
	"github.com/aretw0/voyant/pkg/adapters/memory"
	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/ports"
	"github.com/aretw0/voyant/pkg/travel"
)

//go:embed openapi.yaml
var openapiSpec []byte

// Server carries the handler dependencies.
type Server struct {
	processor ports.Processor
	feedback  ports.FeedbackStore
	streams   *StreamManager
	metrics   http.Handler
	logger    *slog.Logger
	version   string
}

// Option configures the Server.
type Option func(*Server)

// WithFeedbackStore sets where feedback lands. Defaults to an in-memory log.
func WithFeedbackStore(store ports.FeedbackStore) Option {
	return func(s *Server) {
		if store != nil {
			s.feedback = store
		}
	}
}

// WithMetrics mounts the given handler at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithStreams shares an event broadcaster with the handler. The host builds
// the StreamManager first, feeds its Hooks to the agent, and mounts it here
// so /api/events can serve what the loop emits.
func WithStreams(streams *StreamManager) Option {
	return func(s *Server) {
		if streams != nil {
			s.streams = streams
		}
	}
}

// WithLogger sets the internal logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVersion sets the version reported by /api/info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewHandler builds the full HTTP handler for the agent.
func NewHandler(processor ports.Processor, opts ...Option) http.Handler {
	server := &Server{
		processor: processor,
		feedback:  memory.NewFeedbackLog(),
		streams:   NewStreamManager(),
		logger:    logging.NewNop(),
		version:   "dev",
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Post("/api/chat", server.Chat)
	r.Get("/api/health", server.GetHealth)
	r.Post("/api/feedback", server.SubmitFeedback)
	r.Get("/api/info", server.GetInfo)
	r.Get("/api/events", server.SubscribeEvents)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	if server.metrics != nil {
		r.Handle("/metrics", server.metrics)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Endpoint not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type chatRequest struct {
	Message  string `json:"message"`
	ThreadID string `json:"thread_id,omitempty"`
}

type chatData struct {
	Flights  []travel.FlightOption `json:"flights"`
	Hotels   []travel.HotelOption  `json:"hotels"`
	ThreadID string                `json:"thread_id"`
}

type chatMetadata struct {
	Timestamp      string  `json:"timestamp"`
	ProcessingTime float64 `json:"processing_time"`
	BackendType    string  `json:"backend_type"`
}

type chatResponse struct {
	Message     string       `json:"message"`
	Type        string       `json:"type"`
	Data        chatData     `json:"data"`
	Suggestions []string     `json:"suggestions"`
	Metadata    chatMetadata `json:"metadata"`
}

// Chat handles POST /api/chat. A thread_id in the body continues that
// conversation; otherwise a fresh thread starts.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var body chatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		s.logger.Warn("Chat: invalid request body", "err", err)
		return
	}

	message := strings.TrimSpace(body.Message)
	if body.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Message is required"})
		return
	}
	if message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Message cannot be empty"})
		return
	}
	if _, err := voyant.SanitizeInput(message); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		s.logger.Warn("Chat: input rejected", "err", err, "size", len(message))
		return
	}

	s.logger.Info("Processing message", "size", len(message), "thread_id", body.ThreadID)
	start := time.Now()

	var (
		reply *domain.Reply
		err   error
	)
	if body.ThreadID != "" {
		reply, err = s.processor.Resume(r.Context(), body.ThreadID, message)
	} else {
		reply, err = s.processor.Process(r.Context(), message)
	}
	if err != nil {
		s.logger.Error("Chat processing failed", "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":   "processing failed",
			"message": "I apologize, but I'm experiencing technical difficulties. Please try again in a moment.",
		})
		return
	}

	flights := travel.ParseFlights(reply.PayloadsFor(domain.ToolSearchFlights))
	hotels := travel.ParseHotels(reply.PayloadsFor(domain.ToolSearchHotels))
	responseType := classify(flights, hotels)

	elapsed := math.Round(float64(time.Since(start).Microseconds())/1000*100) / 100

	resp := chatResponse{
		Message: travel.Summarize(reply.Text, flights, hotels),
		Type:    responseType,
		Data: chatData{
			Flights:  flights,
			Hotels:   hotels,
			ThreadID: reply.ThreadID,
		},
		Suggestions: suggestionsFor(responseType),
		Metadata: chatMetadata{
			Timestamp:      time.Now().Format(time.RFC3339),
			ProcessingTime: elapsed,
			BackendType:    "real",
		},
	}

	s.logger.Info("Response generated", "type", responseType, "elapsed_ms", elapsed)
	writeJSON(w, http.StatusOK, resp)
}

func classify(flights []travel.FlightOption, hotels []travel.HotelOption) string {
	switch {
	case len(flights) > 0 && len(hotels) > 0:
		return "travel_search"
	case len(flights) > 0:
		return "flight_search"
	case len(hotels) > 0:
		return "hotel_search"
	default:
		return "general"
	}
}

type feedbackRequest struct {
	ThreadID string `json:"thread_id,omitempty"`
	Type     string `json:"type,omitempty"`
	Rating   int    `json:"rating,omitempty"`
	Message  string `json:"message,omitempty"`
}

// SubmitFeedback handles POST /api/feedback.
func (s *Server) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var body feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if body.Type == "" {
		body.Type = "general"
	}

	fb := domain.Feedback{
		ThreadID:  body.ThreadID,
		Type:      body.Type,
		Rating:    body.Rating,
		Message:   body.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.feedback.Record(r.Context(), fb); err != nil {
		s.logger.Error("Feedback submission failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to submit feedback"})
		return
	}

	s.logger.Info("Feedback received", "type", fb.Type, "rating", fb.Rating)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Thank you for your feedback!",
	})
}

// GetHealth handles GET /api/health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"timestamp":         time.Now().Format(time.RFC3339),
		"backend_available": s.processor != nil,
	})
}

// GetInfo handles GET /api/info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "voyant-http",
		"version":     s.version,
		"api_version": apiVersion(),
	})
}

// apiVersion reads the version out of the embedded OpenAPI document.
func apiVersion() string {
	doc, err := openapi3.NewLoader().LoadFromData(openapiSpec)
	if err != nil || doc.Info == nil {
		return "unknown"
	}
	return doc.Info.Version
}

var suggestionPool = map[string][]string{
	"flight_search": {
		"Show me hotels in the same area",
		"What's the baggage policy for these airlines?",
		"Can you find flights for different dates?",
		"Tell me about airport transportation options",
	},
	"hotel_search": {
		"Find flights to this destination",
		"What are the local attractions nearby?",
		"Show me restaurant recommendations",
		"What's the cancellation policy?",
	},
	"travel_search": {
		"Tell me more about the top flight option",
		"Show me more hotel choices",
		"Can you find options for different dates?",
		"What's the total cost for this trip?",
	},
	"general": {
		"Help me plan a weekend getaway",
		"Find flights for my next business trip",
		"Recommend family-friendly destinations",
		"What are the current travel restrictions?",
	},
}

// suggestionsFor picks three follow-up prompts for the response type.
func suggestionsFor(responseType string) []string {
	pool, ok := suggestionPool[responseType]
	if !ok {
		pool = suggestionPool["general"]
	}
	picks := rand.Perm(len(pool))[:3]
	out := make([]string, 0, 3)
	for _, i := range picks {
		out = append(out, pool[i])
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Debug("response encode failed", "err", err)
	}
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Voyant API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`
