// Package api exposes the mind over HTTP: turn processing, state
// snapshots, and a live thought stream over WebSocket.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/quantumlife/cogmind/internal/goals"
	"github.com/quantumlife/cogmind/internal/journal"
	"github.com/quantumlife/cogmind/internal/logging"
	"github.com/quantumlife/cogmind/internal/mind"
	"github.com/quantumlife/cogmind/internal/storage"
)

// Server is the HTTP API server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server

	mind     *mind.Mind
	thoughts *storage.ThoughtStore
	hub      *ThoughtHub

	startedAt time.Time
	log       *logging.Logger
}

// Config for the server
type Config struct {
	Host string
	Port int

	Mind     *mind.Mind
	Thoughts *storage.ThoughtStore // optional; enables the archive endpoint
}

// New creates a new API server and wires the mind's thought stream into
// the WebSocket hub.
func New(cfg Config) *Server {
	s := &Server{
		mind:      cfg.Mind,
		thoughts:  cfg.Thoughts,
		hub:       NewThoughtHub(),
		startedAt: time.Now(),
		log:       logging.WithField("component", "api"),
	}

	s.setupRouter()

	if s.mind != nil {
		s.mind.OnThought(func(a journal.Activity) {
			s.hub.Broadcast(StreamMessage{Type: "thought", Data: a, Timestamp: time.Now()})
		})
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRouter configures all routes
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/turn", s.handleTurn)

		r.Get("/state", s.handleGetState)
		r.Get("/summary", s.handleGetSummary)
		r.Get("/attention", s.handleGetAttention)
		r.Get("/metacognition", s.handleGetMetacognition)

		r.Get("/goals", s.handleGetGoals)
		r.Post("/goals", s.handleFormGoal)

		r.Get("/thoughts", s.handleGetThoughts)
		r.Get("/thoughts/relevant", s.handleGetRelevantThoughts)
		r.Get("/thoughts/archive", s.handleGetArchivedThoughts)

		r.Get("/actions", s.handleGetActions)
		r.Get("/health", s.handleGetHealth)
	})

	// WebSocket thought stream
	r.Get("/ws", s.hub.HandleWebSocket)

	s.router = r
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and the thought stream hub.
func (s *Server) Start() error {
	go s.hub.Run()

	s.log.Info("API server listening on http://%s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}

// --- Response helpers ---

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// --- Handlers ---

// TurnRequest is one user utterance.
type TurnRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	result := s.mind.ProcessTurn(r.Context(), req.Text)
	s.hub.Broadcast(StreamMessage{Type: "emotion", Data: result, Timestamp: time.Now()})

	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"affect":                 s.mind.CurrentAffect(),
		"mood":                   s.mind.AffectNarrative(),
		"mental_activity_level":  s.mind.MentalActivityLevel(),
		"introspection_tendency": s.mind.IntrospectionTendency(),
	})
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"summary": s.mind.MentalStateSummary(),
	})
}

func (s *Server) handleGetAttention(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"description": s.mind.AttentionDescription(),
		"modifiers":   s.mind.AttentionModifiers(),
	})
}

func (s *Server) handleGetMetacognition(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"state":     s.mind.MetacognitiveState(),
		"narrative": s.mind.MetacognitiveNarrative(),
	})
}

func (s *Server) handleGetGoals(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"goals":   s.mind.CurrentGoals(),
		"summary": s.mind.GoalSummary(),
	})
}

// GoalRequest asks the mind to adopt a goal.
type GoalRequest struct {
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Priority    float64 `json:"priority"`
}

func (s *Server) handleFormGoal(w http.ResponseWriter, r *http.Request) {
	var req GoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Description == "" {
		s.respondError(w, http.StatusBadRequest, "description is required")
		return
	}

	id, ok := s.mind.FormGoal(req.Description, goals.Category(req.Category), req.Priority)
	if !ok {
		s.respondError(w, http.StatusConflict, "not enough motivation to adopt this goal right now")
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleGetThoughts(w http.ResponseWriter, r *http.Request) {
	n := queryInt(r, "n", 10)
	s.respondJSON(w, http.StatusOK, s.mind.RecentThoughts(n))
}

func (s *Server) handleGetRelevantThoughts(w http.ResponseWriter, r *http.Request) {
	n := queryInt(r, "n", 10)
	s.respondJSON(w, http.StatusOK, s.mind.MostRelevantThoughts(n))
}

func (s *Server) handleGetArchivedThoughts(w http.ResponseWriter, r *http.Request) {
	if s.thoughts == nil {
		s.respondError(w, http.StatusNotFound, "thought archive not configured")
		return
	}
	n := queryInt(r, "n", 20)
	archived, err := s.thoughts.Recent(n)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, archived)
}

func (s *Server) handleGetActions(w http.ResponseWriter, r *http.Request) {
	actions := s.mind.PendingActions()
	if actions == nil {
		actions = []string{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"actions": actions})
}

func (s *Server) handleGetHealth(w http.ResponseWriter, r *http.Request) {
	count, last := s.mind.HealthStatus()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "ok",
		"uptime_seconds":  int(time.Since(s.startedAt).Seconds()),
		"failure_count":   count,
		"last_failure":    last,
		"stream_clients":  s.hub.ClientCount(),
		"mental_activity": s.mind.MentalActivityLevel(),
	})
}
