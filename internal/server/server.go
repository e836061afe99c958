// Package server exposes the AURA backend over HTTP. Handlers translate
// between the JSON API and the conversation, search, and synopsis packages;
// all domain behavior lives in those packages.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"aura/internal/conversation"
	"aura/internal/github"
	"aura/internal/logger"
	"aura/internal/memory"
	"aura/internal/synopsis"
	"aura/internal/version"
	"aura/pkg/auratypes"
)

const defaultSearchLimit = 5

// Server wires the HTTP routes to the backend services.
type Server struct {
	handler   *conversation.Handler
	store     memory.Store
	searcher  *github.Searcher
	renderer  *synopsis.Renderer
	accessLog *log.Logger
}

// New creates a server over the given backend services.
func New(handler *conversation.Handler, store memory.Store, searcher *github.Searcher, renderer *synopsis.Renderer) *Server {
	return &Server{
		handler:   handler,
		store:     store,
		searcher:  searcher,
		renderer:  renderer,
		accessLog: logger.NewStyledLogger("http"),
	}
}

// Routes builds the route table. Every route sits behind the permissive CORS
// middleware and the access log.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/conversation", s.handleConversation)
	mux.HandleFunc("GET /api/github-search", s.handleGitHubSearch)
	mux.HandleFunc("GET /api/research-papers", s.handleResearchPapers)
	mux.HandleFunc("POST /api/professional-analysis", s.handleProfessionalAnalysis)
	mux.HandleFunc("POST /api/ai-suggestions", s.handleSuggestions)
	mux.HandleFunc("POST /api/generate-synopsis", s.handleGenerateSynopsis)
	mux.HandleFunc("GET /api/download/{filename}", s.handleDownload)

	// JSON 404 for everything the table above does not match.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Endpoint not found")
	})

	return corsMiddleware(s.logRequests(mux))
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests writes one access-log line per completed request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.accessLog.Info("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "online",
		"service": "AURA Backend API",
		"version": version.GetBaseVersion(),
		"endpoints": []string{
			"POST /api/conversation",
			"GET /api/github-search",
			"GET /api/research-papers",
			"POST /api/professional-analysis",
			"POST /api/generate-synopsis",
			"GET /api/download/{filename}",
			"POST /api/ai-suggestions",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// conversationRequest mirrors the frontend's turn payload. synopsis_memory is
// optional; when absent the server falls back to the stored session record.
type conversationRequest struct {
	Prompt              string                   `json:"prompt"`
	ConversationHistory []auratypes.Message      `json:"conversation_history"`
	SessionID           string                   `json:"session_id"`
	SynopsisMemory      *auratypes.SessionMemory `json:"synopsis_memory"`
}

func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	var req conversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: prompt")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
		logger.Debug("Generated session id", "session", req.SessionID)
	}

	current := auratypes.SessionMemory{}
	if req.SynopsisMemory != nil {
		current = *req.SynopsisMemory
	} else {
		stored, err := s.store.Load(r.Context(), req.SessionID)
		if err == nil {
			current = stored
		}
	}

	result, err := s.handler.HandleTurn(r.Context(), req.Prompt, req.ConversationHistory, req.SessionID, current)
	if err != nil {
		logger.Error("Conversation turn failed", "session", req.SessionID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGitHubSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, `Query parameter "q" is required`)
		return
	}
	limit, ok := parseLimit(r, defaultSearchLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid limit parameter")
		return
	}

	repos := s.searcher.Search(r.Context(), query, limit, r.URL.Query().Get("sort"))
	writeJSON(w, http.StatusOK, repos)
}

func (s *Server) handleResearchPapers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, `Query parameter "q" is required`)
		return
	}
	limit, ok := parseLimit(r, defaultSearchLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid limit parameter")
		return
	}

	writeJSON(w, http.StatusOK, conversation.SearchPapers(query, limit))
}

func (s *Server) handleProfessionalAnalysis(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string   `json:"title"`
		Repos []string `json:"repos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: title")
		return
	}

	analysis := s.handler.ProfessionalAnalysis(r.Context(), req.Title, req.Repos)
	writeJSON(w, http.StatusOK, map[string]string{"analysis": analysis})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Memory *auratypes.SessionMemory `json:"memory"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Memory == nil {
		writeError(w, http.StatusBadRequest, "Missing required field: memory")
		return
	}

	suggestions := s.handler.Suggestions(r.Context(), *req.Memory)
	writeJSON(w, http.StatusOK, map[string]string{"suggestions": suggestions})
}

func (s *Server) handleGenerateSynopsis(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Idea      string `json:"idea"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.SessionID == "" {
		req.SessionID = "default_session"
	}

	logger.Info("Generating synopsis", "session", req.SessionID)

	mem, err := s.store.Load(r.Context(), req.SessionID)
	if err != nil {
		logger.Error("Session load failed", "session", req.SessionID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename, err := s.renderer.Render(mem, req.Idea)
	if err != nil {
		logger.Error("Synopsis render failed", "session", req.SessionID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":      "Synopsis generated successfully",
		"filename":     filename,
		"download_url": "/api/download/" + filename,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	if filename == "" || strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		writeError(w, http.StatusBadRequest, "Invalid filename")
		return
	}

	path := filepath.Join(s.renderer.OutputDir(), filename)
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("File not found: %s", filename))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeFile(w, r, path)
}

// parseLimit reads the optional limit query parameter; ok is false when it is
// present but not a positive integer.
func parseLimit(r *http.Request, fallback int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, false
	}
	return limit, true
}

// corsMiddleware allows any origin on every route and short-circuits
// preflight requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encoding failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
