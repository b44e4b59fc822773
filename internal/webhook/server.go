// internal/webhook/server.go
package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/semaphore"

	"github.com/user/helpline/internal/runtime"
	"github.com/user/helpline/internal/types"
)

// Server is the host transport: it routes structured tool calls to the
// registry and exposes stored sessions for inspection. A weighted
// semaphore caps concurrent tool invocations; sessions are otherwise
// independent.
type Server struct {
	registry *runtime.Registry
	store    types.SessionStore
	sem      *semaphore.Weighted
	mux      *http.ServeMux
}

// NewServer creates a Server allowing up to maxConcurrent simultaneous
// tool invocations.
func NewServer(registry *runtime.Registry, store types.SessionStore, maxConcurrent int64) *Server {
	s := &Server{
		registry: registry,
		store:    store,
		sem:      semaphore.NewWeighted(maxConcurrent),
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /tools", s.handleListTools)
	s.mux.HandleFunc("POST /tools/", s.handleInvokeTool)
	s.mux.HandleFunc("GET /api/sessions/", s.handleGetSession)
	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// toolInfo is the JSON shape for GET /tools.
type toolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	tools := s.registry.All()
	out := make([]toolInfo, 0, len(tools))
	for _, t := range tools {
		out = append(out, toolInfo{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (s *Server) handleInvokeTool(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/tools/")
	if name == "" {
		http.Error(w, `{"error":"tool name required"}`, http.StatusBadRequest)
		return
	}
	tool, ok := s.registry.Get(name)
	if !ok {
		http.Error(w, `{"error":"unknown tool"}`, http.StatusNotFound)
		return
	}

	args, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, `{"error":"read body failed"}`, http.StatusBadRequest)
		return
	}
	if len(args) == 0 {
		args = []byte("{}")
	}

	if err := s.sem.Acquire(r.Context(), 1); err != nil {
		http.Error(w, `{"error":"server busy"}`, http.StatusServiceUnavailable)
		return
	}
	defer s.sem.Release(1)

	result, err := tool.Execute(r.Context(), args)
	if err != nil {
		slog.Error("tool execution failed", "tool", name, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"response": result})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	if id == "" {
		http.Error(w, `{"error":"session id required"}`, http.StatusBadRequest)
		return
	}

	record, err := s.store.Get(r.Context(), types.SessionID(id))
	if errors.Is(err, types.ErrNotFound) {
		http.Error(w, `{"error":"session not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("load session failed", "session_id", id, "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}
