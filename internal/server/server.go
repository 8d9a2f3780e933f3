// Package server exposes the tool handlers over HTTP for remote
// invocation.
package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/n8nops/n8nctl/internal/config"
	"github.com/n8nops/n8nctl/internal/tools"
)

// Server hosts the tool endpoints.
type Server struct {
	cfg *config.Config
	svc *tools.Service
	mux *http.ServeMux
}

// New creates a server over the given configuration.
func New(cfg *config.Config) *Server {
	s := &Server{
		cfg: cfg,
		svc: tools.New(cfg),
		mux: http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes registers all tool endpoints.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/tools/generate_workflow", s.handleGenerateWorkflow)
	s.mux.HandleFunc("/tools/save_api_key", s.handleSaveAPIKey)
	s.mux.HandleFunc("/tools/import_workflow", s.handleImportWorkflow)
	s.mux.HandleFunc("/tools/list_workflows", s.handleListWorkflows)
	s.mux.HandleFunc("/tools/get_workflow", s.handleGetWorkflow)
	s.mux.HandleFunc("/tools/list_saved_workflows", s.handleListSavedWorkflows)
	s.mux.HandleFunc("/healthz", s.handleHealthz)
}

// Handler returns the fully-routed HTTP handler, with access logging.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()[:8]
		log.Printf("[%s] %s %s", reqID, r.Method, r.URL.Path)
		s.mux.ServeHTTP(w, r)
	})
}

// Start runs the HTTP server until it fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.ToolPort)

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Tool server listening on %s", addr)
	log.Printf("  n8n URL:            %s", s.cfg.ServerURL)
	log.Printf("  API key configured: %v", s.svc.HasKey())
	log.Printf("  Workflows dir:      %s", s.cfg.WorkflowsDir)
	log.Printf("  Config dir:         %s", s.cfg.ConfigDir)

	return srv.ListenAndServe()
}
