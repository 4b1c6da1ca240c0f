// Package webui serves the agent and command catalogs over HTTP: an HTML page
// with search and preview, and a JSON API. Catalogs are rebuilt from disk on
// every request.
package webui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/jingkaihe/agentshelf/pkg/catalog"
	"github.com/jingkaihe/agentshelf/pkg/logger"
	"github.com/jingkaihe/agentshelf/pkg/site"
)

// Server represents the web UI server
type Server struct {
	router   *mux.Router
	source   site.Source
	renderer *site.Renderer
	config   *ServerConfig
	server   *http.Server
}

// ServerConfig holds the configuration for the web server
type ServerConfig struct {
	Host string
	Port int
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}

	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	return nil
}

// Address returns the host:port the server listens on
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewServer creates a new web UI server reading catalogs from source
func NewServer(config *ServerConfig, source site.Source) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid server configuration")
	}

	renderer, err := site.NewRenderer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create page renderer")
	}

	s := &Server{
		router:   mux.NewRouter(),
		source:   source,
		renderer: renderer,
		config:   config,
	}

	s.setupRoutes()

	return s, nil
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/agents", s.handleListAgents).Methods("GET")
	api.HandleFunc("/agents/{name}", s.handleGetAgent).Methods("GET")
	api.HandleFunc("/commands", s.handleListCommands).Methods("GET")
	api.HandleFunc("/commands/{name}", s.handleGetCommand).Methods("GET")

	s.router.HandleFunc("/", s.handleIndex).Methods("GET")

	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.corsMiddleware)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		logger.G(r.Context()).WithFields(map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration":    time.Since(start),
			"remote_addr": r.RemoteAddr,
		}).Info("HTTP request")
	})
}

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// handleIndex renders the catalog page. Query parameters: q filters entries,
// agent or command selects the entry to preview.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := site.NewPage(r.Context(), s.source, site.PageOptions{
		Query:   query.Get("q"),
		Agent:   query.Get("agent"),
		Command: query.Get("command"),
	})

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, page); err != nil {
		logger.G(r.Context()).WithError(err).Error("failed to render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Write(buf.Bytes())
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSONResponse(w, map[string]any{"status": "ok"})
}

// handleListAgents handles GET /api/agents
func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	cat, err := s.source.Agents(r.Context())
	if err != nil {
		s.writeCatalogError(w, catalog.Agent, err)
		return
	}

	s.writeJSONResponse(w, listResponse(cat, r.URL.Query().Get("q")))
}

// handleGetAgent handles GET /api/agents/{name}
func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	cat, err := s.source.Agents(r.Context())
	if err != nil {
		s.writeCatalogError(w, catalog.Agent, err)
		return
	}

	name := mux.Vars(r)["name"]
	entry, ok := cat.Find(name)
	if !ok {
		s.writeErrorResponse(w, http.StatusNotFound, fmt.Sprintf("agent '%s' not found", name), nil)
		return
	}

	s.writeJSONResponse(w, entry)
}

// handleListCommands handles GET /api/commands
func (s *Server) handleListCommands(w http.ResponseWriter, r *http.Request) {
	cat, err := s.source.Commands(r.Context())
	if err != nil {
		s.writeCatalogError(w, catalog.Command, err)
		return
	}

	s.writeJSONResponse(w, listResponse(cat, r.URL.Query().Get("q")))
}

// handleGetCommand handles GET /api/commands/{name}. The name is given without
// the leading slash, e.g. /api/commands/review-pr.
func (s *Server) handleGetCommand(w http.ResponseWriter, r *http.Request) {
	cat, err := s.source.Commands(r.Context())
	if err != nil {
		s.writeCatalogError(w, catalog.Command, err)
		return
	}

	name := catalog.CommandPrefix + strings.TrimPrefix(mux.Vars(r)["name"], catalog.CommandPrefix)
	entry, ok := cat.Find(name)
	if !ok {
		s.writeErrorResponse(w, http.StatusNotFound, fmt.Sprintf("command '%s' not found", name), nil)
		return
	}

	s.writeJSONResponse(w, entry)
}

// ListResponse is the body of the catalog list endpoints
type ListResponse[E catalog.Entry] struct {
	Kind    string                `json:"kind"`
	Entries []E                   `json:"entries"`
	Total   int                   `json:"total"`
	Skipped []catalog.SkippedFile `json:"skipped,omitempty"`
}

func listResponse[E catalog.Entry](cat *catalog.Catalog[E], query string) ListResponse[E] {
	return ListResponse[E]{
		Kind:    cat.Kind.String(),
		Entries: cat.Search(query),
		Total:   cat.Len(),
		Skipped: cat.Skipped,
	}
}

// writeJSONResponse writes a JSON response
func (s *Server) writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.G(context.TODO()).WithError(err).Error("failed to encode JSON response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// writeCatalogError reports a failed catalog build, naming the kind
func (s *Server) writeCatalogError(w http.ResponseWriter, kind catalog.Kind, err error) {
	logger.G(context.TODO()).WithField("kind", kind.String()).WithError(err).Error("failed to build catalog")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)

	response := map[string]any{
		"error":   err.Error(),
		"kind":    kind.String(),
		"status":  http.StatusInternalServerError,
		"success": false,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.G(context.TODO()).WithError(err).Error("failed to encode error response")
	}
}

// writeErrorResponse writes an error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string, err error) {
	if err != nil {
		logger.G(context.TODO()).WithError(err).Error(message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]any{
		"error":   message,
		"status":  statusCode,
		"success": false,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.G(context.TODO()).WithError(err).Error("failed to encode error response")
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.config.Address(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "web server failed")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// Stop closes the server immediately
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}
