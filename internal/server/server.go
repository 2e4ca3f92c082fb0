package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/session"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	router      chi.Router
	sessions    *session.Manager
	renderer    *rendering.Renderer
	rateLimiter *ratelimit.Limiter
	verbose     bool
}

// Config holds server configuration
type Config struct {
	Port      int
	RateLimit *ratelimit.Config
	// KeepAlive is the SSE keep-alive interval.
	KeepAlive time.Duration
	Verbose   bool
}

// New creates a new server instance
func New(cfg Config, sessions *session.Manager, renderer *rendering.Renderer) *Server {
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = 30 * time.Second
	}

	s := &Server{
		sessions:    sessions,
		renderer:    renderer,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		verbose:     cfg.Verbose,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(s.withCORS)
	r.Use(s.rateLimiter.Handler)

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(sessions.Middleware)

		r.Get("/", s.handlePage)

		r.Route("/api", func(r chi.Router) {
			r.Get("/state", s.handleState)

			r.Put("/resume", s.handleReplaceResume)
			r.Put("/resume/fields/{field}", s.handleSetField)
			r.Put("/resume/social/{field}", s.handleSetSocialField)

			r.Post("/resume/education", s.handleAddEducation)
			r.Put("/resume/education/{index}/{field}", s.handleSetEducationField)
			r.Delete("/resume/education/{index}", s.handleRemoveEducation)

			r.Post("/resume/experience", s.handleAddExperience)
			r.Put("/resume/experience/{index}/{field}", s.handleSetExperienceField)
			r.Delete("/resume/experience/{index}", s.handleRemoveExperience)

			r.Post("/resume/skills", s.handleAddSkill)
			r.Put("/resume/skills/{index}", s.handleSetSkill)
			r.Delete("/resume/skills/{index}", s.handleRemoveSkill)

			r.Put("/presentation/template", s.handleSetTemplate)
			r.Put("/presentation/theme", s.handleSetTheme)
			r.Put("/presentation/photo", s.handleSetPhoto)
			r.Delete("/presentation/photo", s.handleClearPhoto)

			// HTML forms can only GET and POST, so the shell page posts here.
			r.Post("/resume/fields/{field}", s.handleSetField)
			r.Post("/resume/social/{field}", s.handleSetSocialField)
			r.Post("/resume/education/{index}/remove", s.handleRemoveEducation)
			r.Post("/resume/education/{index}/{field}", s.handleSetEducationField)
			r.Post("/resume/experience/{index}/remove", s.handleRemoveExperience)
			r.Post("/resume/experience/{index}/{field}", s.handleSetExperienceField)
			r.Post("/resume/skills/{index}/remove", s.handleRemoveSkill)
			r.Post("/resume/skills/{index}", s.handleSetSkill)
			r.Post("/presentation/template", s.handleSetTemplate)
			r.Post("/presentation/theme", s.handleSetTheme)
			r.Post("/presentation/photo", s.handleSetPhoto)
			r.Post("/presentation/photo/remove", s.handleClearPhoto)

			r.Get("/preview", s.handlePreview)
			r.Get("/preview/outline", s.handleOutline)
			r.Get("/preview/events", func(w http.ResponseWriter, r *http.Request) {
				s.handlePreviewEvents(w, r, cfg.KeepAlive)
			})

			r.Post("/export", s.handleExport)
			r.Get("/export/status", s.handleExportStatus)
		})
	})

	s.router = r
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // SSE streams and browser captures outlive any fixed write deadline
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[SERVER] Listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	log.Println("[SERVER] Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("[SERVER] Stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[SERVER] Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status code and writes it as JSON.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[SERVER] %s %s failed: %v", r.Method, r.URL.Path, err)
	}

	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		s.jsonResponse(w, status, map[string]any{
			"error":   "document does not match the resume schema",
			"details": schemaErr.Errors,
		})
		return
	}
	s.errorResponse(w, status, err.Error())
}

// wantsHTML reports whether the request came from a browser form rather than an API client.
func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
