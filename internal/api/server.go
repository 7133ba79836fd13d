package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/pdfedit/internal/config"
	"github.com/dgallion1/pdfedit/internal/editor"
	"github.com/dgallion1/pdfedit/internal/llm"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klippa-app/go-pdfium"
)

// Server is the HTTP API server for pdfedit.
type Server struct {
	router   chi.Router
	editor   *editor.Editor
	llm      *llm.OpenAIClient
	instance pdfium.Pdfium
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(ed *editor.Editor, client *llm.OpenAIClient, instance pdfium.Pdfium, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		editor:   ed,
		llm:      client,
		instance: instance,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/api/health", s.handleHealth)
	r.Get("/api/examples", s.handleExamples)

	// Endpoints that mutate state or cost money. Auth only applies when a
	// key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.EditAPIKey != "" {
			r.Use(AuthMiddleware(s.cfg.EditAPIKey, s.log))
		}

		r.Post("/api/edit-pdf", s.handleEditPDF)
		r.Delete("/api/cleanup", s.handleCleanup)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}
