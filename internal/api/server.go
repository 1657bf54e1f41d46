package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/todmy/hamster-court/internal/judge"
	"github.com/todmy/hamster-court/internal/logging"
	"github.com/todmy/hamster-court/internal/seal"
	"github.com/todmy/hamster-court/internal/verdict"
)

// ServerConfig wires the server's collaborators
type ServerConfig struct {
	// Resolver serves the JSON API
	Resolver *judge.Resolver
	// FormResolver serves the HTML form. Nil means Resolver.
	FormResolver *judge.Resolver

	Renderer       *verdict.Renderer
	Sealer         *seal.Sealer
	Logger         *zap.Logger
	AllowedOrigins []string
}

type Server struct {
	router       *chi.Mux
	resolver     *judge.Resolver
	formResolver *judge.Resolver
	renderer     *verdict.Renderer
	sealer       *seal.Sealer
	logger       *zap.Logger
	pages        *pages
}

func NewServer(config ServerConfig) *Server {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	formResolver := config.FormResolver
	if formResolver == nil {
		formResolver = config.Resolver
	}

	s := &Server{
		router:       chi.NewRouter(),
		resolver:     config.Resolver,
		formResolver: formResolver,
		renderer:     config.Renderer,
		sealer:       config.Sealer,
		logger:       logger,
		pages:        loadPages(),
	}

	// Middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(logging.RequestLogger(logger))
	s.router.Use(middleware.Recoverer)

	s.setupRoutes(config.AllowedOrigins)

	return s
}

func (s *Server) setupRoutes(allowedOrigins []string) {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// Web form
	s.router.Get("/", s.handleForm)
	s.router.Post("/verdict", s.handleSubmitForm)

	// API v1
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))

		r.Get("/personality-types", s.handlePersonalityTypes)
		r.Post("/verdicts", s.handleCreateVerdict)
		r.Post("/verdicts/verify", s.handleVerifySeal)
	})
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer returns an http.Server serving the router on addr
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Helper to send JSON responses
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
