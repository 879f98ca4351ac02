package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cohergraph/cohergraph/internal/auth"
	"github.com/cohergraph/cohergraph/internal/metrics"
	"github.com/cohergraph/cohergraph/internal/pipeline"
)

// ServerConfig carries the server's collaborators. AuthService may be nil,
// which leaves the evaluation routes open.
type ServerConfig struct {
	Evaluator   *pipeline.Evaluator
	AuthService *auth.Service
	Version     string
	OracleReady bool
}

type Server struct {
	router      *chi.Mux
	evaluator   *pipeline.Evaluator
	authService *auth.Service
	version     string
	oracleReady bool
}

func NewServer(cfg ServerConfig) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{
		router:      r,
		evaluator:   cfg.Evaluator,
		authService: cfg.AuthService,
		version:     cfg.Version,
		oracleReady: cfg.OracleReady,
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", metrics.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		if s.authService != nil {
			r.Post("/auth/register", s.handleRegister)
			r.Post("/auth/login", s.handleLogin)
		}

		r.Group(func(r chi.Router) {
			if s.authService != nil {
				r.Use(auth.Middleware(s.authService))
			}
			r.Post("/evaluate", s.handleEvaluate)
			r.Post("/batch-evaluate", s.handleBatchEvaluate)
		})
	})
}

func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
