// Package api provides the HTTP server and handlers for the Milluki catalog.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/millukiapp/milluki-server/internal/http/response"
	"github.com/millukiapp/milluki-server/internal/ratelimit"
	"github.com/millukiapp/milluki-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService       *service.AuthService
	collectionService *service.CollectionService
	bookService       *service.BookService
	genreService      *service.GenreService
	loginLimiter      *ratelimit.KeyedRateLimiter
	router            *chi.Mux
	logger            *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	authService *service.AuthService,
	collectionService *service.CollectionService,
	bookService *service.BookService,
	genreService *service.GenreService,
	loginLimiter *ratelimit.KeyedRateLimiter,
	logger *slog.Logger,
) *Server {
	s := &Server{
		authService:       authService,
		collectionService: collectionService,
		bookService:       bookService,
		genreService:      genreService,
		loginLimiter:      loginLimiter,
		router:            chi.NewRouter(),
		logger:            logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "x-auth-token"},
		ExposedHeaders: []string{"x-auth-token"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/api", func(r chi.Router) {
		// Login, rate limited per client IP.
		r.With(s.limitLogin).Post("/auth", s.handleLogin)

		// Current identity.
		r.With(s.requireAuth).Get("/auth", s.handleGetCurrentUser)

		// Registration.
		r.Post("/users", s.handleRegister)

		// Collections (require a token throughout).
		r.Route("/collections", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListCollections)
			r.Post("/", s.handleCreateCollection)
			r.Get("/{id}", s.handleGetCollection)
			r.Post("/{id}", s.handleAttachBook)
			r.Put("/{id}", s.handleUpdateCollection)
			r.Delete("/{id}", s.handleDeleteCollection)
			r.Delete("/{id}/books/{bookID}", s.handleDetachBook)
		})

		// Shared book catalog.
		r.Route("/books", func(r chi.Router) {
			r.Get("/", s.handleListBooks)
			r.Post("/", s.handleCreateBook)
			r.Get("/{id}", s.handleGetBook)
			r.Put("/{id}", s.handleUpdateBook)
			r.Delete("/{id}", s.handleDeleteBook)
		})

		// Genre vocabulary.
		r.Route("/genres", func(r chi.Router) {
			r.Get("/", s.handleListGenres)
			r.Post("/", s.handleCreateGenre)
			r.Get("/{id}", s.handleGetGenre)
			r.Put("/{id}", s.handleUpdateGenre)
			r.Delete("/{id}", s.handleDeleteGenre)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{"status": "healthy"}, s.logger)
}
