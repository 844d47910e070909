package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/hongminglow/myrent-be/internal/auth"
	"github.com/hongminglow/myrent-be/internal/config"
	"github.com/hongminglow/myrent-be/internal/http/handlers"
	"github.com/hongminglow/myrent-be/internal/http/respond"
	"github.com/hongminglow/myrent-be/internal/media"
	"github.com/hongminglow/myrent-be/internal/middleware"
	"github.com/hongminglow/myrent-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, images media.Store) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewHandler(cfg, store, images),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return &Server{inner: httpServer}
}

// NewHandler builds the routed API with CORS and request logging.
func NewHandler(cfg config.Config, store storage.Store, images media.Store) http.Handler {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	gate := middleware.NewGate(tokens, store)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	handlers.NewHealthHandler(time.Now()).Register(r)
	handlers.NewAuthHandler(auth.NewService(store, tokens)).Register(r)
	handlers.NewUserHandler(store).Register(r, gate)
	handlers.NewPropertyHandler(store, images, cfg.MediaBaseURL, cfg.MaxImageBytes).Register(r, gate)
	handlers.NewAdminHandler(store, store, store).Register(r, gate)
	handlers.NewMessageHandler(store).Register(r, gate)
	handlers.NewMediaHandler(images).Register(r)

	return middleware.CORS(cfg.CORSOrigins, middleware.Logging(r))
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
