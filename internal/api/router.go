// ABOUTME: Route table for the revibe HTTP API and the http.Server wrapper around it.
// ABOUTME: Public health and taxonomy routes; everything else requires a caller id.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/2389-research/revibe/internal/logger"
)

// RouterConfig holds what the router needs.
type RouterConfig struct {
	Handler        *Handler
	Log            *logger.Logger
	AllowedOrigins []string
	AdminToken     string
}

// NewRouter builds the gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(cfg.Log))
	r.Use(CORS(cfg.AllowedOrigins))

	h := cfg.Handler
	r.GET("/healthcheck", h.HealthCheck)

	api := r.Group("/api")
	api.GET("/categories", h.Categories)

	protected := api.Group("/")
	protected.Use(RequireUser())
	{
		protected.GET("/events", h.ListEvents)
		protected.POST("/events", h.CreateEvent)
		protected.GET("/events/:id", h.GetEvent)
		protected.PUT("/events/:id", h.UpdateEvent)
		protected.DELETE("/events/:id", h.DeleteEvent)
		protected.POST("/events/:id/make-public", h.MakePublic)

		protected.POST("/events/:id/identification", h.CreateIdentification)
		protected.PUT("/events/:id/identification", h.UpdateIdentification)
		protected.DELETE("/events/:id/identification", h.DeleteIdentification)

		protected.POST("/events/:id/learning", h.CreateLearning)
		protected.PUT("/events/:id/learning", h.UpdateLearning)
		protected.DELETE("/events/:id/learning", h.DeleteLearning)

		protected.GET("/events/:id/similar", h.SimilarReflections)

		protected.GET("/community", h.Community)
		protected.GET("/comments", h.ListComments)
		protected.POST("/comments", h.CreateComment)
	}

	admin := api.Group("/admin")
	admin.Use(RequireAdmin(cfg.AdminToken))
	admin.POST("/reindex", h.Reindex)

	return r
}

// Server runs the API until its context is cancelled.
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer creates a server listening on addr.
func NewServer(addr string, cfg RouterConfig) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(cfg),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: cfg.Log,
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("http server shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}
