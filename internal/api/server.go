// Package api exposes the reply pipeline over HTTP. The routes mirror the
// WordPress admin-ajax surface so the existing admin UI can talk to this
// service with only a base-URL change.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reviewreply/internal/responder"
	"github.com/reviewreply/pkg/models"
)

// Server represents the API server
type Server struct {
	echo      *echo.Echo
	port      int
	responder Responder
	jwtSecret string
}

// Responder is the reply pipeline consumed by the handlers.
type Responder interface {
	GenerateReply(ctx context.Context, req responder.Request) (string, error)
	Suggest(ctx context.Context, commentID int64, identifier string) (models.Suggestion, error)
	GenerateWithSuggestion(ctx context.Context, commentID int64, identifier string) (string, models.Suggestion, error)
}

// NewServer creates a new API server
func NewServer(port int, jwtSecret string, responder Responder) *Server {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	server := &Server{
		echo:      e,
		port:      port,
		responder: responder,
		jwtSecret: jwtSecret,
	}

	server.setupRoutes()

	return server
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	ajax := s.echo.Group("/wp-ajax")
	ajax.Use(RequireAuth(s.jwtSecret))
	ajax.GET("/nonce", s.getNonce)
	ajax.POST("/generate-reply", s.generateReply)
	ajax.POST("/suggest-parameters", s.suggestParameters)
}

// Start begins the API server
func (s *Server) Start() error {
	go func() {
		if err := s.echo.Start(fmt.Sprintf(":%d", s.port)); err != nil && err != http.ErrServerClosed {
			s.echo.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}
