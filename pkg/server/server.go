// Package server exposes the knowledge gateway over HTTP. The routes
// mirror the remote graph service wire protocol so agents can point at
// either one.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agentforge/mettakg"
	"github.com/agentforge/mettakg/pkg/config"
	"github.com/agentforge/mettakg/pkg/server/handlers"
)

// Server represents the HTTP server.
type Server struct {
	config  *config.Config
	router  *gin.Engine
	gateway mettakg.Gateway
	logger  *slog.Logger
	server  *http.Server
}

// New creates a new server instance.
func New(cfg *config.Config, gateway mettakg.Gateway, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:  cfg,
		gateway: gateway,
		logger:  logger,
	}
}

// Setup sets up the server routes and middleware.
func (s *Server) Setup() {
	gin.SetMode(s.config.Server.Mode)

	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())
	s.router.Use(requestIDMiddleware())

	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
}

// setupRoutes sets up all the routes.
func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.gateway)
	queryHandler := handlers.NewQueryHandler(s.gateway)
	knowledgeHandler := handlers.NewKnowledgeHandler(s.gateway)

	s.router.GET("/", healthHandler.Info)
	s.router.GET("/health", healthHandler.Health)

	s.router.POST("/query", queryHandler.Query)

	s.router.POST("/concepts", knowledgeHandler.AddConcept)
	s.router.GET("/concepts", knowledgeHandler.ListConcepts)
	s.router.GET("/concepts/:name", knowledgeHandler.GetConcept)
	s.router.DELETE("/concepts/:name", knowledgeHandler.DeleteConcept)

	s.router.POST("/relationships", knowledgeHandler.AddRelationship)
	s.router.GET("/relationships", knowledgeHandler.ListRelationships)

	s.router.GET("/domains/:domain", knowledgeHandler.DomainContext)
}

// Start starts the server.
func (s *Server) Start() error {
	s.logger.Info("starting server", slog.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Stop stops the server gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping server")
	return s.server.Shutdown(ctx)
}

// corsMiddleware adds CORS headers.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// requestIDMiddleware assigns each request an ID, honoring one supplied
// by the caller.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Set("request_id", id)
		c.Next()
	}
}
