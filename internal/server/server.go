// Package server exposes the configuration store and the generation
// gateway over a small JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Kairi/gemini/internal/config"
	"github.com/Kairi/gemini/internal/gateway"
)

// APIKeyHeader carries the caller's Gemini API key
const APIKeyHeader = "x-api-key"

// GatewayFactory builds a gateway for the API key of one request
type GatewayFactory func(apiKey string) *gateway.Gateway

// Server holds the handlers' collaborators. It keeps no per-request state.
type Server struct {
	store      *config.Store
	newGateway GatewayFactory
	log        zerolog.Logger
	engine     *gin.Engine
}

// New builds the router.
func New(store *config.Store, newGateway GatewayFactory, log zerolog.Logger) *Server {
	s := &Server{
		store:      store,
		newGateway: newGateway,
		log:        log,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLogger(s.log))
	r.Use(cors())

	r.GET("/", s.handleRoot)
	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	keyed := api.Group("", requireAPIKey())
	keyed.GET("/models", s.handleModels)
	keyed.GET("/models/:id", s.handleModel)
	keyed.POST("/chat", s.handleChat)
	keyed.GET("/chat", s.handleChatMethod)

	api.POST("/config/api-key", s.handleSetAPIKey)
	api.GET("/config", s.handleConfig)

	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("server is running")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
