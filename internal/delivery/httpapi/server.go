package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aminhilali/minaret/internal/usecase"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Defaults are the resolution parameters used when a request omits
// them, taken from the service configuration.
type Defaults struct {
	Method     int
	School     int
	Adjustment int
}

// Server is the HTTP surface the PWA consumes: schedule resolution,
// the current prayer state, and a websocket countdown stream.
type Server struct {
	engine    *gin.Engine
	addr      string
	resolver  *usecase.ScheduleResolver
	scheduler *usecase.AlertScheduler
	hub       *Hub
	defaults  Defaults
	logger    *zap.Logger
}

func NewServer(
	addr string,
	allowedOrigins []string,
	resolver *usecase.ScheduleResolver,
	scheduler *usecase.AlertScheduler,
	hub *Hub,
	defaults Defaults,
	logger *zap.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	engine.Use(cors.New(corsConfig))

	s := &Server{
		engine:    engine,
		addr:      addr,
		resolver:  resolver,
		scheduler: scheduler,
		hub:       hub,
		defaults:  defaults,
		logger:    logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)

	api := s.engine.Group("/api/v1")
	api.GET("/timings", s.timings)
	api.GET("/now", s.now)
	api.GET("/ws", s.hub.Handle)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Run serves until ctx is cancelled, then drains with a short
// shutdown deadline.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
