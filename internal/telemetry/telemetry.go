// Package telemetry serves loader metrics, a health check and the live log
// level over HTTP.
package telemetry

import (
	"context"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Faultbox/fridgeview/internal/logger"
)

// Status is the body of the health endpoint.
type Status struct {
	Session  string `json:"session"`
	Objects  int    `json:"objects"`
	Selected string `json:"selected,omitempty"`
	Frames   uint64 `json:"frames"`
}

// Server exposes /metrics, /health and /log/level.
type Server struct {
	app    *fiber.App
	log    *zap.Logger
	status atomic.Pointer[Status]
}

// New creates a server exporting the metrics gathered by reg.
func New(reg *prometheus.Registry, session uuid.UUID, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		app: fiber.New(fiber.Config{DisableStartupMessage: true}),
		log: log,
	}
	s.status.Store(&Status{Session: session.String()})

	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(s.status.Load())
	})
	s.app.All("/log/level", adaptor.HTTPHandler(logger.Level()))
	return s
}

// Publish replaces the status reported by /health. Safe to call from the
// frame loop while requests are served.
func (s *Server) Publish(st Status) {
	prev := s.status.Load()
	if st.Session == "" {
		st.Session = prev.Session
	}
	s.status.Store(&st)
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Start listens on addr in the background.
func (s *Server) Start(addr string) {
	s.log.Info("telemetry listening", zap.String("addr", addr))
	go func() {
		if err := s.app.Listen(addr); err != nil {
			s.log.Warn("telemetry server stopped", zap.Error(err))
		}
	}()
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
