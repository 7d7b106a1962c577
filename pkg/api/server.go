package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/JayJamieson/table-editor/pkg/logger"
	"github.com/JayJamieson/table-editor/pkg/models"
	"github.com/JayJamieson/table-editor/pkg/session"
	"github.com/JayJamieson/table-editor/pkg/table"
	"github.com/JayJamieson/table-editor/pkg/volumes"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type Config struct {
	Port          int
	LogLevel      zerolog.Level
	CSRFKey       []byte
	SecureCookies bool
}

// Fetcher reads tables for the session-less read endpoint.
type Fetcher interface {
	Fetch(ctx context.Context, id table.Identifier) (*table.Snapshot, error)
}

// SaveLister reads the save log.
type SaveLister interface {
	ListSaves(ctx context.Context, tableName string, limit int) ([]models.SaveRecord, error)
}

// Deps are the components the server routes to. Closers are closed on
// shutdown, in order.
type Deps struct {
	Sessions *session.Store
	Tables   Fetcher
	Saves    SaveLister
	Volumes  *volumes.Volumes
	Closers  []io.Closer
}

type Server struct {
	config   Config
	router   *echo.Echo
	sessions *session.Store
	tables   Fetcher
	saves    SaveLister
	volumes  *volumes.Volumes
	closers  []io.Closer
}

var _ ServerInterface = (*Server)(nil)

func New(config Config, deps Deps) (*Server, error) {
	e := echo.New()
	e.HideBanner = true

	server := &Server{
		config:   config,
		router:   e,
		sessions: deps.Sessions,
		tables:   deps.Tables,
		saves:    deps.Saves,
		volumes:  deps.Volumes,
		closers:  deps.Closers,
	}

	validator, err := newRequestValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to load api spec: %w", err)
	}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(validator.middleware)

	e.Logger.SetLevel(logger.EchoLevel(config.LogLevel))
	e.HTTPErrorHandler = server.handleError

	RegisterHandlers(e, server)
	server.setupEditorRoutes()
	server.setupDefaultRoutes()
	return server, nil
}

func (s *Server) setupDefaultRoutes() {
	s.router.GET("/doc.yml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", apiSpec)
	})
	s.router.GET("/swagger/*", echoSwagger.EchoWrapHandlerV3(func(c *echoSwagger.Config) {
		c.URLs = []string{"/doc.yml"}
	}))
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := fmt.Sprintf(":%d", s.config.Port)
		log.Info().Str("addr", addr).Msg("starting server")
		if err := s.router.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	return s.Shutdown()
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info().Msg("shutting down")

	if err := s.router.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			log.Error().Err(err).Msg("error closing resource")
		}
	}

	return nil
}
