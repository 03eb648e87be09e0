// Package httpapi exposes the application services over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dmitrijs2005/stremhub/internal/logging"
	"github.com/dmitrijs2005/stremhub/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address   string
	logger    logging.Logger
	users     *services.UserService
	trakt     *services.TraktService
	addons    *services.AddonService
	analytics *services.AnalyticsService
	echo      *echo.Echo
}

func NewServer(address string, l logging.Logger, us *services.UserService, ts *services.TraktService,
	as *services.AddonService, ans *services.AnalyticsService) *Server {

	s := &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		users:     us,
		trakt:     ts,
		addons:    as,
		analytics: ans,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s.registerRoutes(e)
	s.echo = e

	return s
}

func (s *Server) registerRoutes(e *echo.Echo) {

	e.GET("/", s.health)

	api := e.Group("/api/v1")

	api.POST("/auth/token", s.issueToken)
	// the provider redirects the browser here; no bearer rides along,
	// the state parameter carries the user
	api.GET("/auth/trakt/callback", s.traktCallback)
	api.GET("/auth/trakt/login", s.traktLogin, s.requireUser)
	api.GET("/auth/trakt/status", s.traktStatus, s.requireUser)

	addons := api.Group("/addons", s.requireUser)
	addons.GET("/torrentio/installation-url", s.torrentioInstallURL)
	addons.GET("/aggregator/installation-url", s.aggregatorInstallURL)
	addons.GET("/usage-logs", s.listUsageLogs)

	users := api.Group("/users", s.requireUser)
	users.GET("/me", s.currentUser)
	users.POST("", s.createUser, s.requireAdmin)
	users.GET("", s.listUsers, s.requireAdmin)
	users.PUT("/:id", s.updateUser, s.requireAdmin)
	users.DELETE("/:id", s.deleteUser, s.requireAdmin)

	api.GET("/analytics/stats", s.stats, s.requireUser, s.requireAdmin)
}

func (s *Server) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shCtx); err != nil {
			s.logger.Error(ctx, "error shutting down HTTP server", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
