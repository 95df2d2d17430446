package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sitekit-dev/sitekit/internal/defs"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 5 * time.Second

// New returns an Echo instance serving dir as a static site. A request for
// /<slug>/ serves <slug>/index.html and /<slug> redirects to /<slug>/.
func New(dir string, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			return path.Ext(c.Request().URL.Path) != ""
		},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(noCache)
	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Root:  dir,
		Index: defs.IndexHTML,
	}))
	return e
}

// noCache disables browser caching so rebuilt pages show on reload.
func noCache(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")
		return next(c)
	}
}

// Serve runs the static server on addr until ctx is cancelled, then shuts
// it down gracefully.
func Serve(ctx context.Context, addr, dir string, logger *slog.Logger) error {
	e := New(dir, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving", "addr", addr, "dir", dir)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server shut down")
	return nil
}
