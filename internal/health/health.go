// Package health exposes an HTTP liveness endpoint for operators. It is not
// part of the crossword protocol.
package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 5 * time.Second

// SessionCounter reports live sessions.
type SessionCounter interface {
	Count() int
}

// ConnectionCounter reports connections being served.
type ConnectionCounter interface {
	ActiveConnections() int
}

// Pinger checks the database connection. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the sources the health report is built from.
type Deps struct {
	Sessions    SessionCounter
	Connections ConnectionCounter
	DB          Pinger
}

// NewRouter builds the health router.
func NewRouter(deps Deps, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{
			"status":  "ok",
			"message": "Crossword server is running",
		}
		if deps.Sessions != nil {
			body["active_sessions"] = deps.Sessions.Count()
		}
		if deps.Connections != nil {
			body["open_connections"] = deps.Connections.ActiveConnections()
		}
		if deps.DB != nil {
			if err := deps.DB.PingContext(c.Request.Context()); err != nil {
				log.Warn().Err(err).Msg("Health: database ping failed")
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body["message"] = "Database is unreachable"
			}
		}
		c.JSON(status, body)
	})

	return r
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Health: request handled")
	}
}

// Serve runs handler on addr until ctx is cancelled, then shuts down.
func Serve(ctx context.Context, addr string, handler http.Handler, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Health: listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("health server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("health server forced to shutdown: %w", err)
	}
	return nil
}
