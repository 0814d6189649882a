package middleware

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"ministryhub/internal/auth"
	"ministryhub/internal/dto"
	"ministryhub/internal/metrics"
)

func LoggingMiddleware() gin.HandlerFunc {
	return func(c *ginext.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		event := zlog.Logger.Info()
		switch {
		case status >= 500:
			event = zlog.Logger.Error()
		case status >= 400:
			event = zlog.Logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}

// MetricsMiddleware records request counts and latency keyed by route template.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *ginext.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

type SessionValidator interface {
	Validate(ctx context.Context, token string) (*auth.Claims, error)
}

// AdminOnly aborts with 401 unless the request carries a live admin session.
func AdminOnly(sessions SessionValidator) gin.HandlerFunc {
	return func(c *ginext.Context) {
		token := auth.TokenFromRequest(c.Request)
		if token == "" {
			dto.UnauthorizedError(c, dto.AdminRequired)
			return
		}

		if _, err := sessions.Validate(c.Request.Context(), token); err != nil {
			if !errors.Is(err, auth.ErrUnauthorized) {
				zlog.Logger.Error().Err(err).Msg("failed to validate admin session")
				dto.InternalServerError(c)
				return
			}
			dto.UnauthorizedError(c, dto.AdminRequired)
			return
		}
		c.Next()
	}
}
