package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/service"
	"github.com/maxviazov/station-vendor-service/pkg/response"
	"github.com/rs/zerolog"
)

const (
	// HeaderRequestID is echoed back on every response.
	HeaderRequestID = "X-Request-ID"

	ctxRequestID = "request_id"
	ctxPrincipal = "principal"
)

// RequestID reuses a sane client-supplied id or mints a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// AccessLog writes one line per request once the handler chain is done.
func AccessLog(logger zerolog.Logger) gin.HandlerFunc {
	l := logger.With().Str("module", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := l.Info()
		switch {
		case status >= 500:
			ev = l.Error()
		case status >= 400:
			ev = l.Warn()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("request_id", c.GetString(ctxRequestID)).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Str("uri", c.Request.URL.RequestURI()).
			Int("status", status).
			Int("size", c.Writer.Size()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

// Authenticate resolves the bearer token into a principal or aborts with 401.
func Authenticate(svc service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.WriteError(c, service.ErrUnauthorized)
			return
		}
		p, err := svc.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			response.WriteError(c, err)
			return
		}
		c.Set(ctxPrincipal, p)
		c.Next()
	}
}

// RequireRoles aborts with 403 unless the authenticated principal holds one of roles.
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principal(c)
		if !ok {
			response.WriteError(c, service.ErrUnauthorized)
			return
		}
		if !p.Is(roles...) {
			response.WriteError(c, service.ErrForbidden)
			return
		}
		c.Next()
	}
}

func principal(c *gin.Context) (model.Principal, bool) {
	v, ok := c.Get(ctxPrincipal)
	if !ok {
		return model.Principal{}, false
	}
	p, ok := v.(model.Principal)
	return p, ok
}
