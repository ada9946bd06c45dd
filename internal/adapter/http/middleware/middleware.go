package middleware

import (
	"net/http"
	"strings"
	"time"

	"reseller-server/internal/core/domain"
	"reseller-server/internal/core/ports"
	"reseller-server/pkg/apperror"
	"reseller-server/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	bearerPrefix = "Bearer "

	// Context keys
	CtxPrincipal = "principal"
)

// Authenticate creates a middleware that verifies the bearer credential
// and stores the resolved Principal in the request context. A missing
// or malformed Authorization header is rejected without calling the
// verifier; all rejections look identical to the client.
func Authenticate(verifier ports.TokenVerifier, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			response.Error(c, apperror.ErrUnauthorized())
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, bearerPrefix)
		principal, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			response.Error(c, apperror.ErrUnauthorized())
			c.Abort()
			return
		}

		c.Set(CtxPrincipal, principal)
		c.Next()
	}
}

// RequireRole creates a middleware that admits only principals holding
// the given role. It assumes Authenticate already ran; a request that
// somehow reaches it unauthenticated is rejected the same way a
// wrong-role one is.
func RequireRole(role domain.Role) gin.HandlerFunc {
	message := "Sellers only"
	if role == domain.RoleAdmin {
		message = "Admins only"
	}
	return func(c *gin.Context) {
		principal := PrincipalFrom(c)
		if principal == nil || principal.Role != role {
			response.Error(c, apperror.Forbidden(message))
			c.Abort()
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the authenticated Principal, or nil when the
// request did not pass through Authenticate.
func PrincipalFrom(c *gin.Context) *domain.Principal {
	v, exists := c.Get(CtxPrincipal)
	if !exists {
		return nil
	}
	principal, ok := v.(*domain.Principal)
	if !ok {
		return nil
	}
	return principal
}

// MaxBodySize caps the request body to protect JSON binding from
// oversized payloads.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.ErrorEnvelope{
					StatusCode: http.StatusInternalServerError,
					Success:    false,
					Message:    "Internal Server Error",
				})
			}
		}()
		c.Next()
	}
}
