package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thenoetrevino/checklist/internal/session"
	"github.com/thenoetrevino/checklist/internal/types"
)

const (
	headerRequestID = "X-Request-ID"
	requestIDKey    = "request_id"
	identityKey     = "identity"
)

// requestID tags every request with an id, reusing the caller's when sent
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// accessLog logs each request once it has finished and feeds the metrics
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		s.metrics.ObserveRequest(c.Request.Method, route, status, elapsed)

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.requestLogger(c).Log(c.Request.Context(), level, "http request",
			"method", c.Request.Method,
			"route", route,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", elapsed,
		)
	}
}

// recovery turns a panic into a 500 with the standard error body
func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		s.requestLogger(c).Error("panic while handling request", "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	})
}

// requestTimeout bounds the context handed to services
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// requireAuth resolves the session cookie and rejects anonymous callers
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(s.cookieName)
		identity, err := s.app.AuthService.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.Abort()
			s.respondError(c, err, "Not authenticated")
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// caller returns the identity stored by requireAuth
func caller(c *gin.Context) session.Identity {
	v, _ := c.Get(identityKey)
	identity, _ := v.(session.Identity)
	return identity
}

func callerID(c *gin.Context) types.UserID {
	return caller(c).UserID
}

// requestLogger returns the server logger annotated with the request id
func (s *Server) requestLogger(c *gin.Context) *slog.Logger {
	return s.logger.With(requestIDKey, c.GetString(requestIDKey))
}
