package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"invitapp/internal/domain"
)

const (
	hostHeader = "X-Host-ID"
	hostKey    = "hostID"
)

// requestLogger writes one zerolog entry per request.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}

// requireHost reads the host identity set by the authenticating gateway.
func requireHost() gin.HandlerFunc {
	return func(c *gin.Context) {
		hostID := strings.TrimSpace(c.GetHeader(hostHeader))
		if hostID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "host_required"})
			return
		}
		c.Set(hostKey, hostID)
		c.Next()
	}
}

// requireEventOwner rejects access to events of other hosts as if they did
// not exist.
func (s *Server) requireEventOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := s.svc.Events.GetEvent(c.Request.Context(), c.Param("eventId"))
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		if event.HostID != c.GetString(hostKey) {
			s.abortWithError(c, domain.ErrEventNotFound)
			return
		}
		c.Next()
	}
}

// locale prefers an explicit ?lang= over Accept-Language.
func locale(c *gin.Context) string {
	if lang := c.Query("lang"); lang != "" {
		return lang
	}
	return c.GetHeader("Accept-Language")
}
