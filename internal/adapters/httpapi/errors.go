package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invitapp/internal/domain"
)

const (
	codeInvalidRequest = "invalid_request"
	codeInternal       = "internal"
)

var statusByCode = map[string]int{
	"event_not_found":        http.StatusNotFound,
	"guest_not_found":        http.StatusNotFound,
	"invalid_event":          http.StatusBadRequest,
	"invalid_guest":          http.StatusBadRequest,
	"invalid_decision":       http.StatusBadRequest,
	"invalid_passes":         http.StatusBadRequest,
	"passes_below_confirmed": http.StatusConflict,
	"pass_unavailable":       http.StatusConflict,
	"write_failed":           http.StatusServiceUnavailable,
	"store_unavailable":      http.StatusServiceUnavailable,
}

// abortWithError answers with the domain code of err and its localized
// message. Errors outside the domain are logged and reported as internal.
func (s *Server) abortWithError(c *gin.Context, err error) {
	code := domain.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		code, status = codeInternal, http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError || domain.IsRetryable(err) {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error":     code,
		"message":   s.t.T(locale(c), "error."+code, nil),
		"retryable": domain.IsRetryable(err),
	})
}

func (s *Server) badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":   codeInvalidRequest,
		"message": s.t.T(locale(c), "error."+codeInvalidRequest, nil),
	})
}
