package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rogersnm/contractme/internal/api"
)

func statusForCode(code string) int {
	switch code {
	case api.CodeNotFound:
		return http.StatusNotFound
	case api.CodeInvalidInput, api.CodeInvalidCategory:
		return http.StatusBadRequest
	case api.CodeInvalidReference:
		return http.StatusUnprocessableEntity
	case api.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	code := api.CodeFor(err)
	status := statusForCode(code)
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.AbortWithStatusJSON(status, api.NewError(code, err.Error()))
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, api.NewError(api.CodeInvalidInput, msg))
}
