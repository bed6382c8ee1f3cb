package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"user-directory/internal/service"
	"user-directory/internal/validation"
)

// Response is the envelope every endpoint returns. Error is only populated
// with storage detail outside production.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Errors  validation.Errors `json:"errors,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func respondData(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Response{Success: true, Message: message, Data: data})
}

func respondMessage(c *gin.Context, code int, message string) {
	c.JSON(code, Response{Success: false, Message: message})
}

func respondValidation(c *gin.Context, message string, errs validation.Errors) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Message: message, Errors: errs})
}

// handleServiceError maps the service error taxonomy onto status codes.
func (h *Handler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		respondMessage(c, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrEmailTaken):
		respondMessage(c, http.StatusConflict, "User with this email already exists")
	default:
		resp := Response{Success: false, Message: "Internal server error"}
		if !h.production {
			resp.Error = err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
	}
}
