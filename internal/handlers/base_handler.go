package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/matricula-cloud/matricula-service/internal/utils"
)

// ErrorResponse is the uniform error payload
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// BaseHandler carries the pieces every handler shares
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogError logs a handler-level failure with request context
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string) {
	logger := utils.FromContext(c.Request.Context(), h.logger)
	logger.Error(msg, "error", err, "path", c.Request.URL.Path, "method", c.Request.Method)
}

// parseIDParam parses a positive integer path parameter; on failure it
// writes the 400 response and returns 0.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
		})
		return 0
	}
	return uint(id)
}

// parseUintQuery parses an optional uint query parameter
func parseUintQuery(c *gin.Context, name string) *uint {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	out := uint(value)
	return &out
}

// parseIntQuery parses an optional int query parameter with a default
func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
