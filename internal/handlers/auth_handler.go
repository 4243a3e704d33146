package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matricula-cloud/matricula-service/internal/session"
	"github.com/matricula-cloud/matricula-service/internal/utils"
	"github.com/matricula-cloud/matricula-service/internal/validator"
)

// AuthHandler exposes login/logout/session endpoints backed by the
// session store. Login failures are part of the response contract and
// surface as 401 with a message, never as a 500.
type AuthHandler struct {
	BaseHandler
	store     *session.Store
	validator *validator.Validator
}

func NewAuthHandler(store *session.Store, v *validator.Validator, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		store:       store,
		validator:   v,
	}
}

// Login authenticates against the auth provider and persists the token
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req validator.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "validation failed",
			Details: err.Error(),
		})
		return
	}

	result := h.store.Login(c.Request.Context(), req.Email, req.Password)
	if !result.Success {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": result.Message,
			"state":   h.store.State(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   result.Token,
		"user":    h.store.User(),
		"state":   h.store.State(),
	})
}

// Logout clears the local session. The response is 204 regardless of
// whether the provider acknowledged the sign-out.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.store.Logout(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// Session reconciles the persisted token with the provider and reports
// the resulting auth state
// GET /api/v1/auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	h.store.CheckAuth(c.Request.Context())

	resp := gin.H{
		"state":         h.store.State(),
		"authenticated": h.store.IsAuthenticated(),
	}
	if user := h.store.User(); user != nil {
		resp["user"] = user
	}
	if lastErr := h.store.LastError(); lastErr != "" {
		resp["last_error"] = lastErr
	}

	c.JSON(http.StatusOK, resp)
}
