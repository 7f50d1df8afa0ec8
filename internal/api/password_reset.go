package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/allertrack/backend/internal/middleware"
	"github.com/pageza/allertrack/backend/internal/service"
	"github.com/pageza/allertrack/backend/internal/types"
)

const resetRequestedMessage = "If that email is registered, a password reset link has been sent."

type PasswordResetHandler struct {
	resets service.IPasswordResetService
	logger *slog.Logger
}

func NewPasswordResetHandler(resets service.IPasswordResetService, logger *slog.Logger) *PasswordResetHandler {
	return &PasswordResetHandler{resets: resets, logger: logger}
}

func (h *PasswordResetHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/reset", middleware.RequireJSON(), h.RequestReset)
	router.POST("/reset_token/:token", middleware.RequireJSON(), h.ResetPassword)
}

// RequestReset always answers with the same message so the endpoint cannot
// be used to discover accounts.
func (h *PasswordResetHandler) RequestReset(c *gin.Context) {
	var req types.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.resets.RequestReset(c.Request.Context(), req.Email); err != nil {
		// Mail and store failures are logged only. A 500 here would reveal
		// that the address belongs to an account.
		h.logger.Error("password reset request failed", "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": resetRequestedMessage})
}

func (h *PasswordResetHandler) ResetPassword(c *gin.Context) {
	var req types.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.resets.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Your password has been reset."})
}
