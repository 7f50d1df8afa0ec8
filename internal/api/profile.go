package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/allertrack/backend/internal/middleware"
	"github.com/pageza/allertrack/backend/internal/models"
	"github.com/pageza/allertrack/backend/internal/service"
	"github.com/pageza/allertrack/backend/internal/types"
)

type ProfileHandler struct {
	profileService service.IProfileService
	secureCookies  bool
	logger         *slog.Logger
}

func NewProfileHandler(profileService service.IProfileService, secureCookies bool, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		secureCookies:  secureCookies,
		logger:         logger,
	}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/profile", h.GetProfile)
	router.PUT("/profile", middleware.RequireJSON(), h.UpdateProfile)
	router.DELETE("/profile", h.DeleteProfile)
}

func toProfile(user *models.User) types.ProfileResponse {
	return types.ProfileResponse{ID: user.ID, Username: user.Username, Email: user.Email}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toProfile(user))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.profileService.UpdateProfile(c.Request.Context(), userID, req.Username, req.Email)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "profile": toProfile(user)})
}

func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.profileService.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("account deleted", "user_id", userID)
	setTokenCookie(c, "", -1, h.secureCookies)
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
