package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/allertrack/backend/internal/middleware"
	"github.com/pageza/allertrack/backend/internal/service"
	"github.com/pageza/allertrack/backend/internal/types"
)

type AuthHandler struct {
	authService   service.IAuthService
	tokenTTL      time.Duration
	secureCookies bool
	logger        *slog.Logger
}

func NewAuthHandler(authService service.IAuthService, tokenTTL time.Duration, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		tokenTTL:      tokenTTL,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	router.POST("/register", middleware.RequireJSON(), h.Register)
	router.POST("/login", middleware.RequireJSON(), h.Login)
	router.POST("/logout", h.Logout)
	router.GET("/protected", requireAuth, h.Protected)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    types.ProfileResponse{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setTokenCookie(c, token, int(h.tokenTTL.Seconds()))
	c.JSON(http.StatusOK, types.LoginResponse{
		AccessToken: token,
		Message:     "Login successful",
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setTokenCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Protected(c *gin.Context) {
	username := c.GetString(middleware.ContextUsername)
	c.JSON(http.StatusOK, gin.H{
		"logged_in_as": username,
		"message":      fmt.Sprintf("Hello, %s!", username),
	})
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, value string, maxAge int) {
	setTokenCookie(c, value, maxAge, h.secureCookies)
}

func setTokenCookie(c *gin.Context, value string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, value, maxAge, "/", "", secure, true)
}
