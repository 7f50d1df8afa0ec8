package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/allertrack/backend/internal/middleware"
	"github.com/pageza/allertrack/backend/internal/service"
	"gorm.io/gorm"
)

// Dependencies are the services and settings the routes are built from
type Dependencies struct {
	DB        *gorm.DB
	Auth      service.IAuthService
	Allergies service.IAllergyService
	Resets    service.IPasswordResetService
	Profiles  service.IProfileService
	Oracle    service.IOracleService
	Documents service.IDocumentService

	// OracleLimiter may be nil, which disables rate limiting
	OracleLimiter *middleware.RateLimiter

	OracleTimeout  time.Duration
	UploadMaxBytes int64
	TokenTTL       time.Duration
	SecureCookies  bool
	Logger         *slog.Logger
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	if deps.OracleTimeout <= 0 {
		deps.OracleTimeout = 30 * time.Second
	}
	if deps.UploadMaxBytes <= 0 {
		deps.UploadMaxBytes = 10 << 20
	}
	if deps.OracleLimiter == nil {
		deps.OracleLimiter = middleware.NewOracleRateLimiter(nil, 0, deps.Logger)
	}

	router.NoRoute(middleware.NotFound())
	router.GET("/health", NewHealthHandler(deps.DB).HealthCheck)

	requireAuth := middleware.AuthMiddleware(deps.Auth)

	NewAuthHandler(deps.Auth, deps.TokenTTL, deps.SecureCookies, deps.Logger).
		RegisterRoutes(router.Group("/auth"), requireAuth)

	NewAllergyHandler(deps).
		RegisterRoutes(router.Group("/allergy", requireAuth))

	NewPasswordResetHandler(deps.Resets, deps.Logger).
		RegisterRoutes(router.Group(""))

	NewProfileHandler(deps.Profiles, deps.SecureCookies, deps.Logger).
		RegisterRoutes(router.Group("/user", requireAuth))
}
