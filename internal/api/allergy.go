package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/allertrack/backend/internal/middleware"
	"github.com/pageza/allertrack/backend/internal/service"
	"github.com/pageza/allertrack/backend/internal/types"
)

// AllergyHandler serves the allergy list and the oracle backed endpoints
type AllergyHandler struct {
	allergies      service.IAllergyService
	oracle         service.IOracleService
	documents      service.IDocumentService
	limiter        *middleware.RateLimiter
	oracleTimeout  time.Duration
	uploadMaxBytes int64
	logger         *slog.Logger
}

func NewAllergyHandler(deps Dependencies) *AllergyHandler {
	return &AllergyHandler{
		allergies:      deps.Allergies,
		oracle:         deps.Oracle,
		documents:      deps.Documents,
		limiter:        deps.OracleLimiter,
		oracleTimeout:  deps.OracleTimeout,
		uploadMaxBytes: deps.UploadMaxBytes,
		logger:         deps.Logger,
	}
}

func (h *AllergyHandler) RegisterRoutes(router *gin.RouterGroup) {
	json := middleware.RequireJSON()
	limit := h.limiter.RateLimitMiddleware()

	router.GET("/", h.List)
	router.POST("/add", json, h.Add)
	router.PUT("/edit", json, h.Edit)
	router.DELETE("/:name", h.Delete)
	router.POST("/delete_batch", json, h.DeleteBatch)
	router.POST("/add_batch", json, h.AddBatch)
	router.POST("/save", json, h.Save)
	router.POST("/upload", limit, h.Upload)
	router.POST("/check_product", json, limit, h.CheckProduct)
}

func (h *AllergyHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	names, err := h.allergies.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"allergies": names})
}

func (h *AllergyHandler) Add(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.AddAllergyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	name, err := h.allergies.Add(c.Request.Context(), userID, req.Allergy)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Allergy added", "allergy": name})
}

func (h *AllergyHandler) Edit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.EditAllergyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	name, err := h.allergies.Edit(c.Request.Context(), userID, req.OldName, req.NewName)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Allergy updated", "allergy": name})
}

func (h *AllergyHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.allergies.Delete(c.Request.Context(), userID, c.Param("name")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Allergy deleted"})
}

func (h *AllergyHandler) DeleteBatch(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.AllergyListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.allergies.DeleteBatch(c.Request.Context(), userID, req.Allergies)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AllergyHandler) AddBatch(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.AllergyListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.allergies.AddBatch(c.Request.Context(), userID, req.Allergies)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Save stores the candidates the user picked from an upload
func (h *AllergyHandler) Save(c *gin.Context) {
	h.AddBatch(c)
}
