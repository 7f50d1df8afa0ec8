package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pageza/allertrack/backend/internal/service"
	"github.com/pageza/allertrack/backend/internal/types"
)

// CheckProduct asks the oracle whether a product is safe given the user's
// recorded allergies.
func (h *AllergyHandler) CheckProduct(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.CheckProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	product := strings.TrimSpace(req.ProductName)
	if product == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_name is required"})
		return
	}

	allergies, err := h.allergies.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.oracleTimeout)
	defer cancel()

	result := h.oracle.CheckProductSafety(ctx, product, allergies)
	if result.Verdict == service.VerdictError {
		if result.IsDeadline() {
			h.oracleTimedOut(c, "check_product")
			return
		}
		h.logger.Error("product safety check failed", "user_id", userID, "detail", result.Explanation)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check product safety"})
		return
	}

	c.JSON(http.StatusOK, types.CheckProductResponse{
		ProductName: product,
		Verdict:     result.Verdict,
		Explanation: result.Explanation,
	})
}
