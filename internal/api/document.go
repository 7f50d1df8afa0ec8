package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/allertrack/backend/internal/service"
)

const uploadHint = "Select only the allergies you actually have."

// Upload extracts text from a PDF or image and asks the oracle for
// allergen candidates. Nothing is saved; the client posts the chosen
// names to /allergy/save.
func (h *AllergyHandler) Upload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploadMaxBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part"})
		return
	}
	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No selected file"})
		return
	}
	if !service.IsSupportedDocument(fileHeader.Filename) {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Unsupported file type. Upload a PDF, PNG or JPEG."})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.oracleTimeout)
	defer cancel()

	h.documents.Archive(ctx, userID, fileHeader.Filename, data)

	text, err := h.documents.ExtractText(ctx, fileHeader.Filename, data)
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			h.oracleTimedOut(c, "upload")
		case errors.Is(err, service.ErrOCRFailed):
			h.logger.Error("text recognition failed", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read text from the image"})
		case errors.Is(err, service.ErrDocumentProcessing):
			h.logger.Warn("unreadable upload", "user_id", userID, "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read the uploaded file"})
		default:
			respondError(c, h.logger, err)
		}
		return
	}

	if text == "" {
		c.JSON(http.StatusOK, gin.H{
			"allergens": []string{},
			"message":   "No text could be extracted from the file.",
		})
		return
	}

	allergens := h.oracle.ExtractAllergens(ctx, text)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		h.oracleTimedOut(c, "upload")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"allergens": allergens,
		"message":   uploadHint,
	})
}

func (h *AllergyHandler) oracleTimedOut(c *gin.Context, op string) {
	h.logger.Error("oracle timed out", "operation", op, "timeout", h.oracleTimeout)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "The AI service did not respond in time"})
}
