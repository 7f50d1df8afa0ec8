package api

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pageza/allertrack/backend/internal/middleware"
	"github.com/pageza/allertrack/backend/internal/service"
)

const internalError = "Internal Server Error"

func init() {
	// Report json field names in validation messages.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// respondError maps service errors onto status codes. Anything unexpected
// is logged and hidden behind a generic 500.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	message := internalError

	switch {
	case errors.Is(err, service.ErrInvalidAllergyName),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrInvalidResetToken),
		errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrMissingFields):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrDuplicateAllergy):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrAllergyNotFound),
		errors.Is(err, service.ErrUserNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrUnsupportedDocument):
		status, message = http.StatusUnsupportedMediaType, err.Error()
	default:
		logger.Error("request failed",
			"error", err,
			"path", c.FullPath(),
			"request_id", c.GetString(middleware.ContextRequestID),
		)
	}

	c.JSON(status, gin.H{"error": message})
}

// respondBindError reports a body that failed to decode or validate
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		c.JSON(http.StatusBadRequest, gin.H{"error": bindMessage(fe)})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

func bindMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must not be empty"
	default:
		return fe.Field() + " is invalid"
	}
}

func currentUser(c *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return id, ok
}
