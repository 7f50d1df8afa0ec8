package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrUserExists         = errors.New("username or email already registered")
	ErrMissingFields      = errors.New("email and username are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidPassword    = errors.New("password must be between 1 and 72 bytes")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")

	ErrInvalidAllergyName = errors.New("allergy name must be 2-50 letters, spaces or hyphens")
	ErrDuplicateAllergy   = errors.New("allergy already recorded")
	ErrAllergyNotFound    = errors.New("allergy not found")

	ErrUnsupportedDocument = errors.New("unsupported file type")
	ErrDocumentProcessing  = errors.New("failed to process document")
	ErrOCRFailed           = errors.New("text recognition failed")
	ErrOracleUnavailable   = errors.New("oracle not configured")
)

// isDuplicateKey reports whether err is a unique constraint violation.
// TranslateError covers the postgres and sqlite drivers; the string check
// catches errors raised outside gorm's error translator.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
