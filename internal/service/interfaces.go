package service

import (
	"context"

	"github.com/pageza/allertrack/backend/internal/models"
	"github.com/pageza/allertrack/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, email, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GetUserByID(ctx context.Context, userID uint) (*models.User, error)
}

type IAllergyService interface {
	Add(ctx context.Context, userID uint, raw string) (string, error)
	Edit(ctx context.Context, userID uint, oldName, newName string) (string, error)
	Delete(ctx context.Context, userID uint, name string) error
	DeleteBatch(ctx context.Context, userID uint, names []string) (BatchDeleteResult, error)
	AddBatch(ctx context.Context, userID uint, names []string) (BatchAddResult, error)
	List(ctx context.Context, userID uint) ([]string, error)
}

type IPasswordResetService interface {
	RequestReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint, username, email string) (*models.User, error)
	DeleteAccount(ctx context.Context, userID uint) error
}

type IOracleService interface {
	ExtractAllergens(ctx context.Context, text string) []string
	CheckProductSafety(ctx context.Context, product string, allergies []string) SafetyResult
}

type IDocumentService interface {
	ExtractText(ctx context.Context, filename string, data []byte) (string, error)
	Archive(ctx context.Context, userID uint, filename string, data []byte)
}

// Mailer delivers password reset links
type Mailer interface {
	SendPasswordReset(ctx context.Context, user *models.User, link string) error
}

// Generator is a text-in, text-out generative model
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImageOCR recovers printed text from an image
type ImageOCR interface {
	ExtractImageText(ctx context.Context, data []byte, mimeType string) (string, error)
}

// DocumentArchive keeps a copy of uploaded documents
type DocumentArchive interface {
	PutObject(ctx context.Context, key, contentType string, data []byte) error
}

var (
	_ IAuthService          = (*AuthService)(nil)
	_ IAllergyService       = (*AllergyService)(nil)
	_ IPasswordResetService = (*PasswordResetService)(nil)
	_ IOracleService        = (*OracleService)(nil)
	_ IDocumentService      = (*DocumentService)(nil)
)
