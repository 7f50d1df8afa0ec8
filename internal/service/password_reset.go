package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pageza/allertrack/backend/internal/models"
	"github.com/pageza/allertrack/backend/internal/types"
	"gorm.io/gorm"
)

const resetAudience = "password-reset"

// PasswordResetService issues emailed reset links and consumes them. A link
// carries a signed JWT wrapping the random token stored on the user.
type PasswordResetService struct {
	db          *gorm.DB
	credentials *CredentialService
	mailer      Mailer
	secret      []byte
	frontendURL string
	logger      *slog.Logger
}

func NewPasswordResetService(db *gorm.DB, credentials *CredentialService, mailer Mailer, secret, frontendURL string, logger *slog.Logger) *PasswordResetService {
	return &PasswordResetService{
		db:          db,
		credentials: credentials,
		mailer:      mailer,
		secret:      []byte(secret),
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
	}
}

// RequestReset emails a reset link when the address belongs to a user.
// Unknown addresses are not an error so callers cannot probe for accounts.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	raw, err := s.credentials.GenerateResetToken(&user)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"reset_token":            user.ResetToken,
		"reset_token_expires_at": user.ResetTokenExpiresAt,
	}).Error; err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	signed, err := s.sign(&user, raw)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset_token/%s", s.frontendURL, signed)
	if err := s.mailer.SendPasswordReset(ctx, &user, link); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	s.logger.Info("password reset link sent", "user_id", user.ID)
	return nil
}

// ResetPassword consumes a reset link token and sets the new password. The
// stored token is cleared, so each link works once.
func (s *PasswordResetService) ResetPassword(ctx context.Context, tokenString, newPassword string) error {
	claims, err := s.parse(tokenString)
	if err != nil {
		return ErrInvalidResetToken
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if !s.credentials.ValidateResetToken(&user, claims.Token) {
		return ErrInvalidResetToken
	}

	if err := s.credentials.SetPassword(&user, newPassword); err != nil {
		return err
	}
	s.credentials.ClearResetToken(&user)

	// Conditional on the token still being present so two concurrent
	// resets cannot both succeed.
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND reset_token = ?", user.ID, claims.Token).
		Updates(map[string]interface{}{
			"password_hash":          user.PasswordHash,
			"reset_token":            nil,
			"reset_token_expires_at": nil,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected != 1 {
		return ErrInvalidResetToken
	}

	s.logger.Info("password reset completed", "user_id", user.ID)
	return nil
}

func (s *PasswordResetService) sign(user *models.User, raw string) (string, error) {
	claims := &types.ResetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{resetAudience},
			ExpiresAt: jwt.NewNumericDate(*user.ResetTokenExpiresAt),
		},
		UserID: user.ID,
		Token:  raw,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return signed, nil
}

func (s *PasswordResetService) parse(tokenString string) (*types.ResetClaims, error) {
	claims := &types.ResetClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(resetAudience))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 || claims.Token == "" {
		return nil, ErrInvalidResetToken
	}
	return claims, nil
}
