package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/pageza/allertrack/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenBytes = 32

// CredentialService hashes passwords and manages reset tokens on a user
// record. It never persists anything itself.
type CredentialService struct {
	now           func() time.Time
	resetTokenTTL time.Duration
	bcryptCost    int
}

type CredentialOption func(*CredentialService)

// WithClock overrides the time source used for reset token expiry
func WithClock(now func() time.Time) CredentialOption {
	return func(s *CredentialService) { s.now = now }
}

func WithResetTokenTTL(ttl time.Duration) CredentialOption {
	return func(s *CredentialService) { s.resetTokenTTL = ttl }
}

// WithBcryptCost is mostly useful in tests, where bcrypt.MinCost keeps
// things fast.
func WithBcryptCost(cost int) CredentialOption {
	return func(s *CredentialService) { s.bcryptCost = cost }
}

func NewCredentialService(opts ...CredentialOption) *CredentialService {
	s := &CredentialService{
		now:           time.Now,
		resetTokenTTL: time.Hour,
		bcryptCost:    bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPassword replaces the user's password hash
func (s *CredentialService) SetPassword(user *models.User, plaintext string) error {
	if plaintext == "" {
		return ErrInvalidPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return ErrInvalidPassword
		}
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	return nil
}

func (s *CredentialService) CheckPassword(user *models.User, plaintext string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plaintext)) == nil
}

// GenerateResetToken stores a fresh random token and its expiry on the user,
// replacing any previous one.
func (s *CredentialService) GenerateResetToken(user *models.User) (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)
	expires := s.now().Add(s.resetTokenTTL)

	user.ResetToken = &token
	user.ResetTokenExpiresAt = &expires
	return token, nil
}

func (s *CredentialService) ValidateResetToken(user *models.User, candidate string) bool {
	if user == nil || user.ResetToken == nil || user.ResetTokenExpiresAt == nil || candidate == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(*user.ResetToken), []byte(candidate)) != 1 {
		return false
	}
	return s.now().Before(*user.ResetTokenExpiresAt)
}

func (s *CredentialService) ClearResetToken(user *models.User) {
	user.ResetToken = nil
	user.ResetTokenExpiresAt = nil
}
