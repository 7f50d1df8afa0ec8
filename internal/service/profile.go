package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pageza/allertrack/backend/internal/models"
	"gorm.io/gorm"
)

// ProfileService handles user profile operations
type ProfileService struct {
	db *gorm.DB
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &user, nil
}

// UpdateProfile changes username and email. Either value already held by
// another user is rejected with ErrUserExists.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uint, username, email string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = NormalizeEmail(email)
	if username == "" || email == "" {
		return nil, ErrMissingFields
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load profile: %w", err)
		}

		var conflicts int64
		if err := tx.Model(&models.User{}).
			Where("id <> ? AND (username = ? OR email = ?)", userID, username, email).
			Count(&conflicts).Error; err != nil {
			return fmt.Errorf("failed to check profile conflicts: %w", err)
		}
		if conflicts > 0 {
			return ErrUserExists
		}

		user.Username = username
		user.Email = email
		if err := tx.Model(&user).Updates(map[string]interface{}{
			"username": username,
			"email":    email,
		}).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrUserExists
			}
			return fmt.Errorf("failed to update profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteAccount removes the user together with every allergy they recorded
func (s *ProfileService) DeleteAccount(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Allergy{}).Error; err != nil {
			return fmt.Errorf("failed to delete allergies: %w", err)
		}
		result := tx.Delete(&models.User{}, userID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}
