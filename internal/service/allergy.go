package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/pageza/allertrack/backend/internal/models"
	"gorm.io/gorm"
)

var allergyNamePattern = regexp.MustCompile(`^[a-z\s\-]{2,50}$`)

const (
	RejectInvalid   = "invalid"
	RejectDuplicate = "duplicate"
)

type RejectedAllergy struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// BatchAddResult partitions a batch of names in input order
type BatchAddResult struct {
	Added    []string          `json:"added"`
	Rejected []RejectedAllergy `json:"rejected"`
}

type BatchDeleteResult struct {
	Deleted    []string `json:"deleted"`
	NotDeleted []string `json:"not_deleted"`
}

// AllergyService owns the per-user allergen list
type AllergyService struct {
	db *gorm.DB
}

func NewAllergyService(db *gorm.DB) *AllergyService {
	return &AllergyService{db: db}
}

func init() {
	// Food names that look plural to the inflector but are not.
	inflection.AddUncountable("molasses", "couscous", "hummus", "citrus", "asparagus", "grits", "swiss")
}

// Normalize canonicalizes a user supplied allergen name: surrounding and
// repeated whitespace is dropped, letters are lower-cased and a plural last
// word is singularized, so "Peanuts " becomes "peanut".
func Normalize(raw string) string {
	words := strings.Fields(strings.ToLower(raw))
	if len(words) == 0 {
		return ""
	}
	last := len(words) - 1
	words[last] = singular(words[last])
	return strings.Join(words, " ")
}

// singular only touches regular English plurals. Words like "feta" or
// "hummus" would otherwise be rewritten by the latin rules ("fetum").
func singular(word string) string {
	if !strings.HasSuffix(word, "s") {
		return word
	}
	for _, suffix := range []string{"ss", "us", "is"} {
		if strings.HasSuffix(word, suffix) {
			return word
		}
	}
	return inflection.Singular(word)
}

// ValidateName checks an already normalized name
func ValidateName(name string) error {
	if !allergyNamePattern.MatchString(name) {
		return ErrInvalidAllergyName
	}
	return nil
}

func normalizeAndValidate(raw string) (string, error) {
	name := Normalize(raw)
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return name, nil
}

// Add records a new allergy and returns its normalized name
func (s *AllergyService) Add(ctx context.Context, userID uint, raw string) (string, error) {
	name, err := normalizeAndValidate(raw)
	if err != nil {
		return "", err
	}
	if err := insertAllergy(s.db.WithContext(ctx), userID, name); err != nil {
		return "", err
	}
	return name, nil
}

func insertAllergy(db *gorm.DB, userID uint, name string) error {
	var count int64
	if err := db.Model(&models.Allergy{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check allergy: %w", err)
	}
	if count > 0 {
		return ErrDuplicateAllergy
	}

	// The unique index still decides when two requests race past the check.
	if err := db.Create(&models.Allergy{UserID: userID, Name: name}).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateAllergy
		}
		return fmt.Errorf("failed to add allergy: %w", err)
	}
	return nil
}

// Edit renames one of the user's allergies. The original row is left
// untouched when the new name is invalid or already taken.
func (s *AllergyService) Edit(ctx context.Context, userID uint, oldName, newName string) (string, error) {
	oldNorm := Normalize(oldName)
	newNorm, err := normalizeAndValidate(newName)
	if err != nil {
		return "", err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Allergy
		if err := tx.Where("user_id = ? AND name = ?", userID, oldNorm).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAllergyNotFound
			}
			return fmt.Errorf("failed to load allergy: %w", err)
		}

		if current.Name == newNorm {
			return nil
		}

		var taken int64
		if err := tx.Model(&models.Allergy{}).
			Where("user_id = ? AND name = ?", userID, newNorm).
			Count(&taken).Error; err != nil {
			return fmt.Errorf("failed to check allergy: %w", err)
		}
		if taken > 0 {
			return ErrDuplicateAllergy
		}

		if err := tx.Model(&current).Update("name", newNorm).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrDuplicateAllergy
			}
			return fmt.Errorf("failed to rename allergy: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return newNorm, nil
}

func (s *AllergyService) Delete(ctx context.Context, userID uint, name string) error {
	deleted, err := deleteAllergy(s.db.WithContext(ctx), userID, Normalize(name))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrAllergyNotFound
	}
	return nil
}

func deleteAllergy(db *gorm.DB, userID uint, name string) (bool, error) {
	result := db.Where("user_id = ? AND name = ?", userID, name).Delete(&models.Allergy{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete allergy: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteBatch removes each named allergy. Names that match nothing are
// reported back rather than failing the batch.
func (s *AllergyService) DeleteBatch(ctx context.Context, userID uint, names []string) (BatchDeleteResult, error) {
	result := BatchDeleteResult{Deleted: []string{}, NotDeleted: []string{}}
	db := s.db.WithContext(ctx)

	for _, raw := range names {
		deleted, err := deleteAllergy(db, userID, Normalize(raw))
		if err != nil {
			return result, err
		}
		if deleted {
			result.Deleted = append(result.Deleted, raw)
		} else {
			result.NotDeleted = append(result.NotDeleted, raw)
		}
	}
	return result, nil
}

// AddBatch adds each name independently under the same rules as Add. Only
// a store failure aborts the batch.
func (s *AllergyService) AddBatch(ctx context.Context, userID uint, names []string) (BatchAddResult, error) {
	result := BatchAddResult{Added: []string{}, Rejected: []RejectedAllergy{}}
	db := s.db.WithContext(ctx)

	for _, raw := range names {
		name, err := normalizeAndValidate(raw)
		if err != nil {
			result.Rejected = append(result.Rejected, RejectedAllergy{Name: raw, Reason: RejectInvalid})
			continue
		}

		switch err := insertAllergy(db, userID, name); {
		case err == nil:
			result.Added = append(result.Added, name)
		case errors.Is(err, ErrDuplicateAllergy):
			result.Rejected = append(result.Rejected, RejectedAllergy{Name: raw, Reason: RejectDuplicate})
		default:
			return result, err
		}
	}
	return result, nil
}

// List returns the user's allergies in insertion order
func (s *AllergyService) List(ctx context.Context, userID uint) ([]string, error) {
	names := []string{}
	if err := s.db.WithContext(ctx).Model(&models.Allergy{}).
		Where("user_id = ?", userID).
		Order("id").
		Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list allergies: %w", err)
	}
	return names, nil
}
