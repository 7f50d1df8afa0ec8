package models

import "time"

// Allergy is one normalized allergen recorded for a user. The pair
// (user_id, name) is unique.
type Allergy struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"size:50;not null;uniqueIndex:idx_allergies_user_name,priority:2" json:"name"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_allergies_user_name,priority:1" json:"user_id"`
}

func (Allergy) TableName() string {
	return "allergies"
}
