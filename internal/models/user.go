package models

import (
	"time"
)

type User struct {
	ID                  uint       `gorm:"primarykey" json:"id"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	Email               string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username            string     `gorm:"size:80;uniqueIndex;not null" json:"username"`
	PasswordHash        string     `gorm:"not null" json:"-"`
	ResetToken          *string    `gorm:"size:128;uniqueIndex" json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
	Allergies           []Allergy  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}
