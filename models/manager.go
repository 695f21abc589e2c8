package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Manager is the authenticated operator of one or more restaurants
type Manager struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phone_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (m *Manager) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ManagerUpdate carries the profile fields a manager may change; nil means unchanged.
type ManagerUpdate struct {
	Name        *string `json:"name"`
	Username    *string `json:"username"`
	PhoneNumber *string `json:"phone_number"`
}
