package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RestaurantStatus controls whether the restaurant's menu is publicly browsable
type RestaurantStatus string

const (
	StatusAvailable    RestaurantStatus = "available"
	StatusNotAvailable RestaurantStatus = "notavailable"
)

func (s RestaurantStatus) Valid() bool {
	return s == StatusAvailable || s == StatusNotAvailable
}

type Restaurant struct {
	ID           string           `json:"id" gorm:"primaryKey;size:36"`
	ManagerID    string           `json:"manager_id" gorm:"not null;index"`
	Name         string           `json:"name" gorm:"not null"`
	Description  string           `json:"description"`
	City         string           `json:"city"`
	Commune      string           `json:"commune"`
	Street       string           `json:"street"`
	StreetNumber *int             `json:"street_number"`
	LogoPath     string           `json:"logo_path,omitempty"`
	LogoURL      string           `json:"logo_url,omitempty" gorm:"-"`
	Status       RestaurantStatus `json:"status" gorm:"not null;default:'available'"`
	Products     []Product        `json:"products,omitempty" gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = StatusAvailable
	}
	return nil
}

// RestaurantUpdate is a partial replacement of restaurant details; nil fields are left as is.
type RestaurantUpdate struct {
	Name         *string `json:"name" form:"name"`
	Description  *string `json:"description" form:"description"`
	City         *string `json:"city" form:"city"`
	Commune      *string `json:"commune" form:"commune"`
	Street       *string `json:"street" form:"street"`
	StreetNumber *int    `json:"street_number" form:"street_number"`
	LogoPath     *string `json:"-" form:"-"`
}

// RestaurantSelection remembers which restaurant a manager is working on.
// One row per manager, last write wins.
type RestaurantSelection struct {
	ManagerID    string    `json:"manager_id" gorm:"primaryKey;size:36"`
	RestaurantID string    `json:"restaurant_id" gorm:"not null"`
	UpdatedAt    time.Time `json:"updated_at"`
}
