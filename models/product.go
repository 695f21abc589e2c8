package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	RestaurantID  string    `json:"restaurant_id" gorm:"not null;index"`
	Name          string    `json:"name" gorm:"not null"`
	Description   string    `json:"description"`
	Price         float64   `json:"price" gorm:"not null"`
	Category      string    `json:"category"`
	Rating        *float64  `json:"rating"`
	ImagePath     string    `json:"image_path,omitempty"`
	ModelGLBPath  string    `json:"model_glb_path,omitempty"`  // Android and web viewers
	ModelUSDZPath string    `json:"model_usdz_path,omitempty"` // Apple quick-look
	ImageURL      string    `json:"image_url,omitempty" gorm:"-"`
	ModelGLBURL   string    `json:"model_glb_url,omitempty" gorm:"-"`
	ModelUSDZURL  string    `json:"model_usdz_url,omitempty" gorm:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProductUpdate is a partial replacement of product fields; nil fields are left as is.
type ProductUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Rating      *float64 `json:"rating"`
}

// OrphanedAsset records a stored object whose removal failed and is retried later
type OrphanedAsset struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Bucket    string    `json:"bucket" gorm:"not null"`
	Path      string    `json:"path" gorm:"not null"`
	Reason    string    `json:"reason"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
