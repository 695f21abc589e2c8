// Package backend holds the capabilities the application delegates to its
// storage provider: identity, record CRUD, the atomic status-transition call
// and object storage. GormStore and FileStorage are the bundled implementations.
package backend

import (
	"context"
	"io"

	"armenu-api/models"
)

// Storage buckets
const (
	BucketLogos  = "logos"  // restaurant logos and product images
	BucketModels = "models" // GLB and USDZ 3D models
)

type Identity interface {
	// VerifyCredentials checks email and password without creating a session.
	VerifyCredentials(ctx context.Context, email, password string) (*models.Manager, error)
	RegisterManager(ctx context.Context, m *models.Manager, password string) error
	GetManager(ctx context.Context, id string) (*models.Manager, error)
	UpdateManager(ctx context.Context, id string, upd models.ManagerUpdate) (*models.Manager, error)
}

type Restaurants interface {
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
	ListRestaurantsByManager(ctx context.Context, managerID string) ([]models.Restaurant, error)
	CreateRestaurant(ctx context.Context, r *models.Restaurant) error
	UpdateRestaurant(ctx context.Context, id string, upd models.RestaurantUpdate) (*models.Restaurant, error)
	DeleteRestaurant(ctx context.Context, id string) error
}

type Products interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	// ListProductsByRestaurant returns products ordered by name ascending.
	ListProductsByRestaurant(ctx context.Context, restaurantID string) ([]models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// StatusRPC verifies the credentials and applies the status change as one step.
// A rejected credential check leaves the restaurant untouched.
type StatusRPC interface {
	UpdateRestaurantStatusWithAuth(ctx context.Context, restaurantID string, status models.RestaurantStatus, email, password string) (*models.Restaurant, error)
}

type Selections interface {
	GetSelection(ctx context.Context, managerID string) (string, error)
	SaveSelection(ctx context.Context, managerID, restaurantID string) error
	ClearSelection(ctx context.Context, managerID string) error
}

type Orphans interface {
	RecordOrphan(ctx context.Context, bucket, path, reason string) error
	ListOrphans(ctx context.Context, limit int) ([]models.OrphanedAsset, error)
	ResolveOrphan(ctx context.Context, id uint) error
	RetryOrphanLater(ctx context.Context, id uint, reason string) error
}

type ObjectStorage interface {
	Upload(ctx context.Context, bucket, path string, r io.Reader) (string, error)
	// PublicURL is pure: no I/O is needed to build the link.
	PublicURL(bucket, path string) string
	Remove(ctx context.Context, bucket, path string) error
}
