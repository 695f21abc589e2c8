package catalog

import (
	"context"
	"fmt"
	"strings"

	"armenu-api/apperr"
	"armenu-api/backend"
	"armenu-api/models"

	"github.com/sirupsen/logrus"
)

// NewRestaurant is what a manager submits to register a restaurant
type NewRestaurant struct {
	Name         string `json:"name" form:"name" validate:"required"`
	Description  string `json:"description" form:"description"`
	City         string `json:"city" form:"city" validate:"required"`
	Commune      string `json:"commune" form:"commune"`
	Street       string `json:"street" form:"street" validate:"required"`
	StreetNumber *int   `json:"street_number" form:"street_number" validate:"omitempty,gte=0"`
}

func (n *NewRestaurant) trim() {
	n.Name = strings.TrimSpace(n.Name)
	n.Description = strings.TrimSpace(n.Description)
	n.City = strings.TrimSpace(n.City)
	n.Commune = strings.TrimSpace(n.Commune)
	n.Street = strings.TrimSpace(n.Street)
}

func (c *Catalog) logoPath(restaurantID string, logo *Upload) string {
	return fmt.Sprintf("public/%s-%d%s", restaurantID, c.now().UnixMilli(), logo.ext())
}

// CreateRestaurant stores the optional logo and inserts the restaurant
func (c *Catalog) CreateRestaurant(ctx context.Context, managerID string, in NewRestaurant, logo *Upload) (*models.Restaurant, error) {
	in.trim()
	if err := apperr.Validate(in); err != nil {
		return nil, err
	}
	if err := checkExt(logo, "logo", imageExts); err != nil {
		return nil, err
	}

	r := &models.Restaurant{
		ID:           uuidString(),
		ManagerID:    managerID,
		Name:         in.Name,
		Description:  in.Description,
		City:         in.City,
		Commune:      in.Commune,
		Street:       in.Street,
		StreetNumber: in.StreetNumber,
		Status:       models.StatusAvailable,
	}

	var stored []asset
	if logo != nil {
		a := asset{bucket: backend.BucketLogos, path: c.logoPath(r.ID, logo)}
		var err error
		if stored, err = c.uploadAll(ctx, map[asset]*Upload{a: logo}); err != nil {
			return nil, err
		}
		r.LogoPath = a.path
	}

	if err := c.restaurants.CreateRestaurant(ctx, r); err != nil {
		c.removeAssets(ctx, stored)
		return nil, err
	}
	backend.DecorateRestaurant(c.storage, r)
	logrus.WithFields(logrus.Fields{"manager_id": managerID, "restaurant_id": r.ID}).Info("restaurant created")
	return r, nil
}

// ListRestaurants returns the manager's restaurants
func (c *Catalog) ListRestaurants(ctx context.Context, managerID string) ([]models.Restaurant, error) {
	restaurants, err := c.restaurants.ListRestaurantsByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	for i := range restaurants {
		backend.DecorateRestaurant(c.storage, &restaurants[i])
	}
	return restaurants, nil
}

func (c *Catalog) GetRestaurant(ctx context.Context, managerID, restaurantID string) (*models.Restaurant, error) {
	r, err := c.ownedRestaurant(ctx, managerID, restaurantID)
	if err != nil {
		return nil, err
	}
	backend.DecorateRestaurant(c.storage, r)
	return r, nil
}

// UpdateRestaurant applies a partial update and optionally replaces the logo.
// The previous logo is removed only after the update succeeds.
func (c *Catalog) UpdateRestaurant(ctx context.Context, managerID, restaurantID string, upd models.RestaurantUpdate, logo *Upload) (*models.Restaurant, error) {
	upd.Name = trimPtr(upd.Name)
	upd.City = trimPtr(upd.City)
	upd.Street = trimPtr(upd.Street)
	upd.Commune = trimPtr(upd.Commune)
	upd.Description = trimPtr(upd.Description)
	if upd.Name != nil && *upd.Name == "" {
		return nil, apperr.Validation("name cannot be empty")
	}
	if upd.City != nil && *upd.City == "" {
		return nil, apperr.Validation("city cannot be empty")
	}
	if upd.Street != nil && *upd.Street == "" {
		return nil, apperr.Validation("street cannot be empty")
	}
	if upd.StreetNumber != nil && *upd.StreetNumber < 0 {
		return nil, apperr.Validation("street_number must be at least 0")
	}
	if err := checkExt(logo, "logo", imageExts); err != nil {
		return nil, err
	}

	current, err := c.ownedRestaurant(ctx, managerID, restaurantID)
	if err != nil {
		return nil, err
	}

	var stored []asset
	if logo != nil {
		a := asset{bucket: backend.BucketLogos, path: c.logoPath(restaurantID, logo)}
		if stored, err = c.uploadAll(ctx, map[asset]*Upload{a: logo}); err != nil {
			return nil, err
		}
		upd.LogoPath = &a.path
	}

	updated, err := c.restaurants.UpdateRestaurant(ctx, restaurantID, upd)
	if err != nil {
		c.removeAssets(ctx, stored)
		return nil, err
	}
	if logo != nil && current.LogoPath != "" {
		c.removeAssets(ctx, []asset{{bucket: backend.BucketLogos, path: current.LogoPath}})
	}
	backend.DecorateRestaurant(c.storage, updated)
	return updated, nil
}

// DeleteRestaurant removes the restaurant with all its products and files.
// It is not gated by status.
func (c *Catalog) DeleteRestaurant(ctx context.Context, managerID, restaurantID string) error {
	r, err := c.ownedRestaurant(ctx, managerID, restaurantID)
	if err != nil {
		return err
	}
	products, err := c.products.ListProductsByRestaurant(ctx, restaurantID)
	if err != nil {
		return err
	}

	var assets []asset
	if r.LogoPath != "" {
		assets = append(assets, asset{bucket: backend.BucketLogos, path: r.LogoPath})
	}
	for _, p := range products {
		assets = append(assets, productAssets(p)...)
	}
	failed := c.removeAssets(ctx, assets)

	if err := c.restaurants.DeleteRestaurant(ctx, restaurantID); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"manager_id":    managerID,
		"restaurant_id": restaurantID,
		"products":      len(products),
		"orphaned":      len(failed),
	}).Info("restaurant deleted")
	return nil
}
