package backend

import (
	"context"
	"errors"
	"strings"

	"armenu-api/apperr"
	"armenu-api/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements the record, identity and RPC capabilities on a gorm database
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func lookupErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(what + " not found")
	}
	return apperr.Backend("failed to load "+what, err)
}

// ── Identity ────────────────────────────────────────────────────────────────

func (s *GormStore) RegisterManager(ctx context.Context, m *models.Manager, password string) error {
	m.Email = normalizeEmail(m.Email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Manager{}).Where("email = ?", m.Email).Count(&count).Error; err != nil {
		return apperr.Backend("failed to check email", err)
	}
	if count > 0 {
		return apperr.Validation("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Backend("failed to hash password", err)
	}
	m.PasswordHash = string(hash)
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return apperr.Backend("failed to create manager", err)
	}
	return nil
}

func (s *GormStore) VerifyCredentials(ctx context.Context, email, password string) (*models.Manager, error) {
	return verify(s.db.WithContext(ctx), email, password)
}

func verify(tx *gorm.DB, email, password string) (*models.Manager, error) {
	var m models.Manager
	if err := tx.Where("email = ?", normalizeEmail(email)).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Authentication("invalid email or password")
		}
		return nil, apperr.Backend("failed to verify credentials", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Authentication("invalid email or password")
	}
	return &m, nil
}

func (s *GormStore) GetManager(ctx context.Context, id string) (*models.Manager, error) {
	var m models.Manager
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "manager")
	}
	return &m, nil
}

func (s *GormStore) UpdateManager(ctx context.Context, id string, upd models.ManagerUpdate) (*models.Manager, error) {
	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Username != nil {
		fields["username"] = *upd.Username
	}
	if upd.PhoneNumber != nil {
		fields["phone_number"] = *upd.PhoneNumber
	}
	m, err := s.GetManager(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return m, nil
	}
	if err := s.db.WithContext(ctx).Model(m).Updates(fields).Error; err != nil {
		return nil, apperr.Backend("failed to update profile", err)
	}
	return s.GetManager(ctx, id)
}

// ── Restaurants ─────────────────────────────────────────────────────────────

func (s *GormStore) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	var r models.Restaurant
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "restaurant")
	}
	return &r, nil
}

func (s *GormStore) ListRestaurantsByManager(ctx context.Context, managerID string) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := s.db.WithContext(ctx).Where("manager_id = ?", managerID).Order("name asc").Find(&restaurants).Error
	if err != nil {
		return nil, apperr.Backend("failed to list restaurants", err)
	}
	return restaurants, nil
}

func (s *GormStore) CreateRestaurant(ctx context.Context, r *models.Restaurant) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return apperr.Backend("failed to create restaurant", err)
	}
	return nil
}

func (s *GormStore) UpdateRestaurant(ctx context.Context, id string, upd models.RestaurantUpdate) (*models.Restaurant, error) {
	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.City != nil {
		fields["city"] = *upd.City
	}
	if upd.Commune != nil {
		fields["commune"] = *upd.Commune
	}
	if upd.Street != nil {
		fields["street"] = *upd.Street
	}
	if upd.StreetNumber != nil {
		fields["street_number"] = *upd.StreetNumber
	}
	if upd.LogoPath != nil {
		fields["logo_path"] = *upd.LogoPath
	}

	r, err := s.GetRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return r, nil
	}
	if err := s.db.WithContext(ctx).Model(r).Updates(fields).Error; err != nil {
		return nil, apperr.Backend("failed to update restaurant", err)
	}
	return s.GetRestaurant(ctx, id)
}

// DeleteRestaurant removes the restaurant, its products and any selection pointing at it.
func (s *GormStore) DeleteRestaurant(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.Product{}).Error; err != nil {
			return apperr.Backend("failed to delete products", err)
		}
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.RestaurantSelection{}).Error; err != nil {
			return apperr.Backend("failed to clear selections", err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Restaurant{})
		if res.Error != nil {
			return apperr.Backend("failed to delete restaurant", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("restaurant not found")
		}
		return nil
	})
}

// UpdateRestaurantStatusWithAuth verifies the credentials, checks they belong to
// the restaurant's manager and flips the status inside one transaction.
func (s *GormStore) UpdateRestaurantStatusWithAuth(ctx context.Context, restaurantID string, status models.RestaurantStatus, email, password string) (*models.Restaurant, error) {
	if !status.Valid() {
		return nil, apperr.Validation("invalid status: " + string(status))
	}

	var updated *models.Restaurant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := verify(tx, email, password)
		if err != nil {
			return err
		}

		var r models.Restaurant
		if err := tx.First(&r, "id = ?", restaurantID).Error; err != nil {
			return lookupErr(err, "restaurant")
		}
		if r.ManagerID != m.ID {
			return apperr.Authentication("credentials do not belong to the restaurant's manager")
		}

		if err := tx.Model(&r).Update("status", status).Error; err != nil {
			return apperr.Backend("failed to update restaurant status", err)
		}
		r.Status = status
		updated = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ── Products ────────────────────────────────────────────────────────────────

func (s *GormStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "product")
	}
	return &p, nil
}

func (s *GormStore) ListProductsByRestaurant(ctx context.Context, restaurantID string) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID).Order("name asc").Find(&products).Error
	if err != nil {
		return nil, apperr.Backend("failed to list products", err)
	}
	return products, nil
}

func (s *GormStore) CreateProduct(ctx context.Context, p *models.Product) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return apperr.Backend("failed to create product", err)
	}
	return nil
}

func (s *GormStore) UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error) {
	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.Price != nil {
		fields["price"] = *upd.Price
	}
	if upd.Category != nil {
		fields["category"] = *upd.Category
	}
	if upd.Rating != nil {
		fields["rating"] = *upd.Rating
	}

	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return p, nil
	}
	if err := s.db.WithContext(ctx).Model(p).Updates(fields).Error; err != nil {
		return nil, apperr.Backend("failed to update product", err)
	}
	return s.GetProduct(ctx, id)
}

func (s *GormStore) DeleteProduct(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return apperr.Backend("failed to delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}

// ── Selections ──────────────────────────────────────────────────────────────

func (s *GormStore) GetSelection(ctx context.Context, managerID string) (string, error) {
	var sel models.RestaurantSelection
	if err := s.db.WithContext(ctx).First(&sel, "manager_id = ?", managerID).Error; err != nil {
		return "", lookupErr(err, "restaurant selection")
	}
	return sel.RestaurantID, nil
}

func (s *GormStore) SaveSelection(ctx context.Context, managerID, restaurantID string) error {
	sel := models.RestaurantSelection{ManagerID: managerID, RestaurantID: restaurantID}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "manager_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"restaurant_id", "updated_at"}),
	}).Create(&sel).Error
	if err != nil {
		return apperr.Backend("failed to save selection", err)
	}
	return nil
}

func (s *GormStore) ClearSelection(ctx context.Context, managerID string) error {
	err := s.db.WithContext(ctx).Where("manager_id = ?", managerID).Delete(&models.RestaurantSelection{}).Error
	if err != nil {
		return apperr.Backend("failed to clear selection", err)
	}
	return nil
}

// ── Orphaned assets ─────────────────────────────────────────────────────────

func (s *GormStore) RecordOrphan(ctx context.Context, bucket, path, reason string) error {
	o := models.OrphanedAsset{Bucket: bucket, Path: path, Reason: reason, Attempts: 1}
	if err := s.db.WithContext(ctx).Create(&o).Error; err != nil {
		return apperr.Backend("failed to record orphaned asset", err)
	}
	return nil
}

func (s *GormStore) ListOrphans(ctx context.Context, limit int) ([]models.OrphanedAsset, error) {
	var orphans []models.OrphanedAsset
	if err := s.db.WithContext(ctx).Order("id asc").Limit(limit).Find(&orphans).Error; err != nil {
		return nil, apperr.Backend("failed to list orphaned assets", err)
	}
	return orphans, nil
}

func (s *GormStore) ResolveOrphan(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.OrphanedAsset{}, id).Error; err != nil {
		return apperr.Backend("failed to resolve orphaned asset", err)
	}
	return nil
}

func (s *GormStore) RetryOrphanLater(ctx context.Context, id uint, reason string) error {
	err := s.db.WithContext(ctx).Model(&models.OrphanedAsset{}).Where("id = ?", id).Updates(map[string]interface{}{
		"attempts": gorm.Expr("attempts + 1"),
		"reason":   reason,
	}).Error
	if err != nil {
		return apperr.Backend("failed to update orphaned asset", err)
	}
	return nil
}
