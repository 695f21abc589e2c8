package catalog

import (
	"context"
	"strings"

	"armenu-api/apperr"
	"armenu-api/backend"
	"armenu-api/models"

	"github.com/sirupsen/logrus"
)

// NewProduct is what a manager submits to add a product
type NewProduct struct {
	Name        string  `json:"name" form:"name" validate:"required"`
	Description string  `json:"description" form:"description"`
	Price       float64 `json:"price" form:"price" validate:"finite,gt=0"`
	Category    string  `json:"category" form:"category" validate:"required"`
}

// ProductFiles are the optional files uploaded with a product
type ProductFiles struct {
	Image     *Upload
	ModelGLB  *Upload // Android and web viewers
	ModelUSDZ *Upload // Apple quick-look
}

func productAssets(p models.Product) []asset {
	var out []asset
	if p.ImagePath != "" {
		out = append(out, asset{bucket: backend.BucketLogos, path: p.ImagePath})
	}
	if p.ModelUSDZPath != "" {
		out = append(out, asset{bucket: backend.BucketModels, path: p.ModelUSDZPath})
	}
	if p.ModelGLBPath != "" {
		out = append(out, asset{bucket: backend.BucketModels, path: p.ModelGLBPath})
	}
	return out
}

// CreateProduct validates the product, stores its files and inserts the row.
// If the insert fails the stored files are removed again.
func (c *Catalog) CreateProduct(ctx context.Context, managerID, restaurantID string, in NewProduct, files ProductFiles) (*models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if err := apperr.Validate(in); err != nil {
		return nil, err
	}
	if err := checkExt(files.Image, "image", imageExts); err != nil {
		return nil, err
	}
	if err := checkExt(files.ModelGLB, "model_glb", glbExts); err != nil {
		return nil, err
	}
	if err := checkExt(files.ModelUSDZ, "model_usdz", usdzExts); err != nil {
		return nil, err
	}

	if _, err := c.ownedRestaurant(ctx, managerID, restaurantID); err != nil {
		return nil, err
	}

	p := &models.Product{
		ID:           uuidString(),
		RestaurantID: restaurantID,
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		Category:     in.Category,
	}
	prefix := restaurantID + "/" + p.ID + "/"
	uploads := map[asset]*Upload{}
	if files.Image != nil {
		p.ImagePath = "products/" + prefix + "image" + files.Image.ext()
		uploads[asset{backend.BucketLogos, p.ImagePath}] = files.Image
	}
	if files.ModelGLB != nil {
		p.ModelGLBPath = prefix + "model" + files.ModelGLB.ext()
		uploads[asset{backend.BucketModels, p.ModelGLBPath}] = files.ModelGLB
	}
	if files.ModelUSDZ != nil {
		p.ModelUSDZPath = prefix + "model" + files.ModelUSDZ.ext()
		uploads[asset{backend.BucketModels, p.ModelUSDZPath}] = files.ModelUSDZ
	}

	stored, err := c.uploadAll(ctx, uploads)
	if err != nil {
		return nil, err
	}
	if err := c.products.CreateProduct(ctx, p); err != nil {
		c.removeAssets(ctx, stored)
		return nil, err
	}
	backend.DecorateProduct(c.storage, p)
	return p, nil
}

// ListProducts returns the restaurant's products ordered by name
func (c *Catalog) ListProducts(ctx context.Context, managerID, restaurantID string) ([]models.Product, error) {
	if _, err := c.ownedRestaurant(ctx, managerID, restaurantID); err != nil {
		return nil, err
	}
	products, err := c.products.ListProductsByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	backend.DecorateProducts(c.storage, products)
	return products, nil
}

// ownedProduct loads a product and checks the manager owns its restaurant
func (c *Catalog) ownedProduct(ctx context.Context, managerID, productID string) (*models.Product, error) {
	p, err := c.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if _, err := c.ownedRestaurant(ctx, managerID, p.RestaurantID); err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, err
	}
	return p, nil
}

func (c *Catalog) GetProduct(ctx context.Context, managerID, productID string) (*models.Product, error) {
	p, err := c.ownedProduct(ctx, managerID, productID)
	if err != nil {
		return nil, err
	}
	backend.DecorateProduct(c.storage, p)
	return p, nil
}

func validateProductUpdate(upd *models.ProductUpdate) error {
	upd.Name = trimPtr(upd.Name)
	upd.Category = trimPtr(upd.Category)
	upd.Description = trimPtr(upd.Description)
	if upd.Name != nil && *upd.Name == "" {
		return apperr.Validation("name cannot be empty")
	}
	if upd.Price != nil && !apperr.IsFinite(*upd.Price) {
		return apperr.Validation("price must be a finite number")
	}
	if upd.Price != nil && *upd.Price <= 0 {
		return apperr.Validation("price must be greater than 0")
	}
	if upd.Category != nil && *upd.Category == "" {
		return apperr.Validation("category cannot be empty")
	}
	if upd.Rating != nil && (!apperr.IsFinite(*upd.Rating) || *upd.Rating < 0 || *upd.Rating > 5) {
		return apperr.Validation("rating must be between 0 and 5")
	}
	return nil
}

// UpdateProduct replaces the given fields of a product
func (c *Catalog) UpdateProduct(ctx context.Context, managerID, productID string, upd models.ProductUpdate) (*models.Product, error) {
	if err := validateProductUpdate(&upd); err != nil {
		return nil, err
	}
	if _, err := c.ownedProduct(ctx, managerID, productID); err != nil {
		return nil, err
	}
	p, err := c.products.UpdateProduct(ctx, productID, upd)
	if err != nil {
		return nil, err
	}
	backend.DecorateProduct(c.storage, p)
	return p, nil
}

// DeleteProduct removes the product's stored files, then its row. The row is
// deleted even when some files could not be removed; those are kept as
// orphans for SweepOrphans.
func (c *Catalog) DeleteProduct(ctx context.Context, managerID, productID string) error {
	p, err := c.ownedProduct(ctx, managerID, productID)
	if err != nil {
		return err
	}
	failed := c.removeAssets(ctx, productAssets(*p))
	if err := c.products.DeleteProduct(ctx, productID); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"product_id":    productID,
		"restaurant_id": p.RestaurantID,
		"orphaned":      len(failed),
	}).Info("product deleted")
	return nil
}
