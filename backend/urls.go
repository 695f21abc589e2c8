package backend

import "armenu-api/models"

// DecorateProduct fills the product's public asset URLs from its stored paths
func DecorateProduct(s ObjectStorage, p *models.Product) {
	p.ImageURL = s.PublicURL(BucketLogos, p.ImagePath)
	p.ModelGLBURL = s.PublicURL(BucketModels, p.ModelGLBPath)
	p.ModelUSDZURL = s.PublicURL(BucketModels, p.ModelUSDZPath)
}

func DecorateProducts(s ObjectStorage, products []models.Product) {
	for i := range products {
		DecorateProduct(s, &products[i])
	}
}

func DecorateRestaurant(s ObjectStorage, r *models.Restaurant) {
	r.LogoURL = s.PublicURL(BucketLogos, r.LogoPath)
}
