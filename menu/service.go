package menu

import (
	"context"
	"slices"

	"armenu-api/apperr"
	"armenu-api/backend"
	"armenu-api/models"
	"armenu-api/statemachine"
)

// View is what the public menu page renders
type View struct {
	Restaurant *models.Restaurant    `json:"restaurant,omitempty"`
	Gate       statemachine.Decision `json:"gate"`
	Categories []string              `json:"categories"`
	Selected   string                `json:"selected_category,omitempty"`
	ShowFilter bool                  `json:"show_filter"`
	Products   []models.Product      `json:"products"`
}

// ProductView is what the public product (AR) page renders
type ProductView struct {
	Restaurant *models.Restaurant    `json:"restaurant,omitempty"`
	Gate       statemachine.Decision `json:"gate"`
	Product    *models.Product       `json:"product,omitempty"`
}

type Service struct {
	restaurants backend.Restaurants
	products    backend.Products
	storage     backend.ObjectStorage
	router      *Router
}

func NewService(restaurants backend.Restaurants, products backend.Products, storage backend.ObjectStorage, router *Router) *Service {
	if router == nil {
		router = defaultRouter
	}
	return &Service{restaurants: restaurants, products: products, storage: storage, router: router}
}

// loadGated loads the restaurant and classifies public access to it.
// A missing restaurant is reported through the gate, not as an error.
func (s *Service) loadGated(ctx context.Context, restaurantID string) (*models.Restaurant, statemachine.Decision, error) {
	r, err := s.restaurants.GetRestaurant(ctx, restaurantID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, statemachine.Evaluate(nil, statemachine.SurfacePublic), nil
		}
		return nil, statemachine.Decision{}, err
	}
	backend.DecorateRestaurant(s.storage, r)
	return r, statemachine.Evaluate(r, statemachine.SurfacePublic), nil
}

// PublicMenu builds the customer menu. requested is the category the customer
// picked; when empty or unknown the default category is used.
func (s *Service) PublicMenu(ctx context.Context, restaurantID, requested string) (*View, error) {
	r, gate, err := s.loadGated(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	view := &View{Restaurant: r, Gate: gate, Categories: []string{}, Products: []models.Product{}}
	if !gate.Allowed() {
		return view, nil
	}

	products, err := s.products.ListProductsByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	view.Categories = s.router.DeriveCategories(products)
	view.ShowFilter = len(view.Categories) > 1
	view.Selected, _ = SelectDefaultCategory(view.Categories)
	if requested != "" && slices.Contains(view.Categories, requested) {
		view.Selected = requested
	}

	view.Products = FilterByCategory(products, view.Categories, view.Selected)
	backend.DecorateProducts(s.storage, view.Products)
	return view, nil
}

// PublicProduct returns one product of an open restaurant for the AR viewer
func (s *Service) PublicProduct(ctx context.Context, restaurantID, productID string) (*ProductView, error) {
	r, gate, err := s.loadGated(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	view := &ProductView{Restaurant: r, Gate: gate}
	if !gate.Allowed() {
		return view, nil
	}

	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.RestaurantID != restaurantID {
		return nil, apperr.NotFound("product not found")
	}
	backend.DecorateProduct(s.storage, p)
	view.Product = p
	return view, nil
}
