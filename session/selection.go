// Package session keeps the "currently selected restaurant" of each manager.
// The value is last-write-wins and is cleared when the restaurant it points
// at is gone or suspended.
package session

import (
	"context"

	"armenu-api/apperr"
	"armenu-api/backend"

	"github.com/sirupsen/logrus"
)

type Selections struct {
	store       backend.Selections
	restaurants backend.Restaurants
}

func NewSelections(store backend.Selections, restaurants backend.Restaurants) *Selections {
	return &Selections{store: store, restaurants: restaurants}
}

// Current returns the selected restaurant id, or "" when nothing is selected.
func (s *Selections) Current(ctx context.Context, managerID string) (string, error) {
	id, err := s.store.GetSelection(ctx, managerID)
	if apperr.IsNotFound(err) {
		return "", nil
	}
	return id, err
}

// Select remembers restaurantID for the manager. The restaurant must belong to them.
func (s *Selections) Select(ctx context.Context, managerID, restaurantID string) error {
	if restaurantID == "" {
		return apperr.Validation("restaurant_id is required")
	}
	r, err := s.restaurants.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return err
	}
	if r.ManagerID != managerID {
		return apperr.NotFound("restaurant not found")
	}
	return s.store.SaveSelection(ctx, managerID, restaurantID)
}

func (s *Selections) Clear(ctx context.Context, managerID, reason string) error {
	logrus.WithFields(logrus.Fields{"manager_id": managerID, "reason": reason}).Info("restaurant selection cleared")
	return s.store.ClearSelection(ctx, managerID)
}
