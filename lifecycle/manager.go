// Package lifecycle gates restaurant availability changes behind a fresh
// credential check and decides what the dashboard may show.
package lifecycle

import (
	"context"
	"strings"

	"armenu-api/apperr"
	"armenu-api/backend"
	"armenu-api/models"
	"armenu-api/session"
	"armenu-api/statemachine"

	"github.com/sirupsen/logrus"
)

// Credentials are re-entered by the manager for every status change.
// They are verified, never used to open a session.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type statusChange struct {
	RestaurantID string                  `json:"restaurant_id" validate:"required"`
	Target       models.RestaurantStatus `json:"status" validate:"omitempty,oneof=available notavailable"`
	Credentials
}

type Manager struct {
	rpc         backend.StatusRPC
	restaurants backend.Restaurants
	selections  *session.Selections
}

func NewManager(rpc backend.StatusRPC, restaurants backend.Restaurants, selections *session.Selections) *Manager {
	return &Manager{rpc: rpc, restaurants: restaurants, selections: selections}
}

// RequestStatusChange moves the restaurant to target after re-verifying creds.
// An empty target toggles: suspend when available, activate when suspended.
// Empty credentials fail before any backend call; any failure leaves the
// status unchanged. The password is passed on verbatim, as at login.
func (m *Manager) RequestStatusChange(ctx context.Context, managerID, restaurantID string, target models.RestaurantStatus, creds Credentials) (*models.Restaurant, error) {
	req := statusChange{
		RestaurantID: strings.TrimSpace(restaurantID),
		Target:       target,
		Credentials: Credentials{
			Email:    strings.TrimSpace(creds.Email),
			Password: creds.Password,
		},
	}
	if strings.TrimSpace(req.Password) == "" {
		req.Password = ""
	}
	if err := apperr.Validate(req); err != nil {
		return nil, err
	}

	current, err := m.restaurants.GetRestaurant(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}
	if current.ManagerID != managerID {
		return nil, apperr.NotFound("restaurant not found")
	}
	if target == "" {
		target = statemachine.Toggle(current.Status)
	}
	log := logrus.WithFields(logrus.Fields{
		"manager_id":    managerID,
		"restaurant_id": req.RestaurantID,
		"target":        target,
	})
	if err := statemachine.CanTransition(current.Status, target); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	updated, err := m.rpc.UpdateRestaurantStatusWithAuth(ctx, req.RestaurantID, target, req.Email, req.Password)
	if err != nil {
		log.WithField("kind", apperr.KindOf(err)).Warn("restaurant status change rejected")
		return nil, err
	}
	log.WithField("action", statemachine.ActionFor(target)).Info("restaurant status changed")
	return updated, nil
}

// DashboardEntry is the result of entering the dashboard
type DashboardEntry struct {
	Restaurant *models.Restaurant    `json:"restaurant,omitempty"`
	Gate       statemachine.Decision `json:"gate"`
	Warning    string                `json:"warning,omitempty"`
}

// EnterDashboard re-reads the selected restaurant on every entry. A selection
// pointing at a missing, foreign or suspended restaurant is cleared and the
// caller is sent back to restaurant selection.
func (m *Manager) EnterDashboard(ctx context.Context, managerID string) (*DashboardEntry, error) {
	selected, err := m.selections.Current(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if selected == "" {
		return &DashboardEntry{Gate: statemachine.Evaluate(nil, statemachine.SurfaceDashboard)}, nil
	}

	r, err := m.restaurants.GetRestaurant(ctx, selected)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}
	if r != nil && r.ManagerID != managerID {
		r = nil
	}

	gate := statemachine.Evaluate(r, statemachine.SurfaceDashboard)
	entry := &DashboardEntry{Restaurant: r, Gate: gate}
	if gate.RedirectToSelection {
		if err := m.selections.Clear(ctx, managerID, string(gate.State)); err != nil {
			return nil, err
		}
		entry.Warning = gate.Message
	}
	return entry, nil
}
