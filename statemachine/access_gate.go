package statemachine

import "armenu-api/models"

// Surface is who is looking at a restaurant
type Surface string

const (
	SurfacePublic    Surface = "public"    // customer menu and product pages
	SurfaceDashboard Surface = "dashboard" // the manager's dashboard
)

type GateState string

const (
	GateOpen       GateState = "open"
	GateNotFound   GateState = "not_found"
	GateSuspended  GateState = "suspended"  // public surface, blocked
	GateRestricted GateState = "restricted" // dashboard, suspended restaurant
)

// Decision is the outcome of Evaluate
type Decision struct {
	State                GateState `json:"state"`
	Message              string    `json:"message,omitempty"`
	SuspendedBadge       bool      `json:"suspended_badge"`
	ReactivationRequired bool      `json:"reactivation_required"`
	RedirectToSelection  bool      `json:"redirect_to_selection"`
}

// Allowed reports whether the surface may show the restaurant's content
func (d Decision) Allowed() bool {
	return d.State == GateOpen
}

// Evaluate classifies access to a restaurant. It has no side effects; a nil
// restaurant means it was not found.
func Evaluate(r *models.Restaurant, surface Surface) Decision {
	if r == nil {
		return Decision{
			State:               GateNotFound,
			Message:             "The restaurant you are looking for does not exist.",
			RedirectToSelection: surface == SurfaceDashboard,
		}
	}
	if r.Status != models.StatusNotAvailable {
		return Decision{State: GateOpen}
	}
	if surface == SurfaceDashboard {
		return Decision{
			State:                GateRestricted,
			Message:              "This restaurant has been suspended. Select another restaurant or reactivate it.",
			SuspendedBadge:       true,
			ReactivationRequired: true,
			RedirectToSelection:  true,
		}
	}
	return Decision{
		State:          GateSuspended,
		Message:        r.Name + " is temporarily suspended. Its products are not available right now.",
		SuspendedBadge: true,
	}
}
