package handlers

import (
	"net/http"

	"armenu-api/middleware"

	"github.com/gin-gonic/gin"
)

type SelectionRequest struct {
	RestaurantID string `json:"restaurant_id"`
}

// SelectRestaurant records which restaurant the dashboard works on
func (h *Handler) SelectRestaurant(c *gin.Context) {
	var req SelectionRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.selections.Select(c.Request.Context(), middleware.GetManagerID(c), req.RestaurantID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant selected", "restaurant_id": req.RestaurantID})
}

// EnterDashboard re-checks the selected restaurant. A suspended or missing
// restaurant answers 409 with redirect_to_selection set in the gate.
func (h *Handler) EnterDashboard(c *gin.Context) {
	entry, err := h.lifecycle.EnterDashboard(c.Request.Context(), middleware.GetManagerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if !entry.Gate.Allowed() {
		status = http.StatusConflict
	}
	c.JSON(status, entry)
}
