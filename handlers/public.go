package handlers

import (
	"net/http"

	"armenu-api/statemachine"

	"github.com/gin-gonic/gin"
)

func gateStatus(d statemachine.Decision) int {
	switch d.State {
	case statemachine.GateOpen:
		return http.StatusOK
	case statemachine.GateNotFound:
		return http.StatusNotFound
	default:
		return http.StatusForbidden
	}
}

// GetMenu returns the public menu of a restaurant (no auth needed).
// ?category= picks a category; unknown values fall back to the default.
func (h *Handler) GetMenu(c *gin.Context) {
	view, err := h.menu.PublicMenu(c.Request.Context(), c.Param("id"), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(gateStatus(view.Gate), view)
}

// GetMenuProduct returns a single product for the AR viewer
func (h *Handler) GetMenuProduct(c *gin.Context) {
	view, err := h.menu.PublicProduct(c.Request.Context(), c.Param("id"), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(gateStatus(view.Gate), view)
}

// GetStateMachineInfo returns the restaurant status machine for informational purposes
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state_machine":        statemachine.GetAllTransitions(),
		"requires_credentials": true,
		"description":          "Restaurant availability lifecycle",
	})
}
