package handlers

import (
	"net/http"
	"strconv"

	"armenu-api/apperr"
	"armenu-api/catalog"
	"armenu-api/lifecycle"
	"armenu-api/middleware"
	"armenu-api/models"
	"armenu-api/qr"
	"armenu-api/statemachine"

	"github.com/gin-gonic/gin"
)

type StatusChangeRequest struct {
	Status models.RestaurantStatus `json:"status"`
	lifecycle.Credentials
}

// ListRestaurants returns the caller's restaurants
func (h *Handler) ListRestaurants(c *gin.Context) {
	restaurants, err := h.catalog.ListRestaurants(c.Request.Context(), middleware.GetManagerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":       len(restaurants),
		"restaurants": restaurants,
	})
}

// CreateRestaurant accepts JSON or a multipart form with an optional "logo" file
func (h *Handler) CreateRestaurant(c *gin.Context) {
	h.limitBody(c)
	var req catalog.NewRestaurant
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, apperr.Validation("invalid request body: "+err.Error()))
		return
	}
	logo, done, err := formFile(c, "logo")
	defer done()
	if err != nil {
		respondError(c, err)
		return
	}

	r, err := h.catalog.CreateRestaurant(c.Request.Context(), middleware.GetManagerID(c), req, logo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Restaurant created", "restaurant": r})
}

func (h *Handler) GetRestaurant(c *gin.Context) {
	r, err := h.catalog.GetRestaurant(c.Request.Context(), middleware.GetManagerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"restaurant":        r,
		"valid_next_states": statemachine.ValidTransitionsFrom(r.Status),
	})
}

// UpdateRestaurant applies a partial update; a new "logo" replaces the old one
func (h *Handler) UpdateRestaurant(c *gin.Context) {
	h.limitBody(c)
	var upd models.RestaurantUpdate
	if err := c.ShouldBind(&upd); err != nil {
		respondError(c, apperr.Validation("invalid request body: "+err.Error()))
		return
	}
	logo, done, err := formFile(c, "logo")
	defer done()
	if err != nil {
		respondError(c, err)
		return
	}

	r, err := h.catalog.UpdateRestaurant(c.Request.Context(), middleware.GetManagerID(c), c.Param("id"), upd, logo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant updated", "restaurant": r})
}

func (h *Handler) DeleteRestaurant(c *gin.Context) {
	if err := h.catalog.DeleteRestaurant(c.Request.Context(), middleware.GetManagerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant deleted"})
}

// ChangeStatus suspends or reactivates a restaurant. The manager must
// re-enter email and password every time; without "status" the current one
// is toggled.
func (h *Handler) ChangeStatus(c *gin.Context) {
	var req StatusChangeRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.lifecycle.RequestStatusChange(c.Request.Context(), middleware.GetManagerID(c), c.Param("id"), req.Status, req.Credentials)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Restaurant is now " + string(r.Status),
		"action":     statemachine.ActionFor(r.Status),
		"restaurant": r,
	})
}

// GetQR returns the public menu link encoded by the restaurant's QR code
func (h *Handler) GetQR(c *gin.Context) {
	r, err := h.catalog.GetRestaurant(c.Request.Context(), middleware.GetManagerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"restaurant_id": r.ID,
		"menu_url":      qr.MenuURL(h.publicBaseURL, r.ID),
		"png":           c.Request.URL.Path + ".png",
	})
}

// GetQRPNG renders the QR code; ?size= sets the edge length in pixels
func (h *Handler) GetQRPNG(c *gin.Context) {
	size := qr.DefaultSize
	if s := c.Query("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 64 || n > 2048 {
			respondError(c, apperr.Validation("size must be between 64 and 2048"))
			return
		}
		size = n
	}
	r, err := h.catalog.GetRestaurant(c.Request.Context(), middleware.GetManagerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	png, err := qr.PNG(qr.MenuURL(h.publicBaseURL, r.ID), size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="menu-qr.png"`)
	c.Data(http.StatusOK, "image/png", png)
}
