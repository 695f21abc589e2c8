package handlers

import (
	"net/http"

	"armenu-api/apperr"
	"armenu-api/catalog"
	"armenu-api/middleware"
	"armenu-api/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context(), middleware.GetManagerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(products),
		"products": products,
	})
}

// CreateProduct accepts a multipart form with optional "image", "model_glb"
// and "model_usdz" files
func (h *Handler) CreateProduct(c *gin.Context) {
	h.limitBody(c)
	var req catalog.NewProduct
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, apperr.Validation("invalid request body: "+err.Error()))
		return
	}

	var files catalog.ProductFiles
	for field, dst := range map[string]**catalog.Upload{
		"image":      &files.Image,
		"model_glb":  &files.ModelGLB,
		"model_usdz": &files.ModelUSDZ,
	} {
		u, done, err := formFile(c, field)
		defer done()
		if err != nil {
			respondError(c, err)
			return
		}
		*dst = u
	}

	p, err := h.catalog.CreateProduct(c.Request.Context(), middleware.GetManagerID(c), c.Param("id"), req, files)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product added", "product": p})
}

func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.catalog.GetProduct(c.Request.Context(), middleware.GetManagerID(c), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	var upd models.ProductUpdate
	if !bindJSON(c, &upd) {
		return
	}
	p, err := h.catalog.UpdateProduct(c.Request.Context(), middleware.GetManagerID(c), c.Param("productId"), upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "product": p})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Request.Context(), middleware.GetManagerID(c), c.Param("productId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
