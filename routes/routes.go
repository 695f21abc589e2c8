package routes

import (
	"armenu-api/handlers"
	"armenu-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, auth *middleware.Auth, storageRoot string) {
	// ── Stored files (logos, images, 3D models) ────────────────────
	if storageRoot != "" {
		r.Static("/storage", storageRoot)
	}

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)

		// Customer menu and AR product pages (no auth needed)
		public.GET("/menu/:id", h.GetMenu)
		public.GET("/menu/:id/products/:productId", h.GetMenuProduct)

		// State machine info
		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Manager routes ─────────────────────────────────────────────
	manager := r.Group("/api/manager")
	manager.Use(auth.AuthRequired())
	{
		manager.GET("/profile", h.GetProfile)
		manager.PUT("/profile", h.UpdateProfile)

		// Restaurant management
		manager.GET("/restaurants", h.ListRestaurants)
		manager.POST("/restaurants", middleware.InFlight(), h.CreateRestaurant)
		manager.GET("/restaurants/:id", h.GetRestaurant)
		manager.PUT("/restaurants/:id", middleware.InFlight(), h.UpdateRestaurant)
		manager.DELETE("/restaurants/:id", middleware.InFlight(), h.DeleteRestaurant)
		manager.POST("/restaurants/:id/status", middleware.InFlight(), h.ChangeStatus)
		manager.GET("/restaurants/:id/qr", h.GetQR)
		manager.GET("/restaurants/:id/qr.png", h.GetQRPNG)

		// Menu management
		manager.GET("/restaurants/:id/products", h.ListProducts)
		manager.POST("/restaurants/:id/products", middleware.InFlight(), h.CreateProduct)
		manager.GET("/products/:productId", h.GetProduct)
		manager.PUT("/products/:productId", middleware.InFlight(), h.UpdateProduct)
		manager.DELETE("/products/:productId", middleware.InFlight(), h.DeleteProduct)

		// Dashboard session
		manager.POST("/selection", h.SelectRestaurant)
		manager.GET("/dashboard", h.EnterDashboard)
	}
}
