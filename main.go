package main

import (
	"context"
	"net/http"
	"time"

	"armenu-api/backend"
	"armenu-api/catalog"
	"armenu-api/config"
	"armenu-api/handlers"
	"armenu-api/lifecycle"
	"armenu-api/logger"
	"armenu-api/menu"
	"armenu-api/middleware"
	"armenu-api/routes"
	"armenu-api/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const orphanSweepLimit = 100

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile}); err != nil {
		logrus.WithError(err).Fatal("invalid log configuration")
	}
	gin.SetMode(cfg.GinMode)

	// Initialize database and object storage
	db, err := config.InitDB(cfg.DatabasePath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	store := backend.NewGormStore(db)
	files, err := backend.NewFileStorage(cfg.StorageRoot, cfg.StorageBaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to prepare object storage")
	}

	selections := session.NewSelections(store, store)
	cat := catalog.New(store, store, files, store)

	// Retry file removals that failed in a previous run
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := cat.SweepOrphans(ctx, orphanSweepLimit); err != nil {
		logrus.WithError(err).Warn("orphan sweep failed")
	}
	cancel()

	auth := middleware.NewAuth(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	h := handlers.New(handlers.Options{
		Identity:      store,
		Auth:          auth,
		Catalog:       cat,
		Lifecycle:     lifecycle.NewManager(store, store, selections),
		Selections:    selections,
		Menu:          menu.NewService(store, store, files, nil),
		PublicBaseURL: cfg.PublicBaseURL,
		MaxUploadMB:   cfg.MaxUploadMB,
	})

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(gin.Recovery(), logger.GinMiddleware())

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "AR Menu API",
			"version": "1.0.0",
		})
	})

	// Register all routes
	routes.SetupRoutes(r, h, auth, files.Root())

	logrus.WithField("port", cfg.Port).Info("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("failed to start server")
	}
}
