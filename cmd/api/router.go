package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"scholarsync-backend/internal/shared/middleware"
	"scholarsync-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthCheckHandler(c))

		setupDirectoryRoutes(v1, c)
	}

	return router
}

// ========================================
// DIRECTORY ROUTES
// ========================================
// Everything under /directory touches catalog data, so all routes
// require an authenticated operator.
func setupDirectoryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	directory := v1.Group("/directory")
	directory.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		directory.GET("/persons", c.PersonHandler.Search)
		directory.POST("/persons/import", c.PersonHandler.Import)
		directory.POST("/records/enrich", c.PersonHandler.Enrich)
		directory.GET("/status", c.PersonHandler.Status)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
		defer cancel()

		dbStatus := "up"
		if err := c.DB.HealthCheck(checkCtx); err != nil {
			dbStatus = "down"
		}

		cacheStatus := "up"
		if err := c.Cache.Ping(checkCtx); err != nil {
			cacheStatus = "down"
		}

		status := http.StatusOK
		if dbStatus == "down" {
			status = http.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"status":   dbStatus,
			"version":  c.Config.App.Version,
			"database": dbStatus,
			"cache":    cacheStatus,
		})
	}
}
