// Package server configures the HTTP server and routes.
package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Blazer-YJJ/showcase-backend/internal/config"
	"github.com/Blazer-YJJ/showcase-backend/internal/handler"
	"github.com/Blazer-YJJ/showcase-backend/internal/middleware"
)

// RegisterRoutes sets up all HTTP routes on the Gin engine. Dependencies
// are passed explicitly; each handler gets exactly what it needs.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler()
	exportHandler := handler.NewExportHandler(deps.Exports, logger)
	catalogHandler := handler.NewCatalogHandler(deps.Products, deps.Categories, logger)
	configHandler := handler.NewConfigHandler(deps.Configs, deps.Company, logger)
	contentHandler := handler.NewContentHandler(deps.Banners, deps.Announcements, logger)

	// Public, unauthenticated.
	r.GET("/healthz", healthHandler.Healthz)

	api := r.Group("/api/v1")
	api.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Read surface and exports, behind regular API keys.
	authed := api.Group("")
	authed.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	authed.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	{
		authed.GET("/products", catalogHandler.ListProducts)
		authed.GET("/products/:id", catalogHandler.GetProduct)
		authed.GET("/categories", catalogHandler.ListCategories)
		authed.GET("/categories/:id", catalogHandler.GetCategory)

		authed.GET("/banners", contentHandler.ListBanners)
		authed.GET("/announcements", contentHandler.ListAnnouncements)

		authed.GET("/export-config", configHandler.GetExportConfig)
		authed.GET("/company-profile", configHandler.GetCompanyProfile)

		authed.POST("/exports", exportHandler.ExportAll)
		authed.POST("/exports/category/:id", exportHandler.ExportByCategory)
		authed.POST("/exports/search", exportHandler.ExportBySearch)
	}

	// Mutating configuration and content management, behind admin keys.
	admin := api.Group("/admin")
	admin.Use(middleware.AdminKeyAuth(cfg.Auth.AdminKeys))
	admin.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	{
		admin.PUT("/export-config", configHandler.PutExportConfig)
		admin.PUT("/company-profile", configHandler.PutCompanyProfile)

		admin.POST("/banners", contentHandler.CreateBanner)
		admin.DELETE("/banners/:id", contentHandler.DeleteBanner)

		admin.POST("/announcements", contentHandler.CreateAnnouncement)
		admin.DELETE("/announcements/:id", contentHandler.DeleteAnnouncement)
	}
}
