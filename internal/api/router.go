// Package api - Router setup
package api

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/repario/server/internal/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, authHandler *AuthHandler) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.Use(cors.New(buildCORSConfig(cfg)))

	// Public endpoints (no auth required)
	r.GET("/config", handler.GetConfig)
	r.GET("/api/health", handler.Health)

	// ==========================================================================
	// AUTH API - Authentication endpoints (no auth required)
	// ==========================================================================
	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh", authHandler.Refresh)
	}

	// ==========================================================================
	// APPLICATION API - Bearer-token gated, tenant-per-user scoped
	// ==========================================================================
	api := r.Group("/api")
	api.Use(handler.AuthMiddleware())
	{
		// Profile
		api.GET("/me", authHandler.GetMe)
		api.PUT("/me", authHandler.UpdateMe)
		api.POST("/me/password", authHandler.ChangePassword)

		// Customers
		api.GET("/customers", handler.ListCustomers)
		api.POST("/customers", handler.CreateCustomer)
		api.GET("/customers/:id", handler.GetCustomer)
		api.PUT("/customers/:id", handler.UpdateCustomer)
		api.DELETE("/customers/:id", handler.DeleteCustomer)

		// Catalog items
		api.GET("/items", handler.ListItems)
		api.POST("/items", handler.CreateItem)
		api.GET("/items/categories", handler.ListItemCategories)
		api.POST("/items/bulk-delete", handler.BulkDeleteItems)
		api.POST("/items/bulk-category", handler.BulkSetItemCategory)
		api.GET("/items/:id", handler.GetItem)
		api.PUT("/items/:id", handler.UpdateItem)
		api.DELETE("/items/:id", handler.DeleteItem)

		// Layouts and their designer tree
		api.GET("/layouts", handler.ListLayouts)
		api.POST("/layouts", handler.CreateLayout)
		api.GET("/layouts/:id", handler.GetLayout)
		api.PUT("/layouts/:id", handler.UpdateLayout)
		api.DELETE("/layouts/:id", handler.DeleteLayout)
		api.POST("/layouts/:id/default", handler.SetDefaultLayout)
		api.POST("/layouts/:id/duplicate", handler.DuplicateLayout)
		api.POST("/layouts/:id/sections", handler.CreateSection)
		api.PUT("/layouts/:id/sections/reorder", handler.ReorderSections)
		api.PUT("/layouts/sections/:sectionId", handler.UpdateSection)
		api.DELETE("/layouts/sections/:sectionId", handler.DeleteSection)
		api.POST("/layouts/sections/:sectionId/copy", handler.CopySection)
		api.POST("/layouts/sections/:sectionId/fields", handler.CreateField)
		api.PUT("/layouts/fields/:fieldId", handler.UpdateField)
		api.DELETE("/layouts/fields/:fieldId", handler.DeleteField)
		api.POST("/layouts/fields/:fieldId/copy", handler.CopyField)
		api.POST("/layouts/fields/:fieldId/options", handler.CreateOption)
		api.PUT("/layouts/options/:optionId", handler.UpdateOption)
		api.DELETE("/layouts/options/:optionId", handler.DeleteOption)

		// Invoices
		api.GET("/invoices", handler.ListInvoices)
		api.POST("/invoices", handler.CreateInvoice)
		api.GET("/invoices/:id", handler.GetInvoice)
		api.PUT("/invoices/:id", handler.UpdateInvoice)
		api.PATCH("/invoices/:id/status", handler.UpdateInvoiceStatus)

		// Status notification settings
		api.GET("/settings/status", handler.ListStatusSettings)
		api.PUT("/settings/status/:status", handler.UpdateStatusSetting)
	}

	// ==========================================================================
	// ADMIN API - Account management, admin role required
	// ==========================================================================
	admin := r.Group("/api/admin")
	admin.Use(handler.AuthMiddleware())
	admin.Use(handler.RequireAdminMiddleware())
	{
		admin.GET("/users", authHandler.ListProfiles)
		admin.PATCH("/users/:id/active", authHandler.SetProfileActive)
	}

	return r
}

// buildCORSConfig assembles the CORS policy: explicit origins from
// config, any subdomain of the configured domains, and local origins in
// development only.
// When credentials are used, specific origins must be provided (not *)
func buildCORSConfig(cfg *config.Config) cors.Config {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	allowed := map[string]bool{}
	for _, origin := range cfg.CORS.AllowedOrigins {
		allowed[origin] = true
	}

	// One pattern per configured domain, matching the apex and any
	// subdomain over http or https
	patterns := make([]*regexp.Regexp, 0, len(cfg.CORS.AllowedDomains))
	for _, domain := range cfg.CORS.AllowedDomains {
		pattern := fmt.Sprintf(`^https?://([a-z0-9-]+\.)*%s(:\d+)?$`, regexp.QuoteMeta(domain))
		patterns = append(patterns, regexp.MustCompile(pattern))
	}

	isDevelopment := cfg.IsDevelopment()
	corsConfig.AllowOriginFunc = func(origin string) bool {
		if allowed[origin] {
			return true
		}
		lower := strings.ToLower(origin)
		for _, pattern := range patterns {
			if pattern.MatchString(lower) {
				return true
			}
		}
		if isDevelopment && isLocalOrigin(lower) {
			return true
		}
		return false
	}

	return corsConfig
}

// isLocalOrigin reports whether an origin points at localhost or a
// private network address
func isLocalOrigin(origin string) bool {
	host := strings.TrimPrefix(origin, "http://")
	host = strings.TrimPrefix(host, "https://")
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	if host == "localhost" || host == "127.0.0.1" || host == "[::1]" {
		return true
	}
	return strings.HasPrefix(host, "192.168.") ||
		strings.HasPrefix(host, "10.") ||
		strings.HasPrefix(host, "172.16.")
}
