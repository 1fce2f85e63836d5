// Package api contains the HTTP API handlers for Repario
package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/repario/server/internal/auth"
	"github.com/repario/server/internal/config"
	"github.com/repario/server/internal/engine"
	"github.com/repario/server/internal/errors"
	"github.com/repario/server/internal/notify"
)

// Version is stamped at build time
var Version = "1.0.0"

// Handler contains the resource API handlers
type Handler struct {
	cfg        *config.Config
	jwtService *auth.JWTService
	customers  *engine.CustomerEngine
	items      *engine.ItemEngine
	layouts    *engine.LayoutEngine
	invoices   *engine.InvoiceEngine
	statuses   *engine.StatusEngine
	notifier   notify.Notifier
}

// NewHandler creates a new API handler
func NewHandler(
	cfg *config.Config,
	jwtService *auth.JWTService,
	customers *engine.CustomerEngine,
	items *engine.ItemEngine,
	layouts *engine.LayoutEngine,
	invoices *engine.InvoiceEngine,
	statuses *engine.StatusEngine,
	notifier notify.Notifier,
) *Handler {
	return &Handler{
		cfg:        cfg,
		jwtService: jwtService,
		customers:  customers,
		items:      items,
		layouts:    layouts,
		invoices:   invoices,
		statuses:   statuses,
		notifier:   notifier,
	}
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

// AuthMiddleware validates the bearer token and stores the caller's
// identity in the request context
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		claims, err := h.jwtService.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireAdminMiddleware gates admin-only endpoints on the role claim
func (h *Handler) RequireAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, _ := c.Get("role"); role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// =============================================================================
// PUBLIC ENDPOINTS
// =============================================================================

// Health returns service liveness
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": Version})
}

// GetConfig returns the public client configuration
// GET /config
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"api_url":     h.cfg.Server.APIURL,
		"environment": h.cfg.Server.Environment,
		"version":     Version,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// currentUserID returns the authenticated caller's id
func currentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet("user_id").(uuid.UUID)
}

// parseIDParam parses a uuid path parameter
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// respondError writes a structured error response
func respondError(c *gin.Context, err error) {
	status, response := errors.ToHTTPError(err)
	c.JSON(status, response)
}
