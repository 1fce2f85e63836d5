// Package api - Authentication handlers
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/repario/server/internal/auth"
	"github.com/repario/server/internal/errors"
	"github.com/repario/server/internal/models"
	"gorm.io/gorm"
)

// LoginRateLimiter implements rate limiting for login attempts
type LoginRateLimiter struct {
	attempts map[string]*loginAttempt
	mu       sync.RWMutex
}

type loginAttempt struct {
	count     int
	firstTry  time.Time
	blockedAt *time.Time
}

// NewLoginRateLimiter creates a new rate limiter
func NewLoginRateLimiter() *LoginRateLimiter {
	rl := &LoginRateLimiter{
		attempts: make(map[string]*loginAttempt),
	}
	// Start cleanup goroutine
	go rl.cleanup()
	return rl
}

// Allow checks if a login attempt is allowed
func (rl *LoginRateLimiter) Allow(key string) (bool, int, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	attempt, exists := rl.attempts[key]

	if !exists {
		rl.attempts[key] = &loginAttempt{count: 1, firstTry: now}
		return true, 4, 0 // 5 attempts allowed, 4 remaining
	}

	// If blocked, check if block has expired (15 minutes)
	if attempt.blockedAt != nil {
		blockDuration := 15 * time.Minute
		if now.Sub(*attempt.blockedAt) < blockDuration {
			remaining := blockDuration - now.Sub(*attempt.blockedAt)
			return false, 0, remaining
		}
		// Block expired, reset
		attempt.count = 1
		attempt.firstTry = now
		attempt.blockedAt = nil
		return true, 4, 0
	}

	// Reset if window (5 minutes) has passed
	if now.Sub(attempt.firstTry) > 5*time.Minute {
		attempt.count = 1
		attempt.firstTry = now
		return true, 4, 0
	}

	// Increment and check
	attempt.count++
	if attempt.count > 5 {
		attempt.blockedAt = &now
		return false, 0, 15 * time.Minute
	}

	return true, 5 - attempt.count, 0
}

// Reset resets the attempts for a key (on successful login)
func (rl *LoginRateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.attempts, key)
}

// cleanup removes old entries periodically
func (rl *LoginRateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, attempt := range rl.attempts {
			// Remove entries older than 30 minutes
			if now.Sub(attempt.firstTry) > 30*time.Minute {
				delete(rl.attempts, key)
			}
		}
		rl.mu.Unlock()
	}
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	db          *gorm.DB
	jwtService  *auth.JWTService
	rateLimiter *LoginRateLimiter
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		db:          db,
		jwtService:  jwtService,
		rateLimiter: NewLoginRateLimiter(),
	}
}

// RegisterRequest represents registration data
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ProfileResponse represents profile data in responses (without password)
type ProfileResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Phone       string     `json:"phone"`
	LogoURL     string     `json:"logo_url,omitempty"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func toProfileResponse(p *models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID.String(),
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Phone:       p.Phone,
		LogoURL:     p.LogoURL,
		Role:        p.Role,
		LastLoginAt: p.LastLoginAt,
	}
}

// Register creates a new profile
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	// Check if email already exists
	var existingCount int64
	h.db.Model(&models.Profile{}).Where("email = ?", req.Email).Count(&existingCount)
	if existingCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	profile := models.Profile{
		Email:        req.Email,
		PasswordHash: passwordHash,
		DisplayName:  req.DisplayName,
		Phone:        req.Phone,
		Role:         "user",
		IsActive:     true,
	}
	if err := h.db.Create(&profile).Error; err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	tokens, err := h.jwtService.GenerateTokenPair(profile.ID, profile.Email, profile.Role)
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   toProfileResponse(&profile),
		"tokens": tokens,
	})
}

// Login authenticates a profile and returns tokens
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	// Rate limiting key: IP + email combination
	rateLimitKey := c.ClientIP() + ":" + req.Email

	allowed, remaining, retryAfter := h.rateLimiter.Allow(rateLimitKey)
	if !allowed {
		c.Header("Retry-After", retryAfter.String())
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":       "too many login attempts",
			"retry_after": retryAfter.Seconds(),
			"message":     "Please wait before trying again",
		})
		return
	}

	var profile models.Profile
	err := h.db.Where("email = ?", req.Email).First(&profile).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		} else {
			respondError(c, errors.NewInternalError(err))
		}
		return
	}

	if !profile.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account is disabled"})
		return
	}

	if !auth.CheckPassword(req.Password, profile.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":              "invalid credentials",
			"attempts_remaining": remaining,
		})
		return
	}

	// Successful login - reset rate limiter
	h.rateLimiter.Reset(rateLimitKey)

	tokens, err := h.jwtService.GenerateTokenPair(profile.ID, profile.Email, profile.Role)
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	// Update last login
	h.db.Model(&profile).Update("last_login_at", gorm.Expr("CURRENT_TIMESTAMP"))

	c.JSON(http.StatusOK, gin.H{
		"user":   toProfileResponse(&profile),
		"tokens": tokens,
	})
}

// Refresh reissues a token pair from a valid refresh token
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	claims, err := h.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	// Refresh claims only carry the user id; re-read the profile so the
	// reissued access token has current email and role
	var profile models.Profile
	if err := h.db.Where("id = ?", claims.UserID).First(&profile).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	if !profile.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account is disabled"})
		return
	}

	tokens, err := h.jwtService.RefreshTokenPair(req.RefreshToken, profile.Email, profile.Role)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// GetMe returns the authenticated profile
// GET /api/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	var profile models.Profile
	if err := h.db.Where("id = ?", currentUserID(c)).First(&profile).Error; err != nil {
		respondError(c, errors.NewNotFoundError("profile"))
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(&profile))
}

// UpdateMeRequest carries the editable profile attributes
type UpdateMeRequest struct {
	DisplayName *string `json:"display_name"`
	Phone       *string `json:"phone"`
	LogoURL     *string `json:"logo_url"`
}

// UpdateMe modifies the authenticated profile
// PUT /api/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var profile models.Profile
	if err := h.db.Where("id = ?", currentUserID(c)).First(&profile).Error; err != nil {
		respondError(c, errors.NewNotFoundError("profile"))
		return
	}

	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}
	if len(updates) > 0 {
		if err := h.db.Model(&profile).Updates(updates).Error; err != nil {
			respondError(c, errors.NewInternalError(err))
			return
		}
	}

	c.JSON(http.StatusOK, toProfileResponse(&profile))
}

// ChangePasswordRequest carries a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword verifies the current password and stores a new hash
// POST /api/me/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var profile models.Profile
	if err := h.db.Where("id = ?", currentUserID(c)).First(&profile).Error; err != nil {
		respondError(c, errors.NewNotFoundError("profile"))
		return
	}

	if !auth.CheckPassword(req.CurrentPassword, profile.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "current password is incorrect"})
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}
	if err := h.db.Model(&profile).Update("password_hash", hash).Error; err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
