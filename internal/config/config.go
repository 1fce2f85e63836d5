// Package config provides configuration management for Repario
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Database DatabaseConfig
	WhatsApp WhatsAppConfig
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port         string
	Environment  string // development or production
	APIURL       string
	ReadTimeout  int
	WriteTimeout int
}

// AuthConfig holds authentication settings
type AuthConfig struct {
	JWTSecret    string
	TokenExpiry  int // days, applies to both access and refresh tokens
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
	// Domains whose subdomains are accepted (matched as *.domain)
	AllowedDomains []string
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// WhatsAppConfig holds the external messaging API settings
type WhatsAppConfig struct {
	APIURL string
	Token  string
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment != "production"
}

// Load reads configuration from the environment, optionally seeded
// from a .env file
func Load() *Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8090"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			APIURL:       getEnv("API_URL", "http://localhost:8090"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 30),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 30),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("JWT_SECRET", ""),
			TokenExpiry: getEnvInt("JWT_EXPIRY_DAYS", 30),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
			AllowedDomains: splitList(getEnv("CORS_ALLOWED_DOMAINS", "")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "repario"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "repario"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		WhatsApp: WhatsAppConfig{
			APIURL: getEnv("WHATSAPP_API_URL", ""),
			Token:  getEnv("WHATSAPP_API_TOKEN", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// splitList splits a comma-separated string into a trimmed slice
func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
