// Repario - Invoicing for small workshops
package main

import (
	"bufio"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/repario/server/internal/api"
	"github.com/repario/server/internal/auth"
	"github.com/repario/server/internal/config"
	"github.com/repario/server/internal/database"
	"github.com/repario/server/internal/engine"
	"github.com/repario/server/internal/models"
	"github.com/repario/server/internal/notify"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if len(os.Args) > 1 {
		runCLI()
		return
	}
	startServer()
}

func startServer() {
	cfg := config.Load()
	fmt.Printf("Repario %s - Starting...\n", api.Version)

	db := connectDB(cfg)
	log.Println("Database connected")

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations complete")

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	customerEngine := engine.NewCustomerEngine(db, nil)
	itemEngine := engine.NewItemEngine(db)
	layoutEngine := engine.NewLayoutEngine(db)
	invoiceEngine := engine.NewInvoiceEngine(db, customerEngine, layoutEngine)
	statusEngine := engine.NewStatusEngine(db)
	notifier := notify.NewWhatsAppNotifier(cfg.WhatsApp.APIURL, cfg.WhatsApp.Token)

	handler := api.NewHandler(cfg, jwtService, customerEngine, itemEngine, layoutEngine, invoiceEngine, statusEngine, notifier)
	authHandler := api.NewAuthHandler(db, jwtService)
	router := api.SetupRouter(cfg, handler, authHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func connectDB(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	return db
}

// CLI
func runCLI() {
	cmd := os.Args[1]
	switch cmd {
	case "serve":
		startServer()
	case "setup":
		runSetup()
	case "migrate":
		db := connectDB(config.Load())
		if err := database.RunMigrations(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		fmt.Println("Migrations complete")
	case "user":
		runUserCmd()
	default:
		printUsage()
	}
}

func printUsage() {
	fmt.Println(`Usage: repario <command>
Commands:
  setup                                Interactive setup wizard
  serve                                Start server
  migrate                              Run migrations
  user list                            List profiles
  user create --email= --password=     Create profile
  user promote --email=                Grant admin role`)
}

func runUserCmd() {
	if len(os.Args) < 3 {
		printUsage()
		return
	}
	db := connectDB(config.Load())
	switch os.Args[2] {
	case "list":
		var profiles []models.Profile
		db.Order("created_at").Find(&profiles)
		for _, p := range profiles {
			fmt.Printf("%s <%s> [%s]\n", p.DisplayName, p.Email, p.Role)
		}
	case "create":
		email := getFlag("--email")
		password := getFlag("--password")
		if email == "" || password == "" {
			printUsage()
			return
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			log.Fatalf("Failed: %v", err)
		}
		profile := models.Profile{
			Email:        email,
			PasswordHash: hash,
			DisplayName:  getFlag("--name"),
			Role:         "user",
			IsActive:     true,
		}
		if err := db.Create(&profile).Error; err != nil {
			log.Fatalf("Failed: %v", err)
		}
		fmt.Printf("Profile created: %s\n", email)
	case "promote":
		email := getFlag("--email")
		if email == "" {
			printUsage()
			return
		}
		result := db.Model(&models.Profile{}).Where("email = ?", email).Update("role", "admin")
		if result.Error != nil {
			log.Fatalf("Failed: %v", result.Error)
		}
		if result.RowsAffected == 0 {
			log.Fatal("Profile not found")
		}
		fmt.Printf("Profile promoted: %s\n", email)
	}
}

func getFlag(name string) string {
	prefix := name + "="
	for _, arg := range os.Args {
		if len(arg) > len(prefix) && arg[:len(prefix)] == prefix {
			return arg[len(prefix):]
		}
	}
	return ""
}

// Interactive Setup
func runSetup() {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("\n=== Repario Setup Wizard ===")
	fmt.Println()

	// Database configuration
	fmt.Println("Database Configuration:")
	dbHost := prompt(reader, "  DB Host", "localhost")
	dbPort := prompt(reader, "  DB Port", "5432")
	dbUser := prompt(reader, "  DB User", "repario")
	dbPassword := promptPassword(reader, "  DB Password")
	dbName := prompt(reader, "  DB Name", "repario")

	// Set environment and test connection
	os.Setenv("DB_HOST", dbHost)
	os.Setenv("DB_PORT", dbPort)
	os.Setenv("DB_USER", dbUser)
	os.Setenv("DB_PASSWORD", dbPassword)
	os.Setenv("DB_NAME", dbName)

	fmt.Println("\nConnecting to database...")
	db := connectDB(config.Load())
	fmt.Println("Connected!")

	fmt.Println("Running migrations...")
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	fmt.Println("Migrations complete!")

	// Create admin profile
	fmt.Println("\nAdmin Account:")
	adminEmail := prompt(reader, "  Email", "")
	adminPassword := promptPassword(reader, "  Password")
	adminName := prompt(reader, "  Display Name", "Admin")

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	profile := models.Profile{
		Email:        adminEmail,
		PasswordHash: hash,
		DisplayName:  adminName,
		Role:         "admin",
		IsActive:     true,
	}
	if err := db.Create(&profile).Error; err != nil {
		log.Fatalf("Failed to create profile: %v", err)
	}
	fmt.Printf("Admin '%s' created!\n", adminEmail)

	jwtSecret := generateSecret(32)

	// Server config
	fmt.Println("\nServer Configuration:")
	port := prompt(reader, "  Port", "8090")

	// Print systemd environment
	fmt.Println("\n=== Setup Complete ===")
	fmt.Println("\nAdd these to your systemd service or docker-compose:")
	fmt.Println("----------------------------------------")
	fmt.Printf("DB_HOST=%s\n", dbHost)
	fmt.Printf("DB_PORT=%s\n", dbPort)
	fmt.Printf("DB_USER=%s\n", dbUser)
	fmt.Printf("DB_PASSWORD=%s\n", dbPassword)
	fmt.Printf("DB_NAME=%s\n", dbName)
	fmt.Printf("JWT_SECRET=%s\n", jwtSecret)
	fmt.Printf("PORT=%s\n", port)
	fmt.Println("----------------------------------------")
	fmt.Printf("\nStart server: repario serve\n")
	fmt.Printf("Login: %s / [your password]\n", adminEmail)
}

func prompt(reader *bufio.Reader, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("%s: ", label)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}
	return input
}

func promptPassword(reader *bufio.Reader, label string) string {
	fmt.Printf("%s: ", label)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func generateSecret(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return base64.StdEncoding.EncodeToString(b)[:length]
}
