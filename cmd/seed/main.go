package main

import (
	"fmt"
	"log"
	"os"

	"github.com/atelier-studio/backend/internal/config"
	"github.com/atelier-studio/backend/internal/database"
	"github.com/atelier-studio/backend/internal/models"
)

// Seeds the database schema and a default admin account so a fresh install
// can log into the back-office.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.SubmissionLogEntry{},
		&models.ContactSubmission{},
		&models.EducationSubmission{},
		&models.User{},
		&models.NotificationProvider{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	adminEmail := os.Getenv("ATELIER_DEFAULT_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@localhost"
	}
	adminPassword := os.Getenv("ATELIER_DEFAULT_ADMIN_PASSWORD")

	var existing models.User
	if err := db.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		fmt.Printf("  User already exists: %s\n", existing.Email)
		return
	}

	user := models.User{
		Email:   adminEmail,
		Name:    "Administrator",
		Role:    "admin",
		Enabled: true,
	}
	if adminPassword != "" {
		if err := user.SetPassword(adminPassword); err != nil {
			log.Fatal("Failed to hash admin password:", err)
		}
	} else {
		// Non-loginable placeholder until a password is set explicitly.
		user.PasswordHash = "$2a$10$placeholder_not_a_valid_hash"
	}

	if err := db.Create(&user).Error; err != nil {
		log.Fatal("Failed to seed admin user:", err)
	}
	fmt.Printf("✓ Created default admin user: %s\n", user.Email)
}
