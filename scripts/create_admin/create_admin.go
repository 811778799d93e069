package main

import (
	"fmt"
	"log"

	"facility-monitoring/be/config"
	"facility-monitoring/be/database"
	"facility-monitoring/be/models"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Creates the default admin account, or resets its password if it
// already exists. Useful after restoring a database dump.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	var user models.User
	if err := db.Where("email = ?", "admin@facility.demo").First(&user).Error; err != nil {
		fmt.Println("Admin user not found, creating...")

		admin := &models.User{
			Email:    "admin@facility.demo",
			Name:     "Admin User",
			Password: string(hashedPassword),
			Role:     models.RoleAdmin,
			Status:   "active",
		}
		if err := db.Create(admin).Error; err != nil {
			log.Fatalf("Failed to create admin user: %v", err)
		}

		fmt.Println("Admin user created successfully")
	} else {
		fmt.Println("Admin user found, resetting password...")

		user.Password = string(hashedPassword)
		user.Status = "active"
		if err := db.Save(&user).Error; err != nil {
			log.Fatalf("Failed to update password: %v", err)
		}

		fmt.Println("Admin password reset successfully")
	}

	fmt.Println("   Email: admin@facility.demo")
	fmt.Println("   Password: demo123")
}
