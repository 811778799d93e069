package main

import (
	"fmt"
	"log"
	"os"

	"facility-monitoring/be/config"
	"facility-monitoring/be/database"
	"facility-monitoring/be/models"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Resets a user password from the command line:
//
//	go run scripts/reset_password.go <email> [new-password]
//
// The password defaults to demo123 when omitted.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if len(os.Args) < 2 {
		log.Fatal("usage: reset_password <email> [new-password]")
	}
	email := os.Args[1]
	password := "demo123"
	if len(os.Args) > 2 {
		password = os.Args[2]
	}

	cfg := config.Load()
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		log.Fatalf("User not found: %v", err)
	}

	user.Password = string(hashedPassword)
	if err := db.Save(&user).Error; err != nil {
		log.Fatalf("Failed to update password: %v", err)
	}

	fmt.Printf("Password updated successfully for %s\n", user.Email)
}
