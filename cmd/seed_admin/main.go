package main

import (
	"context"
	"log"
	"os"

	"insurance-faq-be/internal/dto"
	"insurance-faq-be/internal/repository/implementation"
	"insurance-faq-be/internal/service"
	"insurance-faq-be/pkg/database"

	"github.com/joho/godotenv"
)

// Seeds the first admin account from SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("Error: SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD must be set")
	}

	db, err := database.NewGormDBFromDSN(os.Getenv("DB_CONNECTION_STRING"))
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	authService := service.NewAuthService(implementation.NewAdminRepository(db), os.Getenv("JWT_SECRET"))
	err = authService.Register(context.Background(), &dto.RegisterAdminRequest{
		Email:    email,
		Password: password,
		FullName: "Administrator",
	})
	if err != nil {
		log.Fatalf("Error: Failed to seed admin: %v", err)
	}

	log.Printf("Success: admin %s created.", email)
}
