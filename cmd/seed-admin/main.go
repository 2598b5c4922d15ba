package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the administrator account. Safe to run repeatedly: an existing
// admin with the same email is left untouched.
//
// Usage: ADMIN_PASSWORD=... go run ./cmd/seed-admin
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "")
	dbName := getEnv("DB_NAME", "food_donation_db")
	dbSSLMode := getEnv("DB_SSL_MODE", "disable")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("✅ Successfully connected to database")

	adminUsername := getEnv("ADMIN_USERNAME", "admin")
	adminEmail := getEnv("ADMIN_EMAIL", "admin@foodbridge.local")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		log.Fatal("ADMIN_PASSWORD must be set")
	}

	var existingID int64
	err = db.QueryRow("SELECT id FROM users WHERE email = $1", adminEmail).Scan(&existingID)
	if err == nil {
		log.Printf("⚠️ Admin account %s already exists (user %d), nothing to do", adminEmail, existingID)
		return
	}
	if err != sql.ErrNoRows {
		log.Fatal("Failed to check for existing admin:", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	tx, err := db.Begin()
	if err != nil {
		log.Fatal("Failed to begin transaction:", err)
	}
	defer tx.Rollback()

	var userID int64
	err = tx.QueryRow(`
		INSERT INTO users (username, email, password_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, true, NOW(), NOW())
		RETURNING id`,
		adminUsername, adminEmail, string(hash)).Scan(&userID)
	if err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	_, err = tx.Exec(`
		INSERT INTO user_profiles (user_id, role, is_approved, is_rejected, created_at, updated_at)
		VALUES ($1, 'Admin', true, false, NOW(), NOW())`,
		userID)
	if err != nil {
		log.Fatal("Failed to create admin profile:", err)
	}

	if err := tx.Commit(); err != nil {
		log.Fatal("Failed to commit:", err)
	}

	log.Printf("✅ Admin account %s created (user %d)", adminEmail, userID)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
