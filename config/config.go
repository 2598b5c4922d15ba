package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Admin    AdminConfig
	External ExternalConfig
}

type ServerConfig struct {
	Port          string
	GinMode       string
	SessionSecret string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type SMTPConfig struct {
	Host     string
	Port     int
	Sender   string
	Email    string
	Password string
}

type AdminConfig struct {
	InviteCode string
	Email      string
}

type ExternalConfig struct {
	GeminiAPIKey  string
	IPStackAPIKey string
}

var AppConfig *Config

func Load() {
	AppConfig = &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			GinMode:       getEnv("GIN_MODE", "debug"),
			SessionSecret: getEnv("SESSION_SECRET", "change-this-session-secret"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "food_donation_db"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "your-super-secret-jwt-key-change-this-in-production"),
			ExpiryHours: getEnvAsInt("JWT_EXPIRY_HOURS", 24),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Sender:   getEnv("SMTP_SENDER_NAME", "FoodBridge"),
			Email:    getEnv("SMTP_AUTH_EMAIL", ""),
			Password: getEnv("SMTP_AUTH_PASSWORD", ""),
		},
		Admin: AdminConfig{
			InviteCode: getEnv("ADMIN_INVITE_CODE", ""),
			Email:      getEnv("ADMIN_EMAIL", "admin@foodbridge.local"),
		},
		External: ExternalConfig{
			GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
			IPStackAPIKey: getEnv("IPSTACK_API_KEY", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
