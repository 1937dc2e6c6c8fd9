package Config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all server configuration, read once at startup.
type Config struct {
	Port string

	// Database configuration
	DBType string // sqlite or mysql
	DBPath string // sqlite file path
	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// Session configuration
	JWTSecret     string
	SessionDays   int
	SessionCookie string
}

// Load reads configuration from .env (if present) and the environment.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	return &Config{
		Port:          getEnv("PORT", "8000"),
		DBType:        getEnv("DB_TYPE", "sqlite"),
		DBPath:        getEnv("DB_PATH", "groundcheck.db"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBName:        getEnv("DB_NAME", "groundcheck"),
		DBUser:        getEnv("DB_USER", ""),
		DBPass:        getEnv("DB_PASSWORD", ""),
		JWTSecret:     getEnv("JWT_SECRET", "sge-secret-key-2024-palm-oil"),
		SessionDays:   getEnvAsInt("SESSION_DAYS", 7),
		SessionCookie: getEnv("SESSION_COOKIE", "sgs_token"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
