package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabasePath    string
	JWTSecret       string
	TokenTTLMinutes int
	DemoUserEmail   string
	LogLevel        string
	Port            string
}

func Load() (Config, error) {
	// A local .env is optional; real deployments set the environment directly.
	godotenv.Load()

	config := Config{
		DatabasePath:  envOrDefault("DATABASE_PATH", "./data/meal-planner.db"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		DemoUserEmail: envOrDefault("DEMO_USER_EMAIL", "demo@mealplanner.local"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		Port:          envOrDefault("PORT", "8080"),
	}

	ttl, err := strconv.Atoi(envOrDefault("TOKEN_TTL_MINUTES", "1440"))
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("TOKEN_TTL_MINUTES must be a positive integer")
	}
	config.TokenTTLMinutes = ttl

	if config.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return config, nil
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
