package config

import (
	"os"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	MediaMTX MediaMTXConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret string
	Expiry string
}

type MediaMTXConfig struct {
	Host       string
	PublicHost string
	APIPort    string
	HTTPPort   string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "facility_monitoring"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			Expiry: getEnv("JWT_EXPIRY", "24h"),
		},
		MediaMTX: MediaMTXConfig{
			Host:       getEnv("MEDIAMTX_HOST", "localhost"),
			PublicHost: getEnv("MEDIAMTX_PUBLIC_HOST", "localhost"),
			APIPort:    getEnv("MEDIAMTX_API_PORT", "9997"),
			HTTPPort:   getEnv("MEDIAMTX_HTTP_PORT", "8888"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
