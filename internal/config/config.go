package config

import (
	"os"
	"strconv"
)

// Config is read from the environment once at startup. godotenv is loaded
// in main before this runs.
type Config struct {
	Port      string
	DBDSN     string
	RedisURL  string
	JWTSecret string

	AdminEmail    string
	AdminPassword string

	MailHost   string
	MailPort   int
	MailUser   string
	MailPass   string
	MailSender string
}

func Load() Config {
	return Config{
		Port:          getenv("PORT", "8080"),
		DBDSN:         os.Getenv("DB_DSN"),
		RedisURL:      os.Getenv("REDIS_URL"),
		JWTSecret:     getenv("JWT_SECRET", "dev-secret-change-me"),
		AdminEmail:    os.Getenv("SYSTEM_ADMIN_EMAIL"),
		AdminPassword: os.Getenv("SYSTEM_ADMIN_PASSWORD"),
		MailHost:      os.Getenv("MAIL_SERVER"),
		MailPort:      getenvInt("MAIL_PORT", 587),
		MailUser:      os.Getenv("MAIL_USERNAME"),
		MailPass:      os.Getenv("MAIL_PASSWORD"),
		MailSender:    getenv("MAIL_SENDER", "labstock@localhost"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
