package config

import (
	"os"
	"strconv"
	"time"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type BrowserConfig struct {
	Headless       bool
	MaxFormSteps   int
	AttemptTimeout time.Duration
}

type CaptchaConfig struct {
	APIKey string
}

type LinkedInConfig struct {
	Email    string
	Password string
}

type AppConfig struct {
	Port          string
	Environment   string
	JWTSecret     string
	ScreenshotDir string
	Database      DatabaseConfig
	Browser       BrowserConfig
	Captcha       CaptchaConfig
	LinkedIn      LinkedInConfig
}

func GetDatabaseConfig() DatabaseConfig {
	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))

	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     port,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "autoapply"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func GetAppConfig() AppConfig {
	maxSteps, _ := strconv.Atoi(getEnv("MAX_FORM_STEPS", "10"))
	timeoutSeconds, _ := strconv.Atoi(getEnv("APPLY_TIMEOUT_SECONDS", "300"))

	return AppConfig{
		Port:          getEnv("PORT", "8081"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key"),
		ScreenshotDir: getEnv("SCREENSHOT_DIR", "./static"),
		Database:      GetDatabaseConfig(),
		Browser: BrowserConfig{
			Headless:       getEnv("BROWSER_HEADLESS", "true") == "true",
			MaxFormSteps:   maxSteps,
			AttemptTimeout: time.Duration(timeoutSeconds) * time.Second,
		},
		Captcha: CaptchaConfig{
			APIKey: getEnv("ANTICAPTCHA_API_KEY", ""),
		},
		LinkedIn: LinkedInConfig{
			Email:    getEnv("LINKEDIN_EMAIL", ""),
			Password: getEnv("LINKEDIN_PASSWORD", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
