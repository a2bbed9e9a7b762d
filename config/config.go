package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBName    string
	JWTKey    string
	SaltRound int

	// Certificate artifact storage
	GCSBucket          string // empty = local filesystem only
	GCSCredentialsJSON string // explicit service account JSON; empty = ADC
	CertificatesDir    string // local fallback directory
	CertificateSalt    string // salt for deterministic certificate ids
	PublicBaseURL      string // prefix for server-served download URLs

	// Learning resource source (YouTube Data API)
	YouTubeApiKey string
	YouTubeApiURL string

	EmailSender string
	Password    string // SMTP Password
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	// Initialize AppConfig with values from environment variables
	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		DBName:    getEnv("DB_NAME", "emirimo"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		GCSBucket:          getEnv("GCS_BUCKET", ""),
		GCSCredentialsJSON: getEnv("GCS_CREDENTIALS_JSON", ""),
		CertificatesDir:    getEnv("CERTIFICATES_DIR", "./certificates"),
		CertificateSalt:    getEnv("CERTIFICATE_SALT", "emirimo-cert-v1"),
		PublicBaseURL:      getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),

		YouTubeApiKey: getEnv("YOUTUBE_API_KEY", ""),
		YouTubeApiURL: getEnv("YOUTUBE_API_URL", "https://www.googleapis.com/youtube/v3"),

		EmailSender: getEnv("EMAIL_SENDER", "defaultSecret"),
		Password:    getEnv("PASSWORD", "defaultSecret"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.GCSBucket == "" {
		log.Println("Warning: GCS_BUCKET not set. Certificates will be stored on the local filesystem only.")
	}
	if AppConfig.YouTubeApiKey == "" {
		log.Println("Warning: YOUTUBE_API_KEY not set. External learning resources cannot be resolved.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
