package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"message_wall/internal/common/security"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DatabaseURL string
	BcryptCost  int

	CORSAllowedOrigins []string
	UploadDir          string
	StaticDir          string
	MaxUploadBytes     int64

	StorageBackend string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3PublicURL    string

	DefaultAdminUsername string
	DefaultAdminPassword string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment, after overlaying a .env file
// if one is present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		APIPort:              getEnv("API_PORT", "8001"),
		JWTKey:               []byte(getEnv("JWT_SECRET", "")),
		JWTExp:               time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 30*24)) * time.Hour,
		DatabaseURL:          getEnv("DATABASE_URL", "sqlite:///./message_wall.db"),
		BcryptCost:           getEnvAsInt("BCRYPT_COST", 10),
		CORSAllowedOrigins:   getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		UploadDir:            getEnv("UPLOAD_DIR", "uploads"),
		StaticDir:            getEnv("STATIC_DIR", "static"),
		MaxUploadBytes:       int64(getEnvAsInt("MAX_UPLOAD_MB", 5)) << 20,
		StorageBackend:       getEnv("STORAGE_BACKEND", "local"),
		S3Bucket:             getEnv("S3_BUCKET", ""),
		S3Region:             getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:           getEnv("S3_ENDPOINT", ""),
		S3AccessKey:          getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:          getEnv("S3_SECRET_KEY", ""),
		S3PublicURL:          getEnv("S3_PUBLIC_URL", ""),
		DefaultAdminUsername: getEnv("DEFAULT_ADMIN_USERNAME", "admin"),
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", "admin123"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "text"),
	}

	if len(cfg.JWTKey) == 0 {
		return nil, fmt.Errorf("JWT_SECRET must be set: %w", security.ErrMissingSecret)
	}
	if cfg.StorageBackend == "s3" && cfg.S3Bucket == "" {
		return nil, errors.New("S3_BUCKET must be set when STORAGE_BACKEND=s3")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
