package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	MediaLocal  = "local"
	MediaGridFS = "gridfs"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port           string
	DatabaseDriver string
	DatabaseURL    string
	JWTSecret      string
	JWTIssuer      string
	JWTTTL         time.Duration
	CORSOrigins    []string

	MediaBackend  string
	MediaDir      string
	MediaBaseURL  string
	MongoURI      string
	MongoDatabase string
	MaxImageBytes int64
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:           fallback(os.Getenv("PORT"), "8080"),
		DatabaseDriver: strings.ToLower(fallback(os.Getenv("DATABASE_DRIVER"), DriverPostgres)),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:      fallback(os.Getenv("JWT_ISSUER"), "myrent-backend"),
		CORSOrigins:    parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		MediaBackend:   strings.ToLower(fallback(os.Getenv("MEDIA_BACKEND"), MediaLocal)),
		MediaDir:       fallback(os.Getenv("MEDIA_DIR"), "uploads"),
		MongoURI:       strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDatabase:  fallback(os.Getenv("MONGO_DATABASE"), "myrent"),
	}
	cfg.MediaBaseURL = strings.TrimRight(fallback(os.Getenv("MEDIA_BASE_URL"), "http://localhost:"+cfg.Port), "/")

	minutes := fallback(os.Getenv("JWT_TTL_MINUTES"), "60")
	if ttlMinutes, err := strconv.Atoi(minutes); err == nil && ttlMinutes > 0 {
		cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute
	} else {
		cfg.JWTTTL = 60 * time.Minute
	}

	megabytes := fallback(os.Getenv("MAX_IMAGE_MB"), "5")
	if mb, err := strconv.Atoi(megabytes); err == nil && mb > 0 {
		cfg.MaxImageBytes = int64(mb) << 20
	} else {
		cfg.MaxImageBytes = 5 << 20
	}

	switch cfg.DatabaseDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required")
		}
	case DriverSQLite:
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = "myrent.db"
		}
	default:
		return Config{}, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	switch cfg.MediaBackend {
	case MediaLocal:
	case MediaGridFS:
		if cfg.MongoURI == "" {
			return Config{}, errors.New("MONGO_URI is required for the gridfs media backend")
		}
	default:
		return Config{}, fmt.Errorf("unsupported MEDIA_BACKEND %q", cfg.MediaBackend)
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
