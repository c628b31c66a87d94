package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr              string
	Env               string
	DatabaseURL       string
	DataFile          string
	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string
	ReconcileInterval time.Duration
	ShutdownTimeout   time.Duration
	CORSOrigins       string

	CloudWatchEnabled   bool
	CloudWatchNamespace string
	AWSRegion           string
	AWSEndpoint         string
}

// Load reads configuration from environment variables, after merging a
// .env file from the working directory when one exists.
func Load() Config {
	_ = godotenv.Load()

	addr := getenv("BRICKCO_ADDR", "")
	if addr == "" {
		if port := getenv("PORT", ""); port != "" {
			addr = ":" + strings.TrimPrefix(port, ":")
		} else {
			addr = ":3001"
		}
	}

	return Config{
		Addr:              addr,
		Env:               getenv("APP_ENV", "development"),
		DatabaseURL:       getenv("DATABASE_URL", ""),
		DataFile:          getenv("DATA_FILE", ""),
		JWTSecret:         getenv("JWT_SECRET", ""),
		AdminEmail:        getenv("ADMIN_EMAIL", ""),
		AdminPasswordHash: getenv("ADMIN_PASSWORD_HASH", ""),
		ReconcileInterval: durenv("RECONCILE_INTERVAL", 0),
		ShutdownTimeout:   durenv("SHUTDOWN_TIMEOUT", 10*time.Second),
		CORSOrigins:       getenv("CORS_ORIGINS", "*"),

		CloudWatchEnabled:   boolenv("CLOUDWATCH_ENABLED", false),
		CloudWatchNamespace: getenv("CLOUDWATCH_NAMESPACE", "BrickCo"),
		AWSRegion:           getenv("AWS_REGION", ""),
		AWSEndpoint:         getenv("AWS_ENDPOINT", ""),
	}
}

// AuthEnabled reports whether admin routes require a bearer token.
func (c Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// durenv accepts Go durations ("90s") and bare seconds ("90").
func durenv(key string, def time.Duration) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if sec, err := strconv.Atoi(v); err == nil {
		return time.Duration(sec) * time.Second
	}
	return def
}

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
