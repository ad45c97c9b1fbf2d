package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName   string
	Port      string
	APIPrefix string

	DBDriver string // sqlite | pgx
	DBDSN    string

	JWTSecret string
	TokenTTL  time.Duration

	StorageBackend string // local | gridfs
	MediaDir       string
	PublicBaseURL  string
	MongoURI       string
	MongoDB        string

	AllowedOrigins []string
	BodyLimit      int
	RateLimit      int // requests per minute per IP
	LoginRateLimit int // attempts per 10 minutes per IP

	LogLevel  string
	LogFormat string // text | json
	LogFile   string

	TemplatesDir string

	AdminEmail    string
	AdminPassword string
	AdminName     string
	SeedDemo      bool
}

var ErrMissingSecret = errors.New("JWT_SECRET is required")

// Load reads an optional .env file (envPath or ./.env) and then the process
// environment. A missing .env file is not an error.
func Load(envPath ...string) (Config, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath...)
	} else {
		err = godotenv.Load()
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	cfg := Config{
		AppName:   getEnv("APP_NAME", "Tirupur Homes API"),
		Port:      getEnv("PORT", "8080"),
		APIPrefix: getEnv("API_V1_PREFIX", "/api/v1"),

		DBDriver: getEnv("DB_DRIVER", "sqlite"),
		DBDSN:    getEnv("DATABASE_URL", "tirupurhomes.db"),

		JWTSecret: os.Getenv("SECRET_KEY"),
		TokenTTL:  time.Duration(getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,

		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		MediaDir:       getEnv("MEDIA_DIR", "./web/media"),
		PublicBaseURL:  strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "tirupurhomes"),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS",
			"http://localhost:3000,http://localhost:3001,http://localhost:5173,http://127.0.0.1:3000,http://127.0.0.1:3001")),
		BodyLimit:      getEnvAsInt("BODY_LIMIT_BYTES", 10<<20),
		RateLimit:      getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		LoginRateLimit: getEnvAsInt("LOGIN_RATE_LIMIT", 5),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogFile:   os.Getenv("LOG_FILE"),

		TemplatesDir: getEnv("TEMPLATES_DIR", "./web/templates"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),
		SeedDemo:      getEnvAsBool("SEED_DEMO", false),
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingSecret
	}

	log.Printf("[config] PORT=%s DB_DRIVER=%s STORAGE=%s MEDIA_DIR=%s LOG_FORMAT=%s",
		cfg.Port, cfg.DBDriver, cfg.StorageBackend, cfg.MediaDir, cfg.LogFormat)
	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getEnvAsBool(key string, def bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
