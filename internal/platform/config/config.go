package config

import (
	"os"
	"strconv"
	"time"
)

// Project store backends selected by VCT_PROJECT_STORE.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Server captures configuration of the editor API server.
type Server struct {
	Addr          string
	Environment   string
	AllowedOrigin string
	ProjectStore  string
	ProjectsFile  string
	ProjectsDB    string
	DatabaseURL   string
	RedisURL      string
	KafkaBrokers  string
	EventsTopic   string
	Hash          Hash
}

// Hash configures remote fetch-and-hash.
type Hash struct {
	Timeout  time.Duration
	CacheTTL time.Duration
	Rate     float64
	Burst    int
	MaxBytes int64
}

// Assets captures configuration of the asset upload server.
type Assets struct {
	Addr          string
	Environment   string
	AllowedOrigin string
	UploadDir     string
	MetadataFile  string
	PublicBaseURL string
}

// Defaults for the hash client. Overridable through the environment.
var (
	HashTimeout  = 15 * time.Second
	HashCacheTTL = 10 * time.Minute
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	store := getenv("VCT_PROJECT_STORE", "")
	dbURL := os.Getenv("DATABASE_URL")
	if store == "" {
		store = StoreMemory
		if dbURL != "" {
			store = StorePostgres
		}
	}
	return Server{
		Addr:          getenv("VCT_ADDR", ":3001"),
		Environment:   getenv("VCT_ENVIRONMENT", "development"),
		AllowedOrigin: os.Getenv("VCT_ALLOWED_ORIGIN"),
		ProjectStore:  store,
		ProjectsFile:  getenv("VCT_PROJECTS_FILE", "data/projects.json"),
		ProjectsDB:    getenv("VCT_PROJECTS_DB", "data/projects.db"),
		DatabaseURL:   dbURL,
		RedisURL:      os.Getenv("REDIS_URL"),
		KafkaBrokers:  os.Getenv("KAFKA_BROKERS"),
		EventsTopic:   getenv("VCT_PROJECT_EVENTS_TOPIC", "vct.project-events"),
		Hash:          HashFromEnv(),
	}
}

// HashFromEnv reads the hash client settings.
func HashFromEnv() Hash {
	return Hash{
		Timeout:  duration("VCT_HASH_TIMEOUT", HashTimeout),
		CacheTTL: duration("VCT_HASH_CACHE_TTL", HashCacheTTL),
		Rate:     float("VCT_HASH_RATE", 5),
		Burst:    integer("VCT_HASH_BURST", 10),
		MaxBytes: int64(integer("VCT_HASH_MAX_BYTES", 20<<20)),
	}
}

// AssetsFromEnv builds the asset server config.
func AssetsFromEnv() Assets {
	addr := getenv("VCT_ASSETS_ADDR", ":3002")
	return Assets{
		Addr:          addr,
		Environment:   getenv("VCT_ENVIRONMENT", "development"),
		AllowedOrigin: os.Getenv("VCT_ALLOWED_ORIGIN"),
		UploadDir:     getenv("VCT_UPLOAD_DIR", "uploads"),
		MetadataFile:  getenv("VCT_ASSETS_METADATA", "uploads/assets.json"),
		PublicBaseURL: getenv("VCT_PUBLIC_BASE_URL", "http://localhost"+addr),
	}
}

// IsProduction reports whether the environment is "production".
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func integer(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func float(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
