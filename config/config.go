package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"

	AuthJWT      = "jwt"
	AuthFirebase = "firebase"
)

type Config struct {
	Env         string // "local", "dev", "prod"
	ServiceName string
	HTTPPort    string
	GRPCPort    string

	// Storage
	StorageDriver string
	DBUrl         string
	MongoURI      string
	MongoDB       string

	// Optional infrastructure; empty disables the component.
	RedisAddr       string
	ProfileCacheTTL time.Duration
	Neo4jURI        string
	Neo4jUser       string
	Neo4jPassword   string
	NatsUrl         string

	// Security
	AuthProvider            string
	JWTPublicKeyPath        string
	JWTIssuer               string
	FirebaseProjectID       string
	FirebaseCredentialsFile string

	// Telemetry
	OtelEndpoint       string // empty = tracing off
	CORSAllowedOrigins []string
}

// Load reads the environment, after a best-effort .env.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                     getEnv("APP_ENV", "local"),
		ServiceName:             getEnv("SERVICE_NAME", "imago-core"),
		HTTPPort:                getEnv("HTTP_PORT", "8080"),
		GRPCPort:                getEnv("GRPC_PORT", "50051"),
		StorageDriver:           strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
		DBUrl:                   getEnv("DB_URL", ""),
		MongoURI:                getEnv("MONGO_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
		MongoDB:                 getEnv("MONGO_DB", "imago"),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		ProfileCacheTTL:         getEnvDuration("PROFILE_CACHE_TTL", 10*time.Minute),
		Neo4jURI:                getEnv("NEO4J_URI", ""),
		Neo4jUser:               getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:           getEnv("NEO4J_PASSWORD", ""),
		NatsUrl:                 getEnv("NATS_URL", ""),
		AuthProvider:            strings.ToLower(getEnv("AUTH_PROVIDER", AuthJWT)),
		JWTPublicKeyPath:        getEnv("JWT_PUBLIC_KEY_PATH", "./keys/public.pem"),
		JWTIssuer:               getEnv("JWT_ISSUER", ""),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		OtelEndpoint:            getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		CORSAllowedOrigins:      splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageMemory:
		if c.Env == "prod" {
			return fmt.Errorf("STORAGE_DRIVER=memory is not allowed in production")
		}
	case StoragePostgres:
		if c.DBUrl == "" {
			return fmt.Errorf("DB_URL is required when STORAGE_DRIVER=postgres")
		}
	case StorageMongo:
		if c.MongoURI == "" || c.MongoDB == "" {
			return fmt.Errorf("MONGO_URI and MONGO_DB are required when STORAGE_DRIVER=mongo")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	switch c.AuthProvider {
	case AuthJWT:
		if c.JWTPublicKeyPath == "" {
			return fmt.Errorf("JWT_PUBLIC_KEY_PATH is required when AUTH_PROVIDER=jwt")
		}
	case AuthFirebase:
		if c.FirebaseProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required when AUTH_PROVIDER=firebase")
		}
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider)
	}

	if c.ProfileCacheTTL <= 0 {
		return fmt.Errorf("PROFILE_CACHE_TTL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
