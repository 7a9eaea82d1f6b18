package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret signs identity tokens. The process must not start without it.
	JWTSecret string `env:"JWT_SECRET, required"`

	// PublicBaseURL is the web-client origin QR codes point at.
	PublicBaseURL  string   `env:"PUBLIC_BASE_URL, default=http://localhost:5173"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS, default=http://localhost:5173"`

	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`

	Mongo      MongoConfig
	Redis      RedisConfig
	Cloudinary CloudinaryConfig
	Bootstrap  BootstrapConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, required"`
	Database string `env:"MONGO_DB,  default=clinic"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type CloudinaryConfig struct {
	CloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `env:"CLOUDINARY_API_KEY"`
	APISecret string `env:"CLOUDINARY_API_SECRET"`
}

// BootstrapConfig optionally seeds the super-admin at startup. When Email
// and Password are both set, main performs the same idempotent bootstrap as
// POST /api/auth/createSuperAdmin.
type BootstrapConfig struct {
	Name     string `env:"BOOTSTRAP_NAME, default=Super Admin"`
	Email    string `env:"BOOTSTRAP_EMAIL"`
	Password string `env:"BOOTSTRAP_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
// Missing required keys (signing secret, database string) are fatal.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return &cfg, nil
}
