// Package config loads the process configuration from the environment.
// Values in a .env file are applied first without overriding variables that
// are already set.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Host        string `env:"APP_HOST,       default=0.0.0.0"`
	Port        string `env:"APP_PORT,       default=8080"`
	Env         string `env:"ENV,            default=development"`
	Brand       string `env:"APP_BRAND,      default=GoRide"`
	LogLevel    string `env:"LOG_LEVEL,      default=info"`
	JWTSecret   string `env:"JWT_SECRET_KEY, required"`
	FrontendURL string `env:"FRONTEND_URL,   default=http://localhost:5173"`
	BackendURL  string `env:"BACKEND_URL,    default=http://localhost:8080"`
	BcryptCost  int    `env:"BCRYPT_COST,    default=10"`
	BodyLimit   string `env:"BODY_LIMIT,     default=5M"`

	// StoreDriver selects the credential store: mongo, mysql or sqlite.
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	Mongo   MongoConfig
	SQL     SQLConfig
	Redis   RedisConfig
	Mail    MailConfig
	Storage StorageConfig
}

type MongoConfig struct {
	URI         string        `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string        `env:"MONGO_DB,            default=goride"`
	Timeout     time.Duration `env:"MONGO_TIMEOUT,       default=10s"`
	MaxPoolSize uint64        `env:"MONGO_MAX_POOL_SIZE, default=50"`
}

type SQLConfig struct {
	DSN string `env:"SQL_DSN, default=goride.db"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,        default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,   default=5s"`
	PoolSize int           `env:"REDIS_POOL_SIZE, default=10"`
}

type MailConfig struct {
	// Transport is smtp or mailtrap.
	Transport string        `env:"MAIL_TRANSPORT, default=smtp"`
	From      string        `env:"MAIL_FROM"`
	FromName  string        `env:"MAIL_FROM_NAME, default=GoRide"`
	Timeout   time.Duration `env:"MAIL_TIMEOUT,   default=15s"`

	SMTPHost     string `env:"SMTP_HOST,     default=smtp.gmail.com"`
	SMTPPort     int    `env:"SMTP_PORT,     default=587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPInsecure bool   `env:"SMTP_INSECURE, default=false"`

	MailtrapAPIKey string `env:"MAILTRAP_API_KEY"`
	MailtrapURL    string `env:"MAILTRAP_API_URL"`
}

type StorageConfig struct {
	// Driver is disk or minio.
	Driver    string `env:"STORAGE_DRIVER,   default=disk"`
	UploadDir string `env:"UPLOAD_DIR,       default=uploads"`

	MinIOEndpoint  string `env:"MINIO_ENDPOINT"`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY"`
	MinIOBucket    string `env:"MINIO_BUCKET,     default=goride-uploads"`
	MinIOUseSSL    bool   `env:"MINIO_USE_SSL,    default=false"`
}

// Load applies envFile (when present) and decodes the environment.
func Load(ctx context.Context, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom decodes the configuration from l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "mongo", "mysql", "sqlite":
	default:
		return fmt.Errorf("config: STORE_DRIVER must be mongo, mysql or sqlite, got %q", c.StoreDriver)
	}
	switch c.Mail.Transport {
	case "smtp":
	case "mailtrap":
		if c.Mail.MailtrapAPIKey == "" {
			return errors.New("config: MAILTRAP_API_KEY is required for the mailtrap transport")
		}
	default:
		return fmt.Errorf("config: MAIL_TRANSPORT must be smtp or mailtrap, got %q", c.Mail.Transport)
	}
	switch c.Storage.Driver {
	case "disk":
	case "minio":
		if c.Storage.MinIOEndpoint == "" {
			return errors.New("config: MINIO_ENDPOINT is required for the minio storage driver")
		}
	default:
		return fmt.Errorf("config: STORAGE_DRIVER must be disk or minio, got %q", c.Storage.Driver)
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// SenderAddress is the From address for outgoing mail.
func (c *Config) SenderAddress() string {
	if c.Mail.From != "" {
		return c.Mail.From
	}
	return c.Mail.SMTPUsername
}
