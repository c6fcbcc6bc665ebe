package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DBPostgres = "postgres"
	DBMongo    = "mongo"

	DriveDB     = "db"
	DriveR2     = "r2"
	DriveMemory = "memory"
)

type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	CORSOrigin    string `envconfig:"CORS_ORIGIN"`
	Development   bool   `envconfig:"DEVELOPMENT" default:"false"`
	AuthRateLimit int    `envconfig:"AUTH_RATE_LIMIT" default:"10"`

	DBType        string `envconfig:"DB_TYPE" default:"postgres"`
	DriveType     string `envconfig:"DRIVE_TYPE" default:"db"`
	PostgresURL   string `envconfig:"POSTGRES_URL"`
	MongoURL      string `envconfig:"MONGO_URL"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"invoicepro"`

	R2AccountID       string `envconfig:"R2_ACCOUNT_ID"`
	R2Bucket          string `envconfig:"R2_BUCKET"`
	R2AccessKeyID     string `envconfig:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `envconfig:"R2_SECRET_ACCESS_KEY"`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	JWTSecret  string        `envconfig:"JWT_SECRET"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"12h"`

	UPIID           string `envconfig:"UPI_ID"`
	WebsiteURL      string `envconfig:"WEBSITE_URL"`
	QuotationQRText string `envconfig:"QUOTATION_QR_TEXT" default:"Visit our Website"`
	LogoPath        string `envconfig:"LOGO_PATH"`

	AssetTimeout       time.Duration `envconfig:"ASSET_TIMEOUT" default:"5s"`
	PreviewDelay       time.Duration `envconfig:"PREVIEW_DELAY" default:"500ms"`
	ChromePrintTimeout time.Duration `envconfig:"CHROME_PRINT_TIMEOUT" default:"30s"`
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	return FromEnv()
}

// FromEnv decodes and validates the environment without touching .env.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be provided")
	}
	switch c.DBType {
	case DBPostgres, DBMongo:
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.DBType)
	}
	switch c.DriveType {
	case DriveDB, DriveMemory:
	case DriveR2:
		if c.R2AccountID == "" || c.R2Bucket == "" {
			return fmt.Errorf("DRIVE_TYPE=r2 needs R2_ACCOUNT_ID and R2_BUCKET")
		}
	default:
		return fmt.Errorf("unsupported DRIVE_TYPE %q", c.DriveType)
	}
	return nil
}

// DatabaseURL is the connection string for the configured DB_TYPE.
func (c *Config) DatabaseURL() string {
	if c.DBType == DBMongo {
		return c.MongoURL
	}
	return c.PostgresURL
}
