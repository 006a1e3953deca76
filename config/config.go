package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"membergate/constants"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port string `yaml:"port" envconfig:"PORT"`
	Env  string `yaml:"env"  envconfig:"ENV"`

	DBDriver   string `yaml:"dbDriver"   envconfig:"DB_DRIVER"`
	DBDSN      string `yaml:"dbDsn"      envconfig:"DB_DSN"`
	DBHost     string `yaml:"dbHost"     envconfig:"DB_HOST"`
	DBUser     string `yaml:"dbUser"     envconfig:"DB_USER"`
	DBPassword string `yaml:"dbPassword" envconfig:"DB_PASSWORD"`
	DBName     string `yaml:"dbName"     envconfig:"DB_NAME"`
	DBPort     string `yaml:"dbPort"     envconfig:"DB_PORT"`
	DBSSLMode  string `yaml:"dbSslMode"  envconfig:"DB_SSLMODE"`

	RedisAddr     string `yaml:"redisAddr"     envconfig:"REDIS_ADDR"`
	RedisUser     string `yaml:"redisUser"     envconfig:"REDIS_USER"`
	RedisPassword string `yaml:"redisPassword" envconfig:"REDIS_PASSWORD"`

	JWTSecret string        `yaml:"jwtSecret" envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"tokenTtl"  envconfig:"TOKEN_TTL"`
	HashCost  int           `yaml:"hashCost"  envconfig:"HASH_COST"`

	BootstrapAdminCode string `yaml:"bootstrapAdminCode" envconfig:"BOOTSTRAP_ADMIN_CODE"`
	BootstrapAdminPIN  string `yaml:"bootstrapAdminPin"  envconfig:"BOOTSTRAP_ADMIN_PIN"`
	LegacyAdminCode    string `yaml:"legacyAdminCode"    envconfig:"LEGACY_ADMIN_CODE"`

	LogLevel       string   `yaml:"logLevel"       envconfig:"LOG_LEVEL"`
	LogFormat      string   `yaml:"logFormat"      envconfig:"LOG_FORMAT"`
	AllowedOrigins []string `yaml:"allowedOrigins" envconfig:"ALLOWED_ORIGINS"`
	Timezone       string   `yaml:"timezone"       envconfig:"TIMEZONE"`
	OTLPEndpoint   string   `yaml:"otlpEndpoint"   envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure   bool     `yaml:"otlpInsecure"   envconfig:"OTEL_EXPORTER_OTLP_INSECURE"`

	// InsecureSecret is set when no JWT secret was configured and the
	// built-in fallback is in use.
	InsecureSecret bool `yaml:"-" ignored:"true"`
}

func Default() *Config {
	return &Config{
		Port:               "8083",
		Env:                "dev",
		DBDriver:           DriverPostgres,
		DBPort:             "5432",
		DBSSLMode:          "require",
		TokenTTL:           constants.DefaultTokenTTL,
		HashCost:           constants.DefaultHashCost,
		BootstrapAdminCode: constants.BootstrapAdminCode,
		BootstrapAdminPIN:  constants.BootstrapAdminPIN,
		LogLevel:           "info",
		LogFormat:          "json",
		Timezone:           "Europe/Stockholm",
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order. A .env file in the working directory is loaded
// into the environment first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.JWTSecret == "" {
		c.JWTSecret = constants.DefaultJWTSecret
		c.InsecureSecret = true
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// PostgresDSN returns DB_DSN when set, otherwise a DSN built from the
// individual DB_* settings.
func (c *Config) PostgresDSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
