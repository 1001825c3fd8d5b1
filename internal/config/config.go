// Package config carga la configuración del servicio: un YAML opcional
// (con expansión ${VAR}) y luego overrides por variables de entorno.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Storage  StorageConfig `yaml:"storage"`
	Blob     BlobConfig    `yaml:"blob"`
	Auth     AuthConfig    `yaml:"auth"`
	Jobs     JobsConfig    `yaml:"jobs"`
	Logging  LoggingConfig `yaml:"logging"`
	Timezone string        `yaml:"timezone"` // define "hoy" en las stats; default Local
}

type ServerConfig struct {
	Port string `yaml:"port"`

	ReadHeaderTimeout time.Duration `yaml:"-"`
	ReadHeaderRaw     string        `yaml:"read_header_timeout"`
}

// StorageConfig elige el sustrato KV: memory | sqlite | postgres.
type StorageConfig struct {
	Driver      string `yaml:"driver"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// BlobConfig: driver vacío = archivos inline como data URI.
type BlobConfig struct {
	Driver string   `yaml:"driver"` // "" | memory | fs | s3
	FSRoot string   `yaml:"fs_root"`
	S3     S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyle       bool   `yaml:"path_style"`
}

// AuthConfig: sin secret el servicio corre en modo dev (X-Debug-User-ID).
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Issuer    string `yaml:"issuer"`

	TokenTTL    time.Duration `yaml:"-"`
	TokenTTLRaw string        `yaml:"token_ttl"`
}

type JobsConfig struct {
	SweeperEnabled bool `yaml:"sweeper_enabled"`

	SweepInterval    time.Duration `yaml:"-"`
	SweepIntervalRaw string        `yaml:"sweep_interval"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: "8080", ReadHeaderTimeout: 5 * time.Second},
		Storage: StorageConfig{Driver: "memory", SQLitePath: "./data/medication-manager.db"},
		Blob:    BlobConfig{FSRoot: "./data/blobs", S3: S3Config{Region: "us-east-1"}},
		Auth:    AuthConfig{Issuer: "medication-manager", TokenTTL: 24 * time.Hour},
		Jobs:    JobsConfig{SweepInterval: 5 * time.Minute},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load lee path (si no está vacío), aplica env y valida.
func Load(path string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		if err := parseDurations(cfg); err != nil {
			return nil, fmt.Errorf("parsing durations: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

var envVarRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars reemplaza ${VAR}; si no está seteada queda vacío.
func expandEnvVars(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarRe.FindStringSubmatch(match)[1])
	})
}

func parseDurations(cfg *Config) error {
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"server.read_header_timeout", cfg.Server.ReadHeaderRaw, &cfg.Server.ReadHeaderTimeout},
		{"auth.token_ttl", cfg.Auth.TokenTTLRaw, &cfg.Auth.TokenTTL},
		{"jobs.sweep_interval", cfg.Jobs.SweepIntervalRaw, &cfg.Jobs.SweepInterval},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.raw) == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = d
	}
	return nil
}

// applyEnv: las env vars ganan sobre el archivo.
func applyEnv(cfg *Config) error {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}

	set(&cfg.Server.Port, "PORT")
	set(&cfg.Storage.Driver, "STORAGE_DRIVER")
	set(&cfg.Storage.SQLitePath, "SQLITE_PATH")
	set(&cfg.Storage.PostgresDSN, "DB_DSN")
	set(&cfg.Blob.Driver, "BLOB_DRIVER")
	set(&cfg.Blob.FSRoot, "BLOB_FS_ROOT")
	set(&cfg.Blob.S3.Bucket, "BLOB_S3_BUCKET")
	set(&cfg.Blob.S3.Region, "BLOB_S3_REGION")
	set(&cfg.Blob.S3.Endpoint, "BLOB_S3_ENDPOINT")
	set(&cfg.Blob.S3.AccessKeyID, "AWS_ACCESS_KEY_ID")
	set(&cfg.Blob.S3.SecretAccessKey, "AWS_SECRET_ACCESS_KEY")
	set(&cfg.Auth.JWTSecret, "JWT_SECRET")
	set(&cfg.Logging.Level, "LOG_LEVEL")
	set(&cfg.Logging.Format, "LOG_FORMAT")
	set(&cfg.Timezone, "TZ_NAME")

	// DB_DSN sin driver explícito implica postgres (como el servicio original)
	if os.Getenv("DB_DSN") != "" && os.Getenv("STORAGE_DRIVER") == "" {
		cfg.Storage.Driver = "postgres"
	}

	if v := strings.TrimSpace(os.Getenv("BLOB_S3_PATH_STYLE")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("BLOB_S3_PATH_STYLE: %w", err)
		}
		cfg.Blob.S3.PathStyle = b
	}
	if v := strings.TrimSpace(os.Getenv("SWEEPER_ENABLED")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SWEEPER_ENABLED: %w", err)
		}
		cfg.Jobs.SweeperEnabled = b
	}
	if v := strings.TrimSpace(os.Getenv("SWEEP_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SWEEP_INTERVAL: %w", err)
		}
		cfg.Jobs.SweepInterval = d
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory":
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for sqlite")
		}
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn (DB_DSN) is required for postgres")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	switch c.Blob.Driver {
	case "", "memory", "fs":
	case "s3":
		if c.Blob.S3.Bucket == "" {
			return fmt.Errorf("blob.s3.bucket is required for s3")
		}
	default:
		return fmt.Errorf("unknown blob.driver %q", c.Blob.Driver)
	}

	if c.Jobs.SweeperEnabled && c.Jobs.SweepInterval <= 0 {
		return fmt.Errorf("jobs.sweep_interval must be > 0")
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("timezone %q: %w", c.Timezone, err)
		}
	}
	return nil
}

// Location devuelve la zona configurada (o Local).
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DevAuth: sin JWT secret no hay verifier y se acepta X-Debug-User-ID.
func (c *Config) DevAuth() bool { return strings.TrimSpace(c.Auth.JWTSecret) == "" }
