package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JayJamieson/table-editor/pkg/volumes"
	"github.com/JayJamieson/table-editor/pkg/warehouse"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Port        int           `mapstructure:"port"`
	DatabaseURL string        `mapstructure:"databaseUrl"`
	LogLevel    string        `mapstructure:"logLevel"`
	SessionTTL  time.Duration `mapstructure:"sessionTtl"`
	CSRFKey     string        `mapstructure:"csrfKey"`

	// SecureCookies marks the CSRF cookie Secure; disable for plain http.
	SecureCookies bool `mapstructure:"secureCookies"`

	Warehouse warehouse.Config      `mapstructure:"warehouse"`
	Storage   volumes.StorageConfig `mapstructure:"storage"`
}

var envBindings = map[string]string{
	"port":                       "PORT",
	"databaseUrl":                "DATABASE_URL",
	"logLevel":                   "LOG_LEVEL",
	"sessionTtl":                 "SESSION_TTL",
	"csrfKey":                    "CSRF_KEY",
	"secureCookies":              "SECURE_COOKIES",
	"warehouse.driver":           "WAREHOUSE_DRIVER",
	"warehouse.dsn":              "WAREHOUSE_DSN",
	"warehouse.host":             "DATABRICKS_HOST",
	"warehouse.httpPath":         "DATABRICKS_HTTP_PATH",
	"warehouse.clientId":         "DATABRICKS_CLIENT_ID",
	"warehouse.clientSecret":     "DATABRICKS_CLIENT_SECRET",
	"storage.mode":               "STORAGE_MODE",
	"storage.localPath":          "STORAGE_PATH",
	"storage.s3.endpoint":        "S3_ENDPOINT",
	"storage.s3.region":          "S3_REGION",
	"storage.s3.bucketName":      "S3_BUCKET_NAME",
	"storage.s3.accessKeyId":     "S3_ACCESS_KEY_ID",
	"storage.s3.secretAccessKey": "S3_SECRET_ACCESS_KEY",
}

// Load reads config.json (if present), the environment and the command
// line, later sources overriding earlier ones.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("table-editor", pflag.ContinueOnError)
	fs.Int("port", 8001, "Server port")
	fs.String("db-url", "file:data.db", "Turso database URL for the save log")
	fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	fs.String("warehouse", warehouse.DriverDatabricks, "Warehouse driver (databricks, duckdb, libsql, postgres)")
	fs.String("config", "", "Path to a JSON config file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("port", 8001)
	v.SetDefault("databaseUrl", "file:data.db")
	v.SetDefault("logLevel", "info")
	v.SetDefault("sessionTtl", time.Hour)
	v.SetDefault("secureCookies", false)
	v.SetDefault("warehouse.driver", warehouse.DriverDatabricks)
	v.SetDefault("storage.mode", volumes.StorageModeLocal)
	v.SetDefault("storage.localPath", "./volumes")

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath("./")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	flags := map[string]string{
		"port":             "port",
		"databaseUrl":      "db-url",
		"logLevel":         "log-level",
		"warehouse.driver": "warehouse",
	}
	for key, flag := range flags {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Warehouse.Driver = strings.ToLower(cfg.Warehouse.Driver)

	return &cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if _, ok := warehouse.DialectFor(c.Warehouse.Driver); !ok {
		return fmt.Errorf("unsupported warehouse driver: %s", c.Warehouse.Driver)
	}

	if c.Warehouse.Driver == warehouse.DriverDatabricks {
		if c.Warehouse.HTTPPath == "" {
			return errors.New("DATABRICKS_HTTP_PATH must be set")
		}
		if c.Warehouse.Host == "" {
			return errors.New("DATABRICKS_HOST must be set")
		}
	} else if c.Warehouse.DSN == "" && c.Warehouse.Driver != warehouse.DriverDuckDB {
		return fmt.Errorf("WAREHOUSE_DSN must be set for the %s driver", c.Warehouse.Driver)
	}

	return nil
}
