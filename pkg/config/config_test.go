package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, "file:data.db", cfg.DatabaseURL)
	assert.Equal(t, "databricks", cfg.Warehouse.Driver)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, "local", cfg.Storage.Mode)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{
		"port": 9000,
		"logLevel": "debug",
		"sessionTtl": "15m",
		"warehouse": {"driver": "postgres", "dsn": "postgres://from-file"},
		"storage": {"mode": "s3", "s3": {"bucketName": "bucket"}}
	}`), 0644))

	t.Setenv("DATABRICKS_HTTP_PATH", "/sql/1.0/warehouses/abc")
	t.Setenv("WAREHOUSE_DSN", "postgres://from-env")

	cfg, err := Load([]string{"--port", "9100"})
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port, "flag wins")
	assert.Equal(t, "postgres://from-env", cfg.Warehouse.DSN, "env beats file")
	assert.Equal(t, "postgres", cfg.Warehouse.Driver)
	assert.Equal(t, "/sql/1.0/warehouses/abc", cfg.Warehouse.HTTPPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "bucket", cfg.Storage.S3.BucketName)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("Databricks needs an HTTP path", func(t *testing.T) {
		t.Setenv("DATABRICKS_HOST", "adb-1.azuredatabricks.net")
		cfg, err := Load(nil)
		require.NoError(t, err)

		err = cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABRICKS_HTTP_PATH")

		cfg.Warehouse.HTTPPath = "/sql/1.0/warehouses/abc"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("DuckDB runs in memory", func(t *testing.T) {
		cfg, err := Load([]string{"--warehouse", "DuckDB"})
		require.NoError(t, err)
		assert.Equal(t, "duckdb", cfg.Warehouse.Driver)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Postgres needs a DSN", func(t *testing.T) {
		cfg, err := Load([]string{"--warehouse", "postgres"})
		require.NoError(t, err)
		assert.Error(t, cfg.Validate())
	})

	t.Run("Unknown driver", func(t *testing.T) {
		cfg, err := Load([]string{"--warehouse", "oracle"})
		require.NoError(t, err)
		assert.Error(t, cfg.Validate())
	})
}
