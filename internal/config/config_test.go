package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalYAML = `
storage:
  s3_bucket: test-bucket
database:
  enabled: true
  url: postgres://localhost/test
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "test-bucket", cfg.Storage.S3Bucket)
	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, "us-west-2", cfg.Storage.S3Region)
	assert.Equal(t, "processed/", cfg.Storage.ProcessedPrefix)
	assert.Equal(t, 50, cfg.Storage.MaxBatchFiles)
	assert.Equal(t, 10, cfg.Storage.MaxFileSizeMB)
	assert.Equal(t, 6*time.Hour, cfg.Pipeline.Interval())
	assert.Equal(t, 270*time.Second, cfg.Pipeline.TimeBudget())
}

func TestLoadExplicitValuesWin(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  port: 9999
storage:
  s3_bucket: b
  incoming_prefix: "drop/"
pipeline:
  interval_minutes: 30
  time_budget_seconds: 60
`))
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "drop/", cfg.Storage.IncomingPrefix)
	assert.Equal(t, 30*time.Minute, cfg.Pipeline.Interval())
	assert.Equal(t, time.Minute, cfg.Pipeline.TimeBudget())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("LINKEDIN_ETL_S3_BUCKET", "env-bucket")
	t.Setenv("DATABASE_URL", "postgres://env-host/analytics")
	t.Setenv("NOTIFY_TO", " a@example.com , b@example.com ")
	t.Setenv("STATUS_PORT", "7070")

	cfg, err := LoadFromEnv(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "env-bucket", cfg.Storage.S3Bucket)
	assert.Equal(t, "postgres://env-host/analytics", cfg.Database.URL)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Notifications.ToAddresses)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())

	cfg.Storage.S3Bucket = ""
	assert.Error(t, cfg.Validate())

	cfg.Storage.S3Bucket = "b"
	cfg.Database.Enabled = false
	assert.Error(t, cfg.Validate())

	cfg.Database.Enabled = true
	cfg.Notifications.Enabled = true
	cfg.Notifications.FromAddress = ""
	assert.Error(t, cfg.Validate())
}

func TestServerGetHost(t *testing.T) {
	s := ServerConfig{}
	assert.Equal(t, "127.0.0.1", s.GetHost())

	s.Host = "10.0.0.5"
	assert.Equal(t, "10.0.0.5", s.GetHost())

	t.Setenv("AWS_EXECUTION_ENV", "AWS_ECS_FARGATE")
	assert.Equal(t, "0.0.0.0", s.GetHost())
}
