package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("POSTGRES_USER", "customers")
	t.Setenv("POSTGRES_PASSWORD", "s3cr3t")
	t.Setenv("POSTGRES_DB", "customers")
	t.Setenv("POSTGRES_HOST", "localhost")
	t.Setenv("POSTGRES_PORT", "5432")
	t.Setenv("RABBITMQ_USER", "guest")
	t.Setenv("RABBITMQ_PASSWORD", "guest")
	t.Setenv("RABBITMQ_HOST", "localhost")
	t.Setenv("RABBITMQ_AMQP_PORT", "5672")
}

func TestLoad_FromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVICE_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("POSTGRES_MAX_CONNS", "12")
	t.Setenv("RABBITMQ_QUEUE_NAME", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "customermanagerapi", cfg.App.Name)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, int32(12), cfg.DB.MaxConns)
	assert.Equal(t, "customers", cfg.DB.Name)
	assert.Equal(t, "5672", cfg.MQ.AmqpPort)
	assert.True(t, cfg.MQ.Enabled)
	// empty values keep the default
	assert.Equal(t, "customer_events", cfg.MQ.QueueName)
}

func TestLoad_FileOverlaidByEnv(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := []byte(`
service:
  name: from-file
  port: "7070"
rabbitmq:
  exchange: file-exchange
`)
	require.NoError(t, os.WriteFile(path, yml, 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVICE_PORT", "6060")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.App.Name)
	assert.Equal(t, "6060", cfg.App.Port)
	assert.Equal(t, "file-exchange", cfg.MQ.Exchange)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POSTGRES_HOST", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoad_MQDisabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RABBITMQ_ENABLED", "false")
	t.Setenv("RABBITMQ_USER", "")
	t.Setenv("RABBITMQ_HOST", "")
	t.Setenv("RABBITMQ_AMQP_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.MQ.Enabled)
}

func TestLoad_MQEnabledByDefaultRequiresBroker(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RABBITMQ_HOST", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config.MQ.Host")
}

func TestLoad_MissingConfigFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{
		DB: DB{User: "u", Password: "p@ss", Name: "customers", Host: "db", Port: "5432", SSLMode: "disable"},
		MQ: MQ{User: "guest", Password: "guest", Host: "mq", AmqpPort: "5672", Vhost: "/"},
	}

	dsn, err := cfg.DBDSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p%40ss@db:5432/customers?sslmode=disable", dsn)

	amqp, err := cfg.AMQPDSN()
	require.NoError(t, err)
	assert.Equal(t, "amqp://guest:guest@mq:5672/%2F", amqp)

	_, err = Config{}.DBDSN()
	require.Error(t, err)
	_, err = Config{}.AMQPDSN()
	require.Error(t, err)
}
