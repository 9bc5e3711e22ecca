package config_test

import (
	"testing"
	"time"

	"catalog/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, config.DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "catalog.db", cfg.DatabaseDSN)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("RABBITMQ_URL", "amqp://guest:guest@mq:5672/")
	t.Setenv("REQUEST_TIMEOUT", "250ms")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, config.DriverMemory, cfg.DatabaseDriver)
	assert.Equal(t, "amqp://guest:guest@mq:5672/", cfg.RabbitMQURL)
	assert.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "oracle")

	_, err := config.Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DATABASE_DRIVER")
}

func TestValidate(t *testing.T) {
	valid := config.Config{DatabaseDriver: config.DriverPostgres, DatabaseDSN: "host=db", RequestTimeout: time.Second}
	assert.NoError(t, valid.Validate())

	noDSN := valid
	noDSN.DatabaseDSN = ""
	assert.Error(t, noDSN.Validate())

	memory := noDSN
	memory.DatabaseDriver = config.DriverMemory
	assert.NoError(t, memory.Validate())

	noTimeout := valid
	noTimeout.RequestTimeout = 0
	assert.Error(t, noTimeout.Validate())
}
