package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ReadsPrefixedEnvironment(t *testing.T) {
	t.Setenv("TESTSVC_DB_HOST", "db.internal")
	t.Setenv("TESTSVC_DB_NAME", "bookings")
	t.Setenv("TESTSVC_SERVICE_PORT", "9090")
	t.Setenv("TESTSVC_KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("TESTSVC_REDIS_USER_TTL", "30s")

	v, err := Load("TESTSVC")
	require.NoError(t, err)

	db := LoadDatabaseConfig(v, "DB_NAME")
	assert.Equal(t, "db.internal", db.Host)
	assert.Equal(t, "5432", db.Port)
	assert.Equal(t, "bookings", db.DBName)
	assert.Equal(t, "disable", db.SSLMode)

	assert.Equal(t, ":9090", GetServicePort(v, "SERVICE_PORT"))
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, LoadKafkaConfig(v).Brokers)
	assert.Equal(t, 30*time.Second, LoadRedisConfig(v).TTL)
	assert.Equal(t, "development", GetAppEnv(v))
}

func TestGetServicePort_KeepsColonPrefix(t *testing.T) {
	t.Setenv("PORTSVC_SERVICE_PORT", ":7000")
	v, err := Load("PORTSVC")
	require.NoError(t, err)
	assert.Equal(t, ":7000", GetServicePort(v, "SERVICE_PORT"))
}

func TestLoad_RequiresPrefix(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}
