package config

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shareit/service-booking/pkg/config"
)

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port           string
	AppEnv         string
	DBConfig       config.DatabaseConfig
	KafkaConfig    config.KafkaConfig
	RedisConfig    config.RedisConfig
	PreventOverlap bool
	MigrationsPath string
	AdminIDs       []uuid.UUID
}

// Load reads configuration from environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("BOOKING")
	if err != nil {
		return nil, err
	}
	v.SetDefault("SERVICE_PORT", "8083")
	v.SetDefault("DB_NAME", "shareit_booking")
	v.SetDefault("PREVENT_OVERLAP", false)
	v.SetDefault("MIGRATIONS_PATH", "migrations")

	adminIDs, err := parseAdminIDs(v.GetString("ADMIN_IDS"))
	if err != nil {
		return nil, err
	}

	return &ServiceConfig{
		Port:           config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:         config.GetAppEnv(v),
		DBConfig:       config.LoadDatabaseConfig(v, "DB_NAME"),
		KafkaConfig:    config.LoadKafkaConfig(v),
		RedisConfig:    config.LoadRedisConfig(v),
		PreventOverlap: v.GetBool("PREVENT_OVERLAP"),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		AdminIDs:       adminIDs,
	}, nil
}

// parseAdminIDs reads a comma-separated list of user ids.
func parseAdminIDs(raw string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("invalid admin id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
