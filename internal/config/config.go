package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/LuxeDrive-Rentals/service-rental/pkg/database"
)

// KafkaConfig holds broker and consumer-group settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// JWTConfig holds token verification settings.
type JWTConfig struct {
	Secret string
}

// ServiceConfig holds all configuration for the rental service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	DBConfig    database.PostgresConfig
	JWTConfig   JWTConfig
	KafkaConfig KafkaConfig
}

// Load reads configuration from RENTAL_-prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("RENTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", ":8083")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "rental")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "luxedrive.")

	port := v.GetString("SERVICE_PORT")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	return &ServiceConfig{
		Port:   port,
		AppEnv: v.GetString("APP_ENV"),
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWTConfig: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:     strings.Split(v.GetString("KAFKA_BROKERS"), ","),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
	}, nil
}
