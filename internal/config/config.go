// internal/config/config.go
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`
	Postgres struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		DB       string `mapstructure:"db"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
	} `mapstructure:"postgres"`
	Forwarder struct {
		StoreURL  string `mapstructure:"store_url"`
		BatchSize int    `mapstructure:"batch_size"`
	} `mapstructure:"forwarder"`
	Classifier struct {
		BumpyThreshold   float64 `mapstructure:"bumpy_threshold"`
		PotholeThreshold float64 `mapstructure:"pothole_threshold"`
	} `mapstructure:"classifier"`
}

// LoadConfig reads config.yaml from the given directory, with environment
// variables taking precedence. Missing values fall back to defaults, so the
// services can start without a config file at all.
func LoadConfig(path string) (*Config, error) {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AutomaticEnv() // read in environment variables that match

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No file: defaults plus environment are enough.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &cfg, nil
}

// PostgresDSN builds the connection string for the store's database; empty
// when no database is configured.
func (c *Config) PostgresDSN() string {
	if c.Postgres.Host == "" {
		return ""
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Postgres.Host, c.Postgres.Port, c.Postgres.User, c.Postgres.Password, c.Postgres.DB)
}

func setDefaults() {
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("postgres.port", 5432)
	viper.SetDefault("forwarder.store_url", "http://localhost:8000")
	viper.SetDefault("forwarder.batch_size", 10)
	viper.SetDefault("classifier.bumpy_threshold", 12000)
	viper.SetDefault("classifier.pothole_threshold", 16000)
}
