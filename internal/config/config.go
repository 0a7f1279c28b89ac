// Package config loads and validates service configuration.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// StoreBackendMemory keeps records in process memory only.
	StoreBackendMemory = "memory"
	// StoreBackendFile persists records to a single JSON document.
	StoreBackendFile = "file"
	// StoreBackendMySQL persists records to a MySQL table.
	StoreBackendMySQL = "mysql"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address" validate:"required"`
	CORSOrigin      string `mapstructure:"cors_origin" validate:"required"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" validate:"min=0"`
}

type StoreConfig struct {
	Backend  string `mapstructure:"backend" validate:"required,oneof=memory file mysql"`
	FilePath string `mapstructure:"file_path" validate:"required_if=Backend file"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	Database        string            `mapstructure:"database"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime"`
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/tailquest")
	}

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("server.shutdown_timeout", 10)
	v.SetDefault("store.backend", StoreBackendFile)
	v.SetDefault("store.file_path", filepath.Join("data", "users.json"))
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)

	// Database credentials come from the environment only, never the config file.
	if err := v.BindEnv("database.username", "TAILQUEST_DB_USERNAME"); err != nil {
		return nil, fmt.Errorf("failed to bind TAILQUEST_DB_USERNAME environment variable: %w", err)
	}
	if err := v.BindEnv("database.password", "TAILQUEST_DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind TAILQUEST_DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
