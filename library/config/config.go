// Package config loads the storage configuration for the record store from,
// in order: a yaml file, a dotenv file, and environment variables. Later
// sources override earlier ones.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "LRS"

// StorageConfig holds the connection settings for the postgres record store.
type StorageConfig struct {
	DSN               string        `yaml:"dsn" envconfig:"LRS_DSN"`
	MaxConns          int32         `yaml:"max_conns" envconfig:"LRS_MAX_CONNS"`
	MinConns          int32         `yaml:"min_conns" envconfig:"LRS_MIN_CONNS"`
	MaxConnLifetime   time.Duration `yaml:"max_conn_lifetime" envconfig:"LRS_MAX_CONN_LIFETIME"`
	MaxConnIdleTime   time.Duration `yaml:"max_conn_idle_time" envconfig:"LRS_MAX_CONN_IDLE_TIME"`
	HealthCheckPeriod time.Duration `yaml:"health_check_period" envconfig:"LRS_HEALTH_CHECK_PERIOD"`
	ConnectTimeout    time.Duration `yaml:"connect_timeout" envconfig:"LRS_CONNECT_TIMEOUT"`
}

// LoadConfigFile reads the yaml configuration file.
func LoadConfigFile(configFile string) (*StorageConfig, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := &StorageConfig{}
	if decodeErr := yaml.NewDecoder(file).Decode(cfg); decodeErr != nil {
		return nil, decodeErr
	}

	return cfg, nil
}

// LoadConfigEnvs overrides the configuration from environment variables.
func LoadConfigEnvs(config *StorageConfig) error {
	return envconfig.Process(envPrefix, config)
}

// ApplyDefaults fills in pool tuning defaults for everything left unset and
// rejects a missing DSN.
func ApplyDefaults(config *StorageConfig) error {
	const defaultMaxConnections = int32(8)
	const defaultMinConnections = int32(2)
	const defaultMaxConnLifetime = time.Hour
	const defaultMaxConnIdleTime = time.Minute * 5
	const defaultHealthCheckPeriod = time.Minute
	const defaultConnectTimeout = time.Second * 5

	if config.DSN == "" {
		return errors.New("make sure to set a valid postgres DSN in the configuration")
	}

	if config.MaxConns == 0 {
		config.MaxConns = defaultMaxConnections
	}

	if config.MinConns == 0 {
		config.MinConns = defaultMinConnections
	}

	if config.MaxConnLifetime == 0 {
		config.MaxConnLifetime = defaultMaxConnLifetime
	}

	if config.MaxConnIdleTime == 0 {
		config.MaxConnIdleTime = defaultMaxConnIdleTime
	}

	if config.HealthCheckPeriod == 0 {
		config.HealthCheckPeriod = defaultHealthCheckPeriod
	}

	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = defaultConnectTimeout
	}

	return nil
}

// LoadAndInitConfig loads the configuration from the predefined sources in
// order: yaml file, dotenv file, environment variables.
func LoadAndInitConfig(configFile string, dotenvFile string) (*StorageConfig, error) {
	config := &StorageConfig{}

	if configFile != "" {
		loaded, err := LoadConfigFile(configFile)
		if err != nil {
			return nil, err
		}

		config = loaded
	}

	if dotenvFile != "" {
		if err := godotenv.Load(dotenvFile); err != nil {
			return nil, err
		}
	}

	if err := LoadConfigEnvs(config); err != nil {
		return nil, err
	}

	if err := ApplyDefaults(config); err != nil {
		return nil, err
	}

	return config, nil
}

// PGXPoolConfig builds a pgxpool.Config from the storage configuration.
func (c *StorageConfig) PGXPoolConfig() (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(c.DSN)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = c.MaxConns
	poolConfig.MinConns = c.MinConns
	poolConfig.MaxConnLifetime = c.MaxConnLifetime
	poolConfig.MaxConnIdleTime = c.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = c.HealthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = c.ConnectTimeout

	return poolConfig, nil
}
