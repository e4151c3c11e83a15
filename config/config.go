// Package config loads the registry's YAML configuration file and
// overlays environment variables on top of it, following the teacher's
// config-loading pattern.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// User is one statically configured Basic-auth credential pair.
type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// AuthConfig selects the authenticator implementation.
type AuthConfig struct {
	// Mode is "static" (validate against Users) or "allow-all" (accept
	// any credentials, for local development).
	Mode  string `yaml:"mode"`
	Users []User `yaml:"users"`
}

// CacheConfig configures the optional Redis-backed tag cache. Addr
// empty disables the cache in favor of a no-op implementation.
type CacheConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTLSec   int    `yaml:"ttlSeconds"`
}

// BackupConfig configures the optional off-site replication hook.
type BackupConfig struct {
	Provider string `yaml:"provider"` // "", "aws", "gcp", or "azure"

	AWS struct {
		Bucket string `yaml:"bucket"`
		Region string `yaml:"region"`
	} `yaml:"aws"`

	GCP struct {
		Bucket          string `yaml:"bucket"`
		CredentialsFile string `yaml:"credentialsFile"`
	} `yaml:"gcp"`

	Azure struct {
		StorageAccount string `yaml:"storageAccount"`
		Container      string `yaml:"container"`
	} `yaml:"azure"`
}

// Config is the registry's full process configuration.
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`

	Auth   AuthConfig   `yaml:"auth"`
	Cache  CacheConfig  `yaml:"cache"`
	Backup BackupConfig `yaml:"backup"`
}

// Secrets holds credential material that is deliberately kept out of the
// YAML file and read only from the environment.
type Secrets struct {
	AWSAccessKeyID         string
	AWSSecretAccessKey     string
	AzureStorageAccountKey string
}

// Load reads path as YAML and overlays recognized environment variables.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	loadFromEnv(cfg)
	return cfg, nil
}

func loadFromEnv(cfg *Config) {
	if portStr := os.Getenv("REGISTRY_SERVER_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.Server.Port = port
		}
	}
	if path := os.Getenv("REGISTRY_STORAGE_PATH"); path != "" {
		cfg.Storage.Path = path
	}
	if level := os.Getenv("REGISTRY_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("REGISTRY_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}

	if mode := os.Getenv("REGISTRY_AUTH_MODE"); mode != "" {
		cfg.Auth.Mode = mode
	}
	if usersEnv := os.Getenv("REGISTRY_AUTH_USERS"); usersEnv != "" {
		cfg.Auth.Users = nil
		for _, pair := range strings.Split(usersEnv, ",") {
			parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
			if len(parts) == 2 {
				cfg.Auth.Users = append(cfg.Auth.Users, User{
					Username: strings.TrimSpace(parts[0]),
					Password: strings.TrimSpace(parts[1]),
				})
			}
		}
	}

	if addr := os.Getenv("REGISTRY_CACHE_ADDR"); addr != "" {
		cfg.Cache.Addr = addr
	}

	if provider := os.Getenv("REGISTRY_BACKUP_PROVIDER"); provider != "" {
		cfg.Backup.Provider = provider
	}
	if bucket := os.Getenv("REGISTRY_BACKUP_AWS_BUCKET"); bucket != "" {
		cfg.Backup.AWS.Bucket = bucket
	}
	if region := os.Getenv("REGISTRY_BACKUP_AWS_REGION"); region != "" {
		cfg.Backup.AWS.Region = region
	}
	if bucket := os.Getenv("REGISTRY_BACKUP_GCP_BUCKET"); bucket != "" {
		cfg.Backup.GCP.Bucket = bucket
	}
	if account := os.Getenv("REGISTRY_BACKUP_AZURE_ACCOUNT"); account != "" {
		cfg.Backup.Azure.StorageAccount = account
	}
	if container := os.Getenv("REGISTRY_BACKUP_AZURE_CONTAINER"); container != "" {
		cfg.Backup.Azure.Container = container
	}
}

// LoadSecrets reads credential material from the environment only; it is
// never sourced from the YAML file.
func LoadSecrets() Secrets {
	return Secrets{
		AWSAccessKeyID:         os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey:     os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AzureStorageAccountKey: os.Getenv("AZURE_STORAGE_ACCOUNT_KEY"),
	}
}
