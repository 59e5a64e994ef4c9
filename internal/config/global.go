package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/matsen/acctbook/internal/account"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/acct/config.yml.
type GlobalConfig struct {
	StoragePath    string `yaml:"storage_path,omitempty"`
	DefaultService string `yaml:"default_service,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "acct"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// Keys accepted by GlobalConfig.Get and GlobalConfig.Set.
const (
	KeyStoragePath    = "storage-path"
	KeyDefaultService = "default-service"
)

// ErrUnknownKey is returned for config keys other than the ones listed in Keys.
var ErrUnknownKey = errors.New("unknown config key")

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/acct/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config %s: %w", path, err)
	}

	if cfg.DefaultService != "" {
		if _, err := account.ParseService(cfg.DefaultService); err != nil {
			return nil, fmt.Errorf("global config %s: default_service: %w", path, err)
		}
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// SaveGlobalConfig writes cfg to the global config file, creating its directory.
func SaveGlobalConfig(cfg *GlobalConfig) error {
	path := GlobalConfigPath()
	if path == "" {
		return errors.New("cannot determine global config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding global config: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing global config: %w", err)
	}

	globalConfigCache = cfg
	return nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// Keys returns the settable config keys in sorted order.
func Keys() []string {
	keys := []string{KeyStoragePath, KeyDefaultService}
	sort.Strings(keys)
	return keys
}

// Get returns the value for a config key.
func (c *GlobalConfig) Get(key string) (string, error) {
	switch key {
	case KeyStoragePath:
		return c.StoragePath, nil
	case KeyDefaultService:
		return c.DefaultService, nil
	}
	return "", fmt.Errorf("%w: %s (valid: %v)", ErrUnknownKey, key, Keys())
}

// Set validates and stores a value for a config key. An empty value clears it.
func (c *GlobalConfig) Set(key, value string) error {
	switch key {
	case KeyStoragePath:
		c.StoragePath = value
		return nil
	case KeyDefaultService:
		if value == "" {
			c.DefaultService = ""
			return nil
		}
		svc, err := account.ParseService(value)
		if err != nil {
			return err
		}
		c.DefaultService = string(svc)
		return nil
	}
	return fmt.Errorf("%w: %s (valid: %v)", ErrUnknownKey, key, Keys())
}

// GetDefaultService returns the configured default service filter, or "" if unset.
func GetDefaultService() (account.Service, error) {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return "", err
	}
	if cfg.DefaultService == "" {
		return "", nil
	}
	return account.ParseService(cfg.DefaultService)
}
