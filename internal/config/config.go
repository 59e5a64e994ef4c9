// Package config resolves where acct keeps its data and how it runs.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/matsen/acctbook/internal/storage"
)

// Environment variables read by acct. Both may also be set in a .env file.
const (
	EnvStorage  = "ACCT_STORAGE"
	EnvLogLevel = "ACCT_LOG_LEVEL"
)

// DotEnvFile is the dotenv file loaded from the working directory.
const DotEnvFile = ".env"

// Source names where a resolved storage path came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceConfig  Source = "config"
	SourceDefault Source = "default"
)

// LoadDotEnv loads variables from path (DotEnvFile if empty) without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = DotEnvFile
	}
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ResolveStoragePath picks the storage file: the --storage flag value, then
// ACCT_STORAGE, then storage_path from the global config, then accounts.json.
func ResolveStoragePath(flagValue string) (string, Source, error) {
	if flagValue != "" {
		return ExpandPath(flagValue), SourceFlag, nil
	}
	if env := os.Getenv(EnvStorage); env != "" {
		return ExpandPath(env), SourceEnv, nil
	}

	cfg, err := LoadGlobalConfig()
	if err != nil {
		return "", "", err
	}
	if cfg.StoragePath != "" {
		return ExpandPath(cfg.StoragePath), SourceConfig, nil
	}

	return storage.DefaultPath, SourceDefault, nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
