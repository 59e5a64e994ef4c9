// Package main provides the acct CLI entry point.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/matsen/acctbook/internal/config"
	"github.com/matsen/acctbook/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	storageFlag string
	jsonOutput  bool
	verbose     bool
)

// storagePath is the resolved storage file for this invocation.
var storagePath string

// logger writes diagnostics to stderr. Replaced in setup once flags are parsed.
var logger = slog.New(slog.DiscardHandler)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(reportError(rootCmd, err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "acct",
	Short: "Keep a local list of VK and Telegram accounts",
	Long: `acct keeps a flat list of VK and Telegram account records in a JSON file.

Each record has a service (vk or tg), an account id, a username, optional
notes and a creation timestamp. The pair (service, account id) is unique.

The storage file is chosen by --storage, then $ACCT_STORAGE (also read from
a .env file), then storage_path in ~/.config/acct/config.yml, then
accounts.json in the current directory.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	Args:              requireSubcommand,
	RunE:              requireSubcommand,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storageFlag, "storage", "", "Path to accounts JSON file (default: accounts.json)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of text")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug details to stderr")
	rootCmd.Version = Version
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(err)
	})
}

// requireSubcommand rejects a bare "acct" and unknown subcommands as usage errors.
func requireSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageError(fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath()))
	}
	return usageError(errors.New("a command is required (add, list, remove, export, show, search, info, config)"))
}

// setup runs before every command: environment, logging, storage path.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(""); err != nil {
		return withExitCode(ExitConfigError, err)
	}

	logger = newLogger(cmd.ErrOrStderr(), verbose, os.Getenv(config.EnvLogLevel))

	path, source, err := config.ResolveStoragePath(storageFlag)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	storagePath = path
	logger.Debug("storage path resolved", "path", path, "source", source)
	return nil
}

// openStore loads the storage file into a new store.
func openStore() (*storage.Store, error) {
	s := storage.NewStore(storagePath, logger)
	if err := s.Load(); err != nil {
		return nil, err
	}
	logger.Debug("store opened", "path", s.Path(), "records", s.Len())
	return s, nil
}
