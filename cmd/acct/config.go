package main

import (
	"github.com/matsen/acctbook/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set values in the global config file (~/.config/acct/config.yml).

Usage:
  acct config                                # Show all config
  acct config storage-path                   # Get specific value
  acct config storage-path ~/accounts.json   # Set value
  acct config default-service tg             # Default filter for list/search
  acct config default-service ""             # Clear a value

Keys:
  storage-path     Storage file used when neither --storage nor $ACCT_STORAGE is set
  default-service  Service filter applied by list and search without --service`,
	Args: usageArgs(cobra.MaximumNArgs(2)),
	RunE: runConfig,
}

// ConfigResponse is the JSON response for config commands.
type ConfigResponse struct {
	Path           string `json:"path"`
	StoragePath    string `json:"storage_path"`
	DefaultService string `json:"default_service"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	out := cmd.OutOrStdout()

	// No args: show all config
	if len(args) == 0 {
		if jsonOutput {
			return outputJSON(out, ConfigResponse{
				Path:           config.GlobalConfigPath(),
				StoragePath:    cfg.StoragePath,
				DefaultService: cfg.DefaultService,
			})
		}
		outputHuman(out, "config:          %s", config.GlobalConfigPath())
		outputHuman(out, "storage-path:    %s", cfg.StoragePath)
		outputHuman(out, "default-service: %s", cfg.DefaultService)
		return nil
	}

	key := args[0]

	// One arg: get specific value
	if len(args) == 1 {
		value, err := cfg.Get(key)
		if err != nil {
			return usageError(err)
		}
		if jsonOutput {
			return outputJSON(out, map[string]string{key: value})
		}
		outputHuman(out, "%s", value)
		return nil
	}

	// Two args: set value
	updated := *cfg
	if err := updated.Set(key, args[1]); err != nil {
		return usageError(err)
	}
	if err := config.SaveGlobalConfig(&updated); err != nil {
		return err
	}

	value, _ := updated.Get(key)
	if jsonOutput {
		return outputJSON(out, UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	outputHuman(out, "Set %s = %s", key, value)
	return nil
}
