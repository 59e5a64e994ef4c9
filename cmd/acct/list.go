package main

import (
	"github.com/matsen/acctbook/internal/account"
	"github.com/matsen/acctbook/internal/config"
	"github.com/spf13/cobra"
)

var listService serviceFlag

func init() {
	listCmd.Flags().Var(&listService, "service", "Only list accounts of this service (vk or tg)")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	Long: `List accounts in the order they were added, one per line.

Without --service, default_service from the global config applies if set.

Examples:
  acct list
  acct list --service tg`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := serviceFilter(cmd, &listService)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}

	accounts := s.List(filter)
	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), accounts)
	}
	printAccounts(cmd.OutOrStdout(), accounts)
	return nil
}

// serviceFilter returns the --service value if given, else the configured default.
func serviceFilter(cmd *cobra.Command, flag *serviceFlag) (account.Service, error) {
	if cmd.Flags().Changed("service") {
		return flag.value, nil
	}
	svc, err := config.GetDefaultService()
	if err != nil {
		return "", withExitCode(ExitConfigError, err)
	}
	return svc, nil
}
