package main

import (
	"github.com/matsen/acctbook/internal/account"
	"github.com/spf13/cobra"
)

var searchService serviceFlag

func init() {
	searchCmd.Flags().Var(&searchService, "service", "Only search accounts of this service (vk or tg)")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search accounts by username, id or notes",
	Long: `Search accounts whose username, account id or notes contain the query,
ignoring case. Results keep insertion order.

Examples:
  acct search alice
  acct search work --service vk`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	filter, err := serviceFilter(cmd, &searchService)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}

	results, err := s.Search(cmd.Context(), args[0], filter)
	if err != nil {
		return err
	}

	if jsonOutput {
		if results == nil {
			results = []account.Account{}
		}
		return outputJSON(cmd.OutOrStdout(), results)
	}
	printAccounts(cmd.OutOrStdout(), results)
	return nil
}
