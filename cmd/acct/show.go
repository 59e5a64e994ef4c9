package main

import (
	"github.com/matsen/acctbook/internal/account"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <service> <account_id>",
	Short: "Show a single account",
	Long: `Show one account by service and id. A missing account prints
"Account not found" and exits 0.

Example:
  acct show tg 1`,
	Args: serviceArgs(2),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	svc, err := account.ParseService(args[0])
	if err != nil {
		return usageError(err)
	}

	s, err := openStore()
	if err != nil {
		return err
	}

	acc, found := s.Find(svc, args[1])

	out := cmd.OutOrStdout()
	if jsonOutput {
		result := ShowResult{Found: found}
		if found {
			result.Account = &acc
		}
		return outputJSON(out, result)
	}
	if !found {
		outputHuman(out, "Account not found")
		return nil
	}
	outputHuman(out, "%s", account.Format(acc))
	return nil
}
