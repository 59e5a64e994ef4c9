package main

import (
	"github.com/matsen/acctbook/internal/account"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:   "remove <service> <account_id>",
	Short: "Remove an account",
	Long: `Remove an account record.

A missing account is reported as "Account not found" and is not an error;
the storage file is only rewritten when something was removed.

Example:
  acct remove vk 123`,
	Args: serviceArgs(2),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	svc, err := account.ParseService(args[0])
	if err != nil {
		return usageError(err)
	}
	id := args[1]

	s, err := openStore()
	if err != nil {
		return err
	}

	removed := s.Remove(svc, id)
	if removed {
		if err := s.Save(); err != nil {
			return err
		}
	} else {
		logger.Debug("nothing to remove", "service", svc, "account_id", id)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return outputJSON(out, RemoveResult{Removed: removed, Service: svc, AccountID: id})
	}
	if removed {
		outputHuman(out, "Account removed")
	} else {
		outputHuman(out, "Account not found")
	}
	return nil
}
