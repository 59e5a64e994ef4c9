package main

import (
	"time"

	"github.com/matsen/acctbook/internal/account"
	"github.com/spf13/cobra"
)

var addNotes string

func init() {
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Optional notes")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <service> <account_id> <username>",
	Short: "Add an account",
	Long: `Add an account record. The creation time is set to now (UTC).

Fails without touching the storage file if the service already has an
account with the same id.

Examples:
  acct add vk 123 alice --notes "test"
  acct add TG 1 bob`,
	Args: serviceArgs(3),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	svc, err := account.ParseService(args[0])
	if err != nil {
		return usageError(err)
	}

	s, err := openStore()
	if err != nil {
		return err
	}

	acc := account.New(svc, args[1], args[2], addNotes, time.Now())
	if err := s.Add(acc); err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return outputJSON(out, AddResult{Status: "added", Account: acc})
	}
	outputHuman(out, "Account added:")
	outputHuman(out, "%s", account.Format(acc))
	return nil
}
