package main

import (
	"github.com/dustin/go-humanize"
	"github.com/matsen/acctbook/internal/account"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show storage file details",
	Long: `Show the resolved storage file, its size, and account counts per service.

Example:
  acct info --storage ~/accounts.json`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	info, err := s.Info()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return outputJSON(out, info)
	}

	if info.Exists {
		outputHuman(out, "Storage: %s (%s, modified %s)", info.Path,
			humanize.Bytes(uint64(info.Size)), humanize.Time(info.ModTime))
	} else {
		outputHuman(out, "Storage: %s (not created yet)", info.Path)
	}
	outputHuman(out, "Accounts: %s", humanize.Comma(int64(info.Records)))
	for _, svc := range account.Services {
		outputHuman(out, "  %s: %d", svc, info.ByService[svc])
	}
	if !info.Oldest.IsZero() {
		outputHuman(out, "Oldest: %s (%s)", account.FormatTime(info.Oldest), humanize.Time(info.Oldest))
		outputHuman(out, "Newest: %s (%s)", account.FormatTime(info.Newest), humanize.Time(info.Newest))
	}
	return nil
}
