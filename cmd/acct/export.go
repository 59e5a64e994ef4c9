package main

import (
	"github.com/matsen/acctbook/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <output_path>",
	Short: "Export accounts to a JSON file",
	Long: `Write every stored account to another JSON file in the storage format.

The storage file is never modified; exporting onto it is refused.

Example:
  acct export backup.json`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	outputPath := config.ExpandPath(args[0])

	s, err := openStore()
	if err != nil {
		return err
	}

	n, err := s.Export(outputPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return outputJSON(out, ExportResult{Exported: n, OutputPath: outputPath})
	}
	outputHuman(out, "Exported %d accounts to %s", n, outputPath)
	return nil
}
