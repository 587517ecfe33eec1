package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refcite/internal/format"
	"github.com/pdiddy/refcite/internal/interactive"
	"github.com/pdiddy/refcite/internal/registry"
)

var bibtexCmd = &cobra.Command{
	Use:   "bibtex <doi>",
	Short: "Print a BibTeX entry for a DOI",
	Args:  cobra.ExactArgs(1),
	RunE:  runBibTeX,
}

func init() {
	bibtexCmd.Flags().Bool("copy", false, "also copy the entry to the clipboard")

	rootCmd.AddCommand(bibtexCmd)
}

func runBibTeX(cmd *cobra.Command, args []string) error {
	ref, err := registry.Resolve(cmd.Context(), newRegistry(), args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}
	entry := format.BibTeX(ref)
	fmt.Fprintln(cmd.OutOrStdout(), entry)

	if copyFlag, _ := cmd.Flags().GetBool("copy"); copyFlag {
		if err := (interactive.SystemClipboard{}).Copy(entry); err != nil {
			slog.Warn("clipboard copy failed", "err", err)
		}
	}
	return nil
}
