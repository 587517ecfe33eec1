package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refcite/internal/format"
	"github.com/pdiddy/refcite/internal/registry"
)

var citeCmd = &cobra.Command{
	Use:   "cite <doi>",
	Short: "Print a journal-style citation for a DOI",
	Long: `Cite renders a DOI as

  Authors. "Title", Journal (Abbrev.), Volume (Issue), Page (Year).
  DOI: https://doi.org/<doi>

Given names are initialed unless --full-names is set. --style selects any
other supported rendering: journal, journal-fullname, or bibtex.`,
	Args: cobra.ExactArgs(1),
	RunE: runCite,
}

func init() {
	citeCmd.Flags().Bool("full-names", false, "spell out given names instead of initials")
	citeCmd.Flags().String("style", string(format.StyleJournal), "citation style: journal, journal-fullname, bibtex")

	rootCmd.AddCommand(citeCmd)
}

func runCite(cmd *cobra.Command, args []string) error {
	styleName, _ := cmd.Flags().GetString("style")
	style, err := format.ParseStyle(styleName)
	if err != nil {
		return err
	}
	if full, _ := cmd.Flags().GetBool("full-names"); full && style == format.StyleJournal {
		style = format.StyleJournalFullName
	}

	ref, err := registry.Resolve(cmd.Context(), newRegistry(), args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), format.Render(ref, style))
	return nil
}
