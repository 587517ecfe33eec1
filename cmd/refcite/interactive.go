package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refcite/internal/interactive"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"clip"},
	Short:   "Prompt for DOIs and copy their BibTeX entries to the clipboard",
	Long: `Interactive reads one DOI per line, prints its BibTeX entry, and places
the entry on the system clipboard. Underscores are read as slashes, so a DOI
taken from a file name can be pasted directly. Type quit or send EOF to stop.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		copier := interactive.Copier(interactive.SystemClipboard{})
		if noCopy, _ := cmd.Flags().GetBool("no-copy"); noCopy {
			copier = nil
		}
		s := interactive.New(newRegistry(), copier, os.Stdin, cmd.OutOrStdout())
		return s.Run(cmd.Context())
	},
}

func init() {
	interactiveCmd.Flags().Bool("no-copy", false, "print entries without touching the clipboard")

	rootCmd.AddCommand(interactiveCmd)
}
