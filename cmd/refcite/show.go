package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/refcite/internal/registry"
	"github.com/pdiddy/refcite/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show <doi>",
	Short: "Show the normalized metadata for a DOI",
	Long: `Show prints every field of the normalized reference, as a table or as
YAML with --yaml. Useful for checking what the registry supplied before
citing it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := registry.Resolve(cmd.Context(), newRegistry(), args[0])
		if err != nil {
			return fmt.Errorf("resolving %s: %w", args[0], err)
		}
		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			return writeReferenceYAML(cmd.OutOrStdout(), ref)
		}
		writeReferenceTable(cmd.OutOrStdout(), ref)
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("yaml", false, "print YAML instead of a table")

	rootCmd.AddCommand(showCmd)
}

func writeReferenceTable(w io.Writer, ref types.Reference) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"DOI", ref.DOI},
		{"Title", ref.Title},
		{"Capitalized title", ref.CapitalizedTitle},
		{"Authors", strings.Join(ref.Authors, "\n")},
		{"Initialed authors", strings.Join(ref.InitialAuthors, "\n")},
		{"Journal", ref.FullJournal},
		{"Journal (short)", ref.ShortJournal},
		{"Volume", ref.Volume},
		{"Issue", ref.Issue},
		{"Page", ref.Page},
		{"Year", ref.Year.String()},
	})
	t.Render()
}

func writeReferenceYAML(w io.Writer, ref types.Reference) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ref); err != nil {
		return fmt.Errorf("encoding reference: %w", err)
	}
	return enc.Close()
}
