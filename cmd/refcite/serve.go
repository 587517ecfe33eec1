package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/refcite/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve citations over HTTP",
	Long: `Serve exposes the citation renderings over HTTP:

  GET /jjap-like/<doi>      journal style with initials
  GET /jjap-fullname/<doi>  journal style with full names
  GET /bibtex/<doi>         BibTeX entry
  GET /reference/<doi>      normalized record as JSON`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.New(newRegistry(), cfg.Server).Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8001)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
