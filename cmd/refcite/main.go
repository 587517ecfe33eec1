// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the refcite CLI: DOI lookup, citation
// rendering, the HTTP citation server, and the interactive clipboard loop.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/refcite/internal/registry"
	"github.com/pdiddy/refcite/internal/secrets"
	"github.com/pdiddy/refcite/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is populated in PersistentPreRunE before any subcommand runs.
var cfg types.Config

// rootCmd is the base command for the refcite CLI.
var rootCmd = &cobra.Command{
	Use:   "refcite",
	Short: "Render citations for DOIs from CrossRef metadata",
	Long: `refcite fetches work metadata for a DOI from the CrossRef registry,
normalizes it, and renders it as a journal-style citation or a BibTeX entry.

A DOI the registry does not know still renders: every field is empty and the
year reads 404.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogger(c.LogLevel)

		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			return err
		}
		if len(s) > 0 {
			slog.Debug("loaded secrets", "keys", s.Keys())
		}
		c.Registry.Mailto = s.Or(secrets.CrossRefMailto, c.Registry.Mailto)

		cfg = c
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./refcite.yaml or ~/.config/refcite/refcite.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("mailto", "", "contact address for the CrossRef polite pool")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("registry.mailto", rootCmd.PersistentFlags().Lookup("mailto"))
}

func initConfig() {
	// .env only fills variables the environment does not already set.
	_ = godotenv.Load()

	def := types.Defaults()
	viper.SetDefault("registry.base_url", def.Registry.BaseURL)
	viper.SetDefault("registry.timeout", def.Registry.Timeout)
	viper.SetDefault("registry.user_agent", def.Registry.UserAgent)
	viper.SetDefault("registry.mailto", def.Registry.Mailto)
	viper.SetDefault("registry.rate_limit", def.Registry.RateLimit)
	viper.SetDefault("registry.max_retries", def.Registry.MaxRetries)
	viper.SetDefault("server.addr", def.Server.Addr)
	viper.SetDefault("server.shutdown_timeout", def.Server.ShutdownTimeout)
	viper.SetDefault("log_level", def.LogLevel)

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("refcite")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "refcite"))
		}
	}

	viper.SetEnvPrefix("REFCITE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes viper's merged settings over the defaults.
func loadConfig() (types.Config, error) {
	c := types.Defaults()
	if err := viper.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	return c, nil
}

func setupLogger(level string) {
	var l slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		l = slog.LevelDebug
	case "WARN", "WARNING":
		l = slog.LevelWarn
	case "ERROR":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(handler))
}

// newRegistry builds the registry client from the loaded configuration.
func newRegistry() *registry.Client {
	return registry.NewClientFromConfig(cfg.Registry)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
