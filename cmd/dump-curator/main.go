// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the dump-curator CLI.
// Subcommands: extract (dump to curated document), reset (clear added
// flags), catalog (import a document into the SQLite candidate catalog).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-kit/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/dump-curator/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger receives structured diagnostics; progress and reports go to stdout.
var logger = log.NewNopLogger()

// rootCmd is the base command for the dump-curator CLI.
var rootCmd = &cobra.Command{
	Use:   "dump-curator",
	Short: "Curate short text entries from a SQL dump",
	Long: `dump-curator extracts entries from a SQL dump, cleans their markup,
filters them by language and content policy, and writes a bounded,
reproducible selection as a JSON document.

The catalog subcommands import such a document into a SQLite candidate
catalog and keep the document's added flags in sync.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(os.Stderr,
			logging.Format(viper.GetString("log_format")), viper.GetString("log_level"))
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./dump-curator.yaml or ~/.config/dump-curator/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "diagnostic level: debug, info, warn, error, none")
	rootCmd.PersistentFlags().String("log-format", "logfmt", "diagnostic format: logfmt or json")

	mustBind("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	mustBind("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("dump-curator")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "dump-curator"))
		}
	}

	viper.SetEnvPrefix("DUMP_CURATOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
