package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"inknote/internal/config"
)

// env is filled in once by the root command before any subcommand runs.
type env struct {
	cfg config.Config
	log zerolog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		e       = &env{}
	)

	rootCmd := &cobra.Command{
		Use:           "inknote",
		Short:         "Turn typed text into handwritten-looking notes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.log = newLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")

	rootCmd.AddCommand(newServeCmd(e))
	rootCmd.AddCommand(newExportCmd(e))
	rootCmd.AddCommand(newShowCmd(e))
	rootCmd.AddCommand(newTokenCmd(e))
	return rootCmd
}
