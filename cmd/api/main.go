package main

import (
	"fmt"
	"os"

	"globalupi/config"
	"globalupi/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once the config is loaded.
type app struct {
	cfgPath string
	cfg     *config.Config
	log     zerolog.Logger
}

// loadConfig reads and validates configuration and builds the logger.
func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg
	a.log = logger.New(cfg.Log.Level, cfg.Log.Pretty)
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:               "globalupi",
		Short:             "Multi-currency money transfer API",
		SilenceUsage:      true,
		PersistentPreRunE: a.loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a, false)
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "path to config file (default ./config.yaml or ./config/config.yaml)")

	root.AddCommand(serveCommand(a))
	root.AddCommand(migrateCommand(a))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
