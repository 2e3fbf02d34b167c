package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/config"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/logger"
)

// Config holds what the commands share.
type Config struct {
	// Logger is used for diagnostics. When nil one is built from the loaded
	// configuration.
	Logger *logger.Logger
}

type app struct {
	configPath string
	cfg        *config.Config
	lggr       *logger.Logger
}

// NewCommand creates the churnctl root command with all subcommands.
func NewCommand(cfg Config) *cobra.Command {
	a := &app{lggr: cfg.Logger}

	cmd := &cobra.Command{
		Use:          "churnctl",
		Short:        "Churn prediction tooling",
		Long:         "Score customer CSV files offline and manage login accounts.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", config.Path(), "path to the config file")

	cmd.AddCommand(newPredictCmd(a))
	cmd.AddCommand(newUsersCmd(a))

	return cmd
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	if a.lggr == nil {
		lggr, err := logger.New(cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		a.lggr = lggr
	}
	return nil
}
