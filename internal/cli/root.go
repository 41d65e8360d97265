package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thruflo/rota/internal/config"
	"github.com/thruflo/rota/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "rota",
	Short: "Shift rota pages and session tooling",
	Long: `Rota serves the login, registration and work-schedule pages of a
shift rota, together with the RPC backend they call.

The same binary is a client of that backend: it can log in, restore a
saved session and show the signed-in user's shift from the terminal.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: applyLogLevel,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("rota version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Path to the rota config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// applyLogLevel sets the default logger's level from --log-level. Commands
// that load a config fall back to its log_level when the flag is unset.
func applyLogLevel(cmd *cobra.Command, args []string) error {
	if logLevel == "" {
		return nil
	}
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logging.SetLevel(level)
	return nil
}

// loadConfig loads --config and applies its log level unless --log-level
// was given.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel == "" {
		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log_level: %w", err)
		}
		logging.SetLevel(level)
	}
	return cfg, nil
}
