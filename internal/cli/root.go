package cli

import (
	"os"

	"github.com/mcao2/relevance-review/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "relevance-review",
	Short: "Review relevance decisions against a processing backend",
	Long: `relevance-review drives a reviewer session against the relevance
processing backend: start and stop processing, watch progress, and record
a decision for each item as it is shown.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// the config package reads its path from the environment
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			return os.Setenv(config.EnvConfig, path)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to config file (default ~/.config/relevance-review/config.yaml)")
	rootCmd.PersistentFlags().StringP("backend", "b", "", "backend base URL")
	rootCmd.PersistentFlags().Duration("timeout", 0, "per-request timeout")

	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file and environment, then applies any flags
// the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.BackendURL, _ = flags.GetString("backend")
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("interval") {
		cfg.PollInterval, _ = flags.GetDuration("interval")
	}
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	return cfg, nil
}
