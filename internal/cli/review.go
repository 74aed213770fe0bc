package cli

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/mcao2/relevance-review/internal/backend"
	"github.com/mcao2/relevance-review/internal/config"
	"github.com/mcao2/relevance-review/internal/ui"
	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Open an interactive review session",
	Long: `Open the review TUI. Press p to start processing on the backend, then
q, w or e to choose a decision for the item shown and s to submit it.

Examples:
  relevance-review review
  relevance-review review --backend http://gpu-box:8080 --interval 500ms`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().Duration("interval", 0, "poll interval for progress and current item")
	reviewCmd.Flags().Bool("debug", false, "log at debug level")
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if needsConnectForm(cmd) {
		if err := runConnectForm(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return fmt.Errorf("resolving log file: %w", err)
	}
	logFile, err := tea.LogToFile(logPath, "relevance-review")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	sessionID := uuid.NewString()
	base := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}))
	logger := base.With("session", sessionID)

	client, err := backend.NewClient(cfg.BackendURL,
		backend.WithSessionID(sessionID),
		backend.WithLogger(base),
	)
	if err != nil {
		return err
	}

	logger.Info("review session opened", "backend", client.BaseURL(), "interval", cfg.PollInterval)

	m := ui.NewModel(client, ui.Options{
		BackendURL:     client.BaseURL(),
		PollInterval:   cfg.PollInterval,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running review session: %w", err)
	}

	if m.Session().Processing() {
		// quitting does not stop the backend
		fmt.Fprintln(cmd.ErrOrStderr(), "Processing is still running on the backend; press x in the next session to stop it.")
	}
	logger.Info("review session closed")
	return nil
}

// needsConnectForm reports whether this is a first run with nothing telling
// us where the backend lives.
func needsConnectForm(cmd *cobra.Command) bool {
	if config.Exists() || cmd.Flags().Changed("backend") {
		return false
	}
	return os.Getenv(config.EnvBackendURL) == ""
}

func runConnectForm(cfg *config.Config) error {
	result, err := ui.NewConnectForm(cfg.BackendURL, cfg.PollInterval).Run()
	if err != nil {
		return fmt.Errorf("connect form: %w", err)
	}
	interval, err := result.Interval()
	if err != nil {
		return fmt.Errorf("poll interval: %w", err)
	}

	cfg.BackendURL = result.BackendURL
	cfg.PollInterval = interval
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}
