package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcao2/relevance-review/internal/backend"
	"github.com/mcao2/relevance-review/internal/review"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print backend progress and the item under review",
	Long: `Query the backend once and print progress, the current item and the
recently processed items. Processing is never started or stopped.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().Bool("json", false, "output as JSON")
}

type statusReport struct {
	Backend   string                  `json:"backend"`
	Progress  backend.Progress        `json:"progress"`
	Item      *backend.Snapshot       `json:"item"`
	Mode      string                  `json:"mode,omitempty"`
	Processed []backend.ProcessedItem `json:"processed"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	client, err := backend.NewClient(cfg.BackendURL)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
	defer cancel()
	report, err := collectStatus(ctx, client)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printStatus(cmd.OutOrStdout(), report)
	return nil
}

func collectStatus(ctx context.Context, client *backend.Client) (*statusReport, error) {
	progress, err := client.Progress(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching progress: %w", err)
	}
	item, err := client.CurrentObject(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching current item: %w", err)
	}
	processed, err := client.ProcessedStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching processed status: %w", err)
	}

	report := &statusReport{
		Backend:   client.BaseURL(),
		Progress:  progress,
		Item:      item,
		Processed: processed,
	}
	if item != nil {
		report.Mode = review.ModeOf(item).String()
	}
	return report, nil
}

func printStatus(w io.Writer, r *statusReport) {
	fmt.Fprintf(w, "Backend:  %s\n", r.Backend)
	fmt.Fprintf(w, "File:     %.2f%%\n", r.Progress.FileProgress)
	fmt.Fprintf(w, "Total:    %.2f%%\n", r.Progress.TotalProgress)

	if r.Item == nil {
		fmt.Fprintln(w, "Item:     none")
	} else {
		fmt.Fprintf(w, "Item:     %s/%s (%s)\n", r.Item.ID, r.Item.SubID, r.Mode)
		if r.Item.CurrentFilename != "" {
			fmt.Fprintf(w, "Filename: %s\n", r.Item.CurrentFilename)
		}
		fmt.Fprintf(w, "Code ID:  %s\n", r.Item.CodeID)
	}

	if len(r.Processed) == 0 {
		fmt.Fprintln(w, "Processed: none")
		return
	}
	ids := make([]string, 0, len(r.Processed))
	for _, p := range r.Processed {
		ids = append(ids, p.ID.String()+"/"+p.SubID.String())
	}
	fmt.Fprintf(w, "Processed: %s\n", strings.Join(ids, ", "))
}
