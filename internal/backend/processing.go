package backend

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
)

// StartProcessing asks the backend to begin serving items.
func (c *Client) StartProcessing(ctx context.Context) (Status, error) {
	return c.control(ctx, "/start_processing")
}

// StopProcessing asks the backend to halt.
func (c *Client) StopProcessing(ctx context.Context) (Status, error) {
	return c.control(ctx, "/stop_processing")
}

func (c *Client) control(ctx context.Context, path string) (Status, error) {
	data, err := c.doWithRetry(ctx, http.MethodGet, path)
	if err != nil {
		return Status{}, err
	}

	var status Status
	if err := decodeJSON(data, &status); err != nil {
		return Status{}, fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	c.logger.Info("processing toggled", "path", path, "status", status.Status)
	return status, nil
}

// Progress fetches the backend's batch progress. It is polled, so it is not
// retried.
func (c *Client) Progress(ctx context.Context) (Progress, error) {
	data, err := c.do(ctx, http.MethodGet, "/progress", nil)
	if err != nil {
		return Progress{}, err
	}

	var p Progress
	if err := decodeJSON(data, &p); err != nil {
		return Progress{}, fmt.Errorf("failed to parse progress: %w", err)
	}
	return p, nil
}

// CurrentObject fetches the item under review. A nil snapshot with a nil
// error means no item is queued.
func (c *Client) CurrentObject(ctx context.Context) (*Snapshot, error) {
	data, err := c.do(ctx, http.MethodGet, "/current_object", nil)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var snap Snapshot
	if err := decodeJSON(trimmed, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse current object: %w", err)
	}
	if len(snap.Fields) == 0 {
		return nil, nil
	}
	return &snap, nil
}

// ProcessedStatus returns the most recently processed objects.
func (c *Client) ProcessedStatus(ctx context.Context) ([]ProcessedItem, error) {
	data, err := c.doWithRetry(ctx, http.MethodGet, "/processed_status")
	if err != nil {
		return nil, err
	}

	var items []ProcessedItem
	if err := decodeJSON(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse processed status: %w", err)
	}
	return items, nil
}
