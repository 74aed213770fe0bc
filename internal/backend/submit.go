package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrRejected is returned when the backend answers 2xx but reports an error
// in the body.
var ErrRejected = errors.New("decision rejected by backend")

type submitRequest struct {
	Decision int `json:"decision"`
}

// SubmitDecision posts the wire value of a decision (1, 0 or -1). It is never
// retried: a duplicate submit would record a decision for the next item.
func (c *Client) SubmitDecision(ctx context.Context, decision int) (Status, error) {
	if decision < -1 || decision > 1 {
		return Status{}, fmt.Errorf("invalid decision value %d", decision)
	}

	data, err := c.do(ctx, http.MethodPost, "/submit_decision", submitRequest{Decision: decision})
	if err != nil {
		c.logger.Warn("submit failed", "decision", decision, "err", err)
		return Status{}, err
	}

	var status Status
	if err := decodeJSON(data, &status); err != nil {
		return Status{}, fmt.Errorf("failed to parse submit response: %w", err)
	}
	if status.Error != "" {
		return status, fmt.Errorf("%w: %s", ErrRejected, status.Error)
	}

	c.logger.Info("decision submitted", "decision", decision, "status", status.Status)
	return status, nil
}
