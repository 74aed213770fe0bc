package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mcao2/relevance-review/internal/review"
)

// Commands run on bubbletea's goroutines, so they capture what they need and
// never touch the model.

func (m *Model) toggleCmd(start bool) tea.Cmd {
	client, timeout := m.client, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if start {
			status, err := client.StartProcessing(ctx)
			return toggledMsg{start: true, status: status, err: err}
		}
		status, err := client.StopProcessing(ctx)
		return toggledMsg{start: false, status: status, err: err}
	}
}

func (m *Model) tickCmd(loop review.Loop, epoch uint64) tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return tickMsg{loop: loop, epoch: epoch}
	})
}

// fetchCmd issues one fetch for loop, or nil when polling has stopped.
func (m *Model) fetchCmd(loop review.Loop) tea.Cmd {
	ticket, ok := m.session.IssueFetch(loop)
	if !ok {
		return nil
	}
	client, timeout := m.client, m.timeout

	switch loop {
	case review.LoopProgress:
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			p, err := client.Progress(ctx)
			return progressMsg{ticket: ticket, progress: p, err: err}
		}
	case review.LoopObject:
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			snap, err := client.CurrentObject(ctx)
			return objectMsg{ticket: ticket, snap: snap, err: err}
		}
	default:
		return nil
	}
}

func (m *Model) recentCmd() tea.Cmd {
	client, timeout := m.client, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		items, err := client.ProcessedStatus(ctx)
		return recentMsg{items: items, err: err}
	}
}
