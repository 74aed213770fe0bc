package review

import (
	"io"
	"log/slog"

	"github.com/mcao2/relevance-review/internal/backend"
)

// Session is the review-session controller. It owns the processing flag, the
// poller bookkeeping, the presenter and the decision tracker; every mutation
// goes through its methods, which must be called from one goroutine.
type Session struct {
	processing bool
	toggling   bool

	poller    Poller
	presenter *Presenter
	tracker   *Tracker

	progress    backend.Progress
	hasProgress bool
	recent      []backend.ProcessedItem

	logger *slog.Logger
}

func NewSession(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{
		presenter: NewPresenter(),
		tracker:   NewTracker(),
		logger:    logger,
	}
}

func (s *Session) Processing() bool { return s.processing }

// Toggling reports whether a start or stop request is awaiting the backend.
func (s *Session) Toggling() bool { return s.toggling }

func (s *Session) Display() Display { return s.presenter.Display() }

func (s *Session) Decision() Decision { return s.tracker.Decision() }

func (s *Session) Status() Status { return s.tracker.Status() }

func (s *Session) Submitting() bool { return s.tracker.Submitting() }

// Progress returns the last applied progress, if any arrived this epoch.
func (s *Session) Progress() (backend.Progress, bool) { return s.progress, s.hasProgress }

// Recent returns the recently processed items last reported by the backend.
func (s *Session) Recent() []backend.ProcessedItem { return s.recent }

// RequestStart reports whether a start request should be sent.
func (s *Session) RequestStart() bool {
	if s.processing || s.toggling {
		return false
	}
	s.toggling = true
	return true
}

// StartAcknowledged flips to processing and starts the poller. When started is
// true the caller schedules both loops for epoch.
func (s *Session) StartAcknowledged() (epoch uint64, started bool) {
	s.toggling = false
	s.processing = true
	epoch, started = s.poller.Start()
	s.logger.Info("processing started", "epoch", epoch, "new_loops", started)
	return epoch, started
}

// RequestStop reports whether a stop request should be sent.
func (s *Session) RequestStop() bool {
	if !s.processing || s.toggling {
		return false
	}
	s.toggling = true
	return true
}

// StopAcknowledged stops polling and returns the display to rest, discarding
// any pending decision. It returns the fields whose text changed.
func (s *Session) StopAcknowledged() []string {
	s.toggling = false
	s.processing = false
	s.poller.Stop()
	s.hasProgress = false
	s.logger.Info("processing stopped", "epoch", s.poller.Epoch())
	return s.clear()
}

// ToggleFailed abandons a start or stop request; the processing flag is left
// as it was.
func (s *Session) ToggleFailed(err error) {
	s.toggling = false
	s.logger.Warn("processing toggle failed", "processing", s.processing, "err", err)
}

// Live reports whether a tick from epoch should still run.
func (s *Session) Live(epoch uint64) bool {
	return s.processing && s.poller.Live(epoch)
}

// IssueFetch hands out a ticket for the next fetch of loop, or false when
// polling is stopped.
func (s *Session) IssueFetch(loop Loop) (Ticket, bool) {
	if !s.processing {
		return Ticket{}, false
	}
	return s.poller.Issue(loop)
}

// ApplyProgress applies a progress response. Failures and stale responses are
// dropped; the loop keeps ticking either way.
func (s *Session) ApplyProgress(t Ticket, p backend.Progress, err error) bool {
	if err != nil {
		s.logger.Warn("fetch failed", "loop", t.Loop, "seq", t.Seq, "err", err)
		return false
	}
	if !s.processing || !s.poller.Accept(t) {
		s.logger.Debug("dropping stale response", "loop", t.Loop, "epoch", t.Epoch, "seq", t.Seq)
		return false
	}
	s.progress = p
	s.hasProgress = true
	return true
}

// ApplySnapshot applies a current-object response: fields and banner first,
// then the decision reset check. A nil snapshot returns the display to rest.
// It returns the fields whose text changed and whether anything was applied.
func (s *Session) ApplySnapshot(t Ticket, snap *backend.Snapshot, err error) ([]string, bool) {
	if err != nil {
		s.logger.Warn("fetch failed", "loop", t.Loop, "seq", t.Seq, "err", err)
		return nil, false
	}
	if !s.processing || !s.poller.Accept(t) {
		s.logger.Debug("dropping stale response", "loop", t.Loop, "epoch", t.Epoch, "seq", t.Seq)
		return nil, false
	}
	if snap == nil {
		return s.clear(), true
	}

	changed := s.presenter.Apply(snap)
	if s.tracker.ResetIfTokenChanged(snap) {
		tok := TokenOf(snap)
		s.logger.Info("reviewing", "id", tok.ID, "phase", tok.Phase, "mode", ModeOf(snap).String())
	}
	return changed, true
}

// Select records a choice while decision controls are visible.
func (s *Session) Select(d Decision) bool {
	if !s.presenter.Display().Controls {
		return false
	}
	s.tracker.Select(d)
	return true
}

// Submit starts a submission and returns the wire value to send.
func (s *Session) Submit() (int, error) {
	if !s.presenter.Display().Controls {
		return 0, ErrNotActive
	}
	return s.tracker.BeginSubmit()
}

// SubmitSucceeded clears the display in anticipation of the next item.
func (s *Session) SubmitSucceeded() []string {
	s.tracker.FinishSubmit(nil)
	return s.clear()
}

// SubmitFailed keeps the choice so the reviewer can retry.
func (s *Session) SubmitFailed(err error) {
	s.tracker.FinishSubmit(err)
	s.logger.Warn("submit failed", "decision", s.tracker.Decision().String(), "err", err)
}

// SetRecent records the backend's recently processed items.
func (s *Session) SetRecent(items []backend.ProcessedItem) {
	s.recent = items
}

func (s *Session) clear() []string {
	changed := s.presenter.Clear()
	s.tracker.Reset()
	return changed
}
