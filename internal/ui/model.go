package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mcao2/relevance-review/internal/backend"
	"github.com/mcao2/relevance-review/internal/review"
)

// fadeDuration is how long a changed field is drawn dimmed.
const fadeDuration = 400 * time.Millisecond

const (
	msgSelectDecision = "Please select a decision."
	msgSubmitFailed   = "Error submitting decision. Please try again."
)

// Backend is the part of the backend client the UI drives.
type Backend interface {
	StartProcessing(ctx context.Context) (backend.Status, error)
	StopProcessing(ctx context.Context) (backend.Status, error)
	Progress(ctx context.Context) (backend.Progress, error)
	CurrentObject(ctx context.Context) (*backend.Snapshot, error)
	SubmitDecision(ctx context.Context, decision int) (backend.Status, error)
	ProcessedStatus(ctx context.Context) ([]backend.ProcessedItem, error)
}

type State int

const (
	StateReview State = iota
	StateAlert
)

func (s State) String() string {
	switch s {
	case StateReview:
		return "Review"
	case StateAlert:
		return "Alert"
	default:
		return "Unknown"
	}
}

// Options configures a Model.
type Options struct {
	BackendURL     string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

type Model struct {
	state   State
	width   int
	height  int
	styles  Styles
	keys    KeyMap
	session *review.Session
	client  Backend

	backendURL string
	interval   time.Duration
	timeout    time.Duration
	logger     *slog.Logger

	spinner   spinner.Model
	fileBar   progress.Model
	totalBar  progress.Model
	showHelp  bool
	fading    map[string]bool
	fadeGen   uint64
	alert     string
	alertKind string
	notice    string

	copyText func(string) error
}

func NewModel(client Backend, opts Options) *Model {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	styles := NewStyles(DefaultTheme)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(DefaultTheme.Primary))

	newBar := func() progress.Model {
		return progress.New(
			progress.WithDefaultGradient(),
			progress.WithoutPercentage(),
			progress.WithWidth(40),
		)
	}

	return &Model{
		state:      StateReview,
		styles:     styles,
		keys:       DefaultKeyMap(),
		session:    review.NewSession(opts.Logger),
		client:     client,
		backendURL: opts.BackendURL,
		interval:   opts.PollInterval,
		timeout:    opts.RequestTimeout,
		logger:     opts.Logger,
		spinner:    s,
		fileBar:    newBar(),
		totalBar:   newBar(),
		fading:     make(map[string]bool),
		copyText:   clipboard.WriteAll,
	}
}

// Session exposes the review session, mainly for tests.
func (m *Model) Session() *review.Session {
	return m.session
}

func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

type toggledMsg struct {
	start  bool
	status backend.Status
	err    error
}

type tickMsg struct {
	loop  review.Loop
	epoch uint64
}

type progressMsg struct {
	ticket   review.Ticket
	progress backend.Progress
	err      error
}

type objectMsg struct {
	ticket review.Ticket
	snap   *backend.Snapshot
	err    error
}

type submittedMsg struct {
	status backend.Status
	err    error
}

type recentMsg struct {
	items []backend.ProcessedItem
	err   error
}

type fadeDoneMsg struct {
	gen uint64
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		barWidth := msg.Width - 30
		if barWidth < 10 {
			barWidth = 10
		}
		m.fileBar.Width = barWidth
		m.totalBar.Width = barWidth

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case toggledMsg:
		return m, m.handleToggled(msg)

	case tickMsg:
		if !m.session.Live(msg.epoch) {
			// the loop this tick belonged to was stopped
			return m, nil
		}
		return m, tea.Batch(m.fetchCmd(msg.loop), m.tickCmd(msg.loop, msg.epoch))

	case progressMsg:
		m.session.ApplyProgress(msg.ticket, msg.progress, msg.err)

	case objectMsg:
		changed, _ := m.session.ApplySnapshot(msg.ticket, msg.snap, msg.err)
		return m, m.startFade(changed)

	case submittedMsg:
		return m, m.handleSubmitted(msg)

	case recentMsg:
		if msg.err != nil {
			m.logger.Warn("processed status failed", "err", msg.err)
			return m, nil
		}
		m.session.SetRecent(msg.items)

	case fadeDoneMsg:
		if msg.gen == m.fadeGen {
			m.fading = make(map[string]bool)
		}
	}

	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state == StateAlert {
		m.state = StateReview
		m.alert = ""
		return m, nil
	}

	switch {
	case keyMatches(msg, m.keys.Quit):
		return m, tea.Quit
	case keyMatches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case keyMatches(msg, m.keys.Start):
		if !m.session.RequestStart() {
			return m, nil
		}
		return m, tea.Batch(m.spinner.Tick, m.toggleCmd(true))
	case keyMatches(msg, m.keys.Stop):
		if !m.session.RequestStop() {
			return m, nil
		}
		return m, tea.Batch(m.spinner.Tick, m.toggleCmd(false))
	}

	display := m.session.Display()
	if !display.Controls {
		return m, nil
	}

	switch {
	case keyMatches(msg, m.keys.NotVulnerable):
		m.session.Select(review.DecisionNotVulnerable)
	case keyMatches(msg, m.keys.Vulnerable):
		m.session.Select(review.DecisionVulnerable)
	case keyMatches(msg, m.keys.NotRelevant):
		m.session.Select(review.DecisionNotRelevant)
	case keyMatches(msg, m.keys.Submit):
		return m, m.submit()
	case keyMatches(msg, m.keys.CopyCodeID):
		m.copyCodeID(display)
	}
	return m, nil
}

func (m *Model) submit() tea.Cmd {
	value, err := m.session.Submit()
	switch {
	case errors.Is(err, review.ErrNoDecision):
		m.showAlert("error", msgSelectDecision)
		return nil
	case err != nil:
		return nil
	}

	m.logger.Info("submitting decision", "decision", m.session.Decision().String(), "wire", value)
	client, timeout := m.client, m.timeout
	submitCmd := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		status, err := client.SubmitDecision(ctx, value)
		return submittedMsg{status: status, err: err}
	}
	return tea.Batch(m.spinner.Tick, submitCmd)
}

func (m *Model) handleSubmitted(msg submittedMsg) tea.Cmd {
	if msg.err != nil {
		m.session.SubmitFailed(msg.err)
		m.showAlert("error", fmt.Sprintf("%s\n%v", msgSubmitFailed, msg.err))
		return nil
	}
	changed := m.session.SubmitSucceeded()
	m.notice = "Decision submitted: " + msg.status.Status
	return tea.Batch(m.startFade(changed), m.recentCmd())
}

func (m *Model) handleToggled(msg toggledMsg) tea.Cmd {
	action := "stop"
	if msg.start {
		action = "start"
	}
	if msg.err != nil {
		m.session.ToggleFailed(msg.err)
		m.showAlert("error", fmt.Sprintf("Failed to %s processing: %v", action, msg.err))
		return nil
	}
	m.notice = msg.status.Status

	if !msg.start {
		return m.startFade(m.session.StopAcknowledged())
	}

	epoch, started := m.session.StartAcknowledged()
	if !started {
		return nil
	}
	return tea.Batch(
		m.fetchCmd(review.LoopProgress),
		m.fetchCmd(review.LoopObject),
		m.tickCmd(review.LoopProgress, epoch),
		m.tickCmd(review.LoopObject, epoch),
	)
}

func (m *Model) copyCodeID(display review.Display) {
	f, ok := display.Field("code_id")
	if !ok || f.Value == backend.Placeholder {
		m.notice = "No code id to copy"
		return
	}
	if err := m.copyText(f.Value); err != nil {
		m.notice = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	m.notice = "Copied code id " + f.Value
}

func (m *Model) showAlert(kind, text string) {
	m.state = StateAlert
	m.alertKind = kind
	m.alert = text
}

func (m *Model) startFade(keys []string) tea.Cmd {
	if len(keys) == 0 {
		return nil
	}
	m.fadeGen++
	m.fading = make(map[string]bool, len(keys))
	for _, k := range keys {
		m.fading[k] = true
	}
	gen := m.fadeGen
	return tea.Tick(fadeDuration, func(time.Time) tea.Msg {
		return fadeDoneMsg{gen: gen}
	})
}
