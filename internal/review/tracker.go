package review

import (
	"errors"

	"github.com/mcao2/relevance-review/internal/backend"
)

var (
	ErrNoDecision     = errors.New("no decision selected")
	ErrNotActive      = errors.New("no item is being reviewed")
	ErrSubmitInFlight = errors.New("a submission is already in progress")
)

// StatusKind classifies the decision status line.
type StatusKind int

const (
	StatusNone StatusKind = iota
	StatusSelected
	StatusPending
	StatusFailed
)

// Status is the decision status indicator.
type Status struct {
	Kind     StatusKind
	Decision Decision
	Text     string
}

// Tracker holds the reviewer's in-progress decision for the current token.
//
// Per token it moves Unset -> Selected -> Submitting -> (cleared | Selected
// again after a failure). A token change resets it to Unset from any state.
type Tracker struct {
	decision   Decision
	token      Token
	hasToken   bool
	submitting bool
	status     Status
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) Decision() Decision { return t.decision }

func (t *Tracker) Status() Status { return t.status }

func (t *Tracker) Submitting() bool { return t.submitting }

// Token returns the last seen token, if any.
func (t *Tracker) Token() (Token, bool) { return t.token, t.hasToken }

// Select overwrites the current choice.
func (t *Tracker) Select(d Decision) {
	if d == DecisionUnset {
		return
	}
	t.decision = d
	t.status = Status{Kind: StatusSelected, Decision: d, Text: "Selected: " + d.String()}
}

// ResetIfTokenChanged clears the decision when snap is a different review
// than the last one seen. It must see every snapshot.
func (t *Tracker) ResetIfTokenChanged(snap *backend.Snapshot) bool {
	token := TokenOf(snap)
	if t.hasToken && token == t.token {
		return false
	}
	t.decision = DecisionUnset
	t.status = Status{}
	t.token = token
	t.hasToken = true
	return true
}

// Reset forgets the decision and the last token.
func (t *Tracker) Reset() {
	t.decision = DecisionUnset
	t.status = Status{}
	t.token = Token{}
	t.hasToken = false
}

// BeginSubmit returns the wire value to send and marks the tracker as
// submitting. It fails without side effects when nothing is selected.
func (t *Tracker) BeginSubmit() (int, error) {
	if t.submitting {
		return 0, ErrSubmitInFlight
	}
	value, ok := t.decision.WireValue()
	if !ok {
		return 0, ErrNoDecision
	}
	t.submitting = true
	t.status = Status{Kind: StatusPending, Decision: t.decision, Text: "Submitting decision..."}
	return value, nil
}

// FinishSubmit re-enables submission. On failure the choice is kept so the
// reviewer can retry.
func (t *Tracker) FinishSubmit(err error) {
	t.submitting = false
	if err == nil {
		return
	}
	if t.decision == DecisionUnset {
		// the item moved on while the request was in flight
		t.status = Status{Kind: StatusFailed, Text: "Submit failed"}
		return
	}
	t.status = Status{
		Kind:     StatusFailed,
		Decision: t.decision,
		Text:     "Submit failed, " + t.decision.String() + " still selected",
	}
}
