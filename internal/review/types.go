// Package review holds the review-session state machine: which item is
// current, how it is presented, and the reviewer's pending decision.
//
// Nothing here makes network calls or takes locks. Callers drive a Session
// from a single event loop and perform the I/O it asks for.
package review

import (
	"github.com/mcao2/relevance-review/internal/backend"
)

// Decision is the reviewer's choice for the current token.
type Decision int

const (
	DecisionUnset Decision = iota
	DecisionNotVulnerable
	DecisionVulnerable
	DecisionNotRelevant
)

func (d Decision) String() string {
	switch d {
	case DecisionNotVulnerable:
		return "Not Vulnerable"
	case DecisionVulnerable:
		return "Vulnerable"
	case DecisionNotRelevant:
		return "Not Relevant"
	default:
		return "Unset"
	}
}

// WireValue maps the decision to the value the backend expects. ok is false
// for DecisionUnset.
func (d Decision) WireValue() (value int, ok bool) {
	switch d {
	case DecisionNotVulnerable:
		return 0, true
	case DecisionVulnerable:
		return 1, true
	case DecisionNotRelevant:
		return -1, true
	default:
		return 0, false
	}
}

// Token identifies a distinct review: the same item in a new phase is a new
// token.
type Token struct {
	ID    string
	Phase int
}

// TokenOf derives the token of a snapshot. Absent id or phase yield zero
// parts.
func TokenOf(snap *backend.Snapshot) Token {
	if snap == nil {
		return Token{}
	}
	return Token{ID: snap.ID.Raw(), Phase: snap.ReviewPhase}
}

// Mode is how the current phase is to be reviewed.
type Mode int

const (
	ModeBlind Mode = iota
	ModeAnalysis
	ModeConflict
)

// ModeOf derives the review mode. A conflict always wins over the analysis
// flag.
func ModeOf(snap *backend.Snapshot) Mode {
	switch {
	case snap == nil:
		return ModeBlind
	case snap.Conflict:
		return ModeConflict
	case snap.ShowAnalysis:
		return ModeAnalysis
	default:
		return ModeBlind
	}
}

func (m Mode) String() string {
	switch m {
	case ModeConflict:
		return "Second Review"
	case ModeAnalysis:
		return "Analysis Review"
	default:
		return "Blind Review"
	}
}

// BannerText is the instruction shown to the reviewer for the mode.
func (m Mode) BannerText() string {
	switch m {
	case ModeConflict:
		return "Conflict detected: review again with relevance analysis shown."
	case ModeAnalysis:
		return "Review with relevance analysis shown."
	default:
		return "Blind review: relevance analysis hidden."
	}
}
