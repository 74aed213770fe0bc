package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines the keybindings for the application
type KeyMap struct {
	NotVulnerable key.Binding
	Vulnerable    key.Binding
	NotRelevant   key.Binding
	Submit        key.Binding
	Start         key.Binding
	Stop          key.Binding
	CopyCodeID    key.Binding
	Help          key.Binding
	Quit          key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NotVulnerable: key.NewBinding(
			key.WithKeys("q", "Q"),
			key.WithHelp("q", "not vulnerable"),
		),
		Vulnerable: key.NewBinding(
			key.WithKeys("w", "W"),
			key.WithHelp("w", "vulnerable"),
		),
		NotRelevant: key.NewBinding(
			key.WithKeys("e", "E"),
			key.WithHelp("e", "not relevant"),
		),
		Submit: key.NewBinding(
			key.WithKeys("s", "S"),
			key.WithHelp("s", "submit"),
		),
		Start: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "start processing"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop processing"),
		),
		CopyCodeID: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy code id"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// DecisionKeys returns the bindings that are only live while an item is shown.
func (k KeyMap) DecisionKeys() []key.Binding {
	return []key.Binding{k.NotVulnerable, k.Vulnerable, k.NotRelevant, k.Submit}
}

func keyMatches(msg tea.KeyMsg, target key.Binding) bool {
	return key.Matches(msg, target)
}
