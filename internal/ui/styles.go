package ui

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette the styles are built from.
type Theme struct {
	Primary    string
	Subtle     string
	Text       string
	Muted      string
	Background string
	Warning    string
	Danger     string
	Success    string
	Info       string
}

var DefaultTheme = Theme{
	Primary:    "#7D56F4",
	Subtle:     "#3C3C3C",
	Text:       "#FAFAFA",
	Muted:      "#737373",
	Background: "#1A1A1A",
	Warning:    "#F2B134",
	Danger:     "#FF5F5F",
	Success:    "#04B575",
	Info:       "#5FAFFF",
}

// Styles holds all the UI styles
type Styles struct {
	theme Theme

	Title     lipgloss.Style
	Normal    lipgloss.Style
	Help      lipgloss.Style
	HelpKey   lipgloss.Style
	HelpDesc  lipgloss.Style
	HelpSep   lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Faded     lipgloss.Style
	Highlight lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Pending   lipgloss.Style

	HeaderBar lipgloss.Style
	FooterBar lipgloss.Style
	Card      lipgloss.Style
	Border    lipgloss.Style

	Banner         lipgloss.Style
	ConflictBanner lipgloss.Style

	Button       lipgloss.Style
	ActiveButton lipgloss.Style
	Disabled     lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		theme: t,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Primary)),

		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Italic(true),

		HelpKey:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Primary)),
		HelpDesc: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		HelpSep:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Subtle)),

		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Width(22),

		Value: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		Faded: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Subtle)),

		Highlight: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Success)),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)),

		Pending: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)),

		HeaderBar: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color(t.Subtle)),

		FooterBar: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(lipgloss.Color(t.Subtle)),

		Card: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Subtle)),

		Border: lipgloss.NewStyle().
			Padding(1, 3).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Primary)),

		Banner: lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color(t.Background)).
			Background(lipgloss.Color(t.Info)),

		ConflictBanner: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(lipgloss.Color(t.Background)).
			Background(lipgloss.Color(t.Warning)),

		Button: lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color(t.Text)).
			Background(lipgloss.Color(t.Subtle)),

		ActiveButton: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(lipgloss.Color(t.Background)).
			Background(lipgloss.Color(t.Primary)),

		Disabled: lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color(t.Muted)).
			Background(lipgloss.Color(t.Background)),
	}
}
