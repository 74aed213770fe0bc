package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/mcao2/relevance-review/internal/review"
)

// longFields wrap instead of being cut to one line.
var longFields = map[string]bool{
	"response":          true,
	review.AnalysisField: true,
}

func (m *Model) View() string {
	if m.state == StateAlert {
		content := m.alertView()
		if m.width > 0 && m.height > 0 {
			content = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
		}
		return content
	}

	parts := []string{
		m.headerView(),
		m.progressView(),
		m.itemView(),
	}
	if controls := m.decisionView(); controls != "" {
		parts = append(parts, controls)
	}
	if recent := m.recentView(); recent != "" {
		parts = append(parts, recent)
	}
	if m.notice != "" {
		parts = append(parts, m.styles.Help.Render("  "+m.notice))
	}
	if m.showHelp {
		parts = append(parts, m.renderFullHelp())
	} else {
		parts = append(parts, m.renderFooter())
	}
	return strings.Join(parts, "\n")
}

func (m *Model) headerView() string {
	title := m.styles.HelpKey.Render("Relevance Review")
	if m.backendURL != "" {
		title += m.styles.HelpDesc.Render("  " + m.backendURL)
	}

	var state string
	switch {
	case m.session.Toggling():
		state = m.spinner.View() + m.styles.Pending.Render(" working...")
	case m.session.Processing():
		state = m.styles.Success.Render("● processing")
	default:
		state = m.styles.HelpDesc.Render("○ stopped")
	}

	gap := ""
	if m.width > 0 {
		if n := m.width - lipgloss.Width(title) - lipgloss.Width(state) - 4; n > 0 {
			gap = strings.Repeat(" ", n)
		}
	}
	return m.styles.HeaderBar.Render(title + gap + state)
}

func (m *Model) progressView() string {
	p, ok := m.session.Progress()
	if !ok {
		return m.styles.Help.Render("  File  -\n  Total -")
	}
	file := clampPercent(p.FileProgress)
	total := clampPercent(p.TotalProgress)
	return fmt.Sprintf("  File  %s %6.2f%%\n  Total %s %6.2f%%",
		m.fileBar.ViewAs(file/100), file,
		m.totalBar.ViewAs(total/100), total,
	)
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

func (m *Model) itemView() string {
	d := m.session.Display()
	width := m.contentWidth()

	lines := []string{
		m.styles.Title.Render(d.Title),
		m.styles.Normal.Render(Truncate(d.Filename, width)),
	}

	if d.Banner.Visible {
		style := m.styles.Banner
		if d.Banner.Mode == review.ModeConflict {
			style = m.styles.ConflictBanner
		}
		lines = append(lines, "", style.Render(fmt.Sprintf("Review %d", d.Banner.Phase))+" "+m.styles.Normal.Render(d.Banner.Text))
	}
	lines = append(lines, "")

	valueWidth := width - m.styles.Label.GetWidth()
	if valueWidth < 10 {
		valueWidth = 10
	}
	for _, f := range d.Fields {
		if f.Hidden {
			continue
		}
		style := m.styles.Value
		if m.fading[f.Key] {
			style = m.styles.Faded
		}

		value := f.Value
		if longFields[f.Key] {
			value = lipgloss.NewStyle().Width(valueWidth).Render(value)
		} else {
			value = Truncate(value, valueWidth)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			m.styles.Label.Render(FieldLabel(f.Key)),
			style.Render(value),
		))
	}

	return m.styles.Card.Render(strings.Join(lines, "\n"))
}

func (m *Model) decisionView() string {
	d := m.session.Display()
	if !d.Controls {
		return ""
	}

	current := m.session.Decision()
	button := func(k string, decision review.Decision) string {
		label := fmt.Sprintf("[%s] %s", k, decision)
		if current == decision {
			return m.styles.ActiveButton.Render(label)
		}
		return m.styles.Button.Render(label)
	}

	submit := m.styles.Button.Render("[s] Submit Decision")
	if m.session.Submitting() {
		submit = m.styles.Disabled.Render(m.spinner.View() + " Submitting...")
	}

	row := strings.Join([]string{
		button("q", review.DecisionNotVulnerable),
		button("w", review.DecisionVulnerable),
		button("e", review.DecisionNotRelevant),
		submit,
	}, " ")

	status := m.session.Status()
	var statusLine string
	switch status.Kind {
	case review.StatusSelected:
		statusLine = m.styles.Highlight.Render(status.Text)
	case review.StatusPending:
		statusLine = m.styles.Pending.Render(status.Text)
	case review.StatusFailed:
		statusLine = m.styles.Error.Render(status.Text)
	}

	if statusLine == "" {
		return "  " + row
	}
	return "  " + row + "\n  " + statusLine
}

func (m *Model) recentView() string {
	items := m.session.Recent()
	if len(items) == 0 {
		return ""
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID.String()+"/"+it.SubID.String())
	}
	return m.styles.HelpDesc.Render(Truncate("  Recently processed: "+strings.Join(ids, ", "), m.contentWidth()))
}

func (m *Model) alertView() string {
	title := m.styles.Error.Render("✗ Error")
	if m.alertKind != "error" {
		title = m.styles.Success.Render("✓ Notice")
	}

	content := m.styles.Border.Render(
		lipgloss.JoinVertical(lipgloss.Center,
			title,
			"",
			m.styles.Normal.Render(m.alert),
		),
	)

	help := m.renderHelpLine([]helpEntry{{"any key", "continue"}})
	return lipgloss.JoinVertical(lipgloss.Center, "", content, "", help)
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	if w := m.width - 4; w > 20 {
		return w
	}
	return 20
}

// Help rendering

type helpEntry struct {
	key  string
	desc string
}

func (m *Model) renderHelpLine(entries []helpEntry) string {
	var parts []string
	sep := m.styles.HelpSep.Render(" · ")
	for _, e := range entries {
		parts = append(parts, m.styles.HelpKey.Render(e.key)+" "+m.styles.HelpDesc.Render(e.desc))
	}
	return strings.Join(parts, sep)
}

func (m *Model) renderFooter() string {
	bindings := []key.Binding{m.keys.Start}
	if m.session.Processing() {
		bindings = []key.Binding{m.keys.Stop}
	}
	if m.session.Display().Controls {
		bindings = append(bindings, m.keys.DecisionKeys()...)
		bindings = append(bindings, m.keys.CopyCodeID)
	}
	bindings = append(bindings, m.keys.Help, m.keys.Quit)

	entries := make([]helpEntry, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		entries = append(entries, helpEntry{h.Key, h.Desc})
	}
	return m.styles.FooterBar.Render(m.renderHelpLine(entries))
}

func (m *Model) renderFullHelp() string {
	sections := []struct {
		title   string
		entries []helpEntry
	}{
		{"Processing", []helpEntry{
			{"p", "start processing"},
			{"x", "stop processing"},
		}},
		{"Decision (while an item is shown)", []helpEntry{
			{"q", "not vulnerable"},
			{"w", "vulnerable"},
			{"e", "not relevant"},
			{"s", "submit decision"},
			{"c", "copy code id"},
		}},
		{"General", []helpEntry{
			{"?", "toggle this help"},
			{"ctrl+c", "quit"},
		}},
	}

	var lines []string
	for _, sec := range sections {
		lines = append(lines, m.styles.HelpKey.Render("  "+sec.title))
		for _, e := range sec.entries {
			lines = append(lines, fmt.Sprintf("    %s  %s",
				m.styles.HelpKey.Render(fmt.Sprintf("%-8s", e.key)),
				m.styles.HelpDesc.Render(e.desc),
			))
		}
	}
	return m.styles.FooterBar.Render(strings.Join(lines, "\n"))
}

// FieldLabel turns a field key like prompt_eval_count into "Prompt Eval Count".
func FieldLabel(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		switch w {
		case "id":
			words[i] = "ID"
		case "":
		default:
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func Truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if runewidth.StringWidth(s) > maxLen {
		return runewidth.Truncate(s, maxLen, "…")
	}
	return s
}
