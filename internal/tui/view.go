package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/quranchat/internal/quran"
)

func (m *model) View() string {
	below := m.belowViewport()
	m.fitViewport(below)
	m.refreshViewportIfDirty()
	return joinNonEmpty(append([]string{m.viewport.View()}, below...))
}

// belowViewport renders everything stacked under the conversation.
func (m *model) belowViewport() []string {
	var parts []string
	if panel := m.versePanelView(); panel != "" {
		parts = append(parts, panel)
	}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView(), m.helpView())
	}
	return append(parts, m.composerPanel(), m.sessionMeterView())
}

// fitViewport gives the viewport whatever rows the window has left once the
// parts below it and their blank separators are counted.
func (m *model) fitViewport(below []string) {
	if m.layout.windowHeight == 0 {
		return
	}
	used := 0
	for _, part := range below {
		if strings.TrimSpace(part) == "" {
			continue
		}
		used += lipgloss.Height(part) + 1
	}
	height := m.layout.windowHeight - used
	if height < minViewportHeight {
		height = minViewportHeight
	}
	if height != m.viewport.Height {
		m.viewport.Height = height
		m.markViewportDirty()
	}
}

func (m *model) heroView() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		heroTitleStyle.Render(heroTagline),
		taglineStyle.Render("Answers are grounded in retrieved verses; each citation can be opened below."),
	)
}

func (m *model) composerPanel() string {
	header := sectionHeaderStyle.Render("Ask")
	if m.session.Busy() {
		header = fmt.Sprintf("%s %s", header, m.spinner.View())
	}
	send := sendMutedStyle.Render("send")
	if m.canSend() {
		send = sendActiveStyle.Render("send")
	}
	return strings.Join([]string{
		lipgloss.JoinHorizontal(lipgloss.Top, header, " ", send),
		m.composer.View(),
		helperStyle.Render(m.composerHelpText()),
	}, "\n")
}

func (m *model) composerHelpText() string {
	if m.focus == focusCitations {
		return "←/→: move • Enter/Space: show verse • Esc: back to composer"
	}
	return "Enter: send • Alt+Enter: newline • Tab: citations • Ctrl+K: help"
}

// versePanelView shows the selected citation's label and verse text.
func (m *model) versePanelView() string {
	if !m.revealed || m.focus != focusCitations {
		return ""
	}
	c, ok := m.selectedCitation()
	if !ok {
		return ""
	}
	label := quran.Format(c)
	text := strings.TrimSpace(c.Text)
	if text == "" {
		text = helperStyle.Render("No verse text was returned for this citation.")
	} else {
		text = wordwrap.String(text, m.wrapWidth(verseWrapPadding))
	}
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		verseTitleStyle.Render(label.Placeholder(fmt.Sprintf("Surah %d", c.Surah))),
		text,
	)
	return versePanelStyle.Render(body)
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func (m *model) sessionMeterView() string {
	stats := []string{
		fmt.Sprintf("Turns %d", m.session.Len()),
		strings.ToUpper(m.session.Status().String()),
	}
	if chips := len(m.citationRefs()); chips > 0 {
		stats = append(stats, fmt.Sprintf("Citations %d", chips))
	}
	if badges := m.jobStatusBadges(); len(badges) > 0 {
		stats = append(stats, badges...)
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) jobStatusBadges() []string {
	var badges []string
	if rec, ok := m.lastJobs[jobKindQuery]; ok {
		switch rec.status {
		case jobStatusRunning:
			badges = append(badges, "Query running")
		default:
			badges = append(badges, fmt.Sprintf("Last query %s (%s)", rec.status, rec.duration.Round(10*time.Millisecond)))
		}
	}
	if rec, ok := m.lastJobs[jobKindExport]; ok && rec.status != jobStatusRunning {
		badges = append(badges, fmt.Sprintf("Export %s", rec.status))
	}
	return badges
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"Enter", "Send"},
		{"Alt+Enter", "Newline"},
		{"Tab", "Citations"},
		{"←/→", "Move citation"},
		{"Space", "Show verse"},
		{"Esc", "Back"},
		{"PgUp/PgDn", "Scroll"},
		{"Ctrl+S", "Export"},
		{"Ctrl+C", "Quit"},
	}
	rows := []string{sectionHeaderStyle.Render("Keyboard")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + hint.Description + "  ")
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func (m *model) helpView() string {
	export := "• Ctrl+S appends this session to the transcript file."
	if m.config.TranscriptPath == "" {
		export = "• start with --transcript <file> to enable Ctrl+S export."
	}
	lines := []string{
		sectionHeaderStyle.Render("How it works"),
		helperStyle.Render("• each question is sent with the whole conversation so follow-ups keep their context."),
		helperStyle.Render("• answers list their sources as Q.S citations; Tab focuses them and Space opens the verse."),
		helperStyle.Render("• only one question is in flight at a time; the composer stays editable while you wait."),
		helperStyle.Render(export),
		helperStyle.Render("• Ctrl+K hides this panel, Ctrl+C quits."),
	}
	return helpBoxStyle.Render(strings.Join(lines, "\n"))
}
