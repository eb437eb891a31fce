package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"github.com/csheth/quranchat/internal/conversation"
	"github.com/csheth/quranchat/internal/quran"
)

type pageLayout struct {
	windowWidth    int
	windowHeight   int
	viewportWidth  int
	viewportHeight int
	composerHeight int
}

func newPageLayout() pageLayout {
	return pageLayout{
		viewportWidth:  80,
		viewportHeight: 20,
		composerHeight: 3,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth
	l.composerHeight = 3
	// composer header and hint, session meter, one status line and the
	// blank separators between them. View trims this to what it renders.
	const chrome = 7
	usable := height - chrome - l.composerHeight
	if usable < minViewportHeight {
		usable = minViewportHeight
	}
	l.viewportHeight = usable
}

type conversationView struct {
	content string
	// chipLines maps each chip, in conversation order, to its line.
	chipLines []int
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

func (m *model) buildConversationContent() conversationView {
	turns := m.session.Turns()
	if len(turns) == 0 {
		return conversationView{content: m.heroView()}
	}

	cb := &contentBuilder{}
	var chipLines []int
	chipIdx := 0
	for ti, turn := range turns {
		if ti > 0 {
			cb.WriteRune('\n')
		}
		cb.WriteString(turnLabel(turn))
		cb.WriteRune('\n')
		cb.WriteString(m.renderTurnBody(turn))
		cb.WriteRune('\n')
		if len(turn.Citations) == 0 {
			continue
		}
		cells := make([]string, 0, len(turn.Citations))
		for _, c := range turn.Citations {
			style := chipStyle
			if m.focus == focusCitations && chipIdx == m.chipCursor {
				style = chipCurrentStyle
			}
			cells = append(cells, style.Render(chipLabel(c)))
			chipIdx++
		}
		rows, rowOf := layoutChips(cells, m.wrapWidth(2))
		base := cb.Line()
		for _, row := range rowOf {
			chipLines = append(chipLines, base+row)
		}
		cb.WriteString(indentMultiline(strings.Join(rows, "\n"), "  "))
		cb.WriteRune('\n')
	}
	if m.session.Busy() {
		cb.WriteRune('\n')
		cb.WriteString(helperStyle.Render(fmt.Sprintf("%s Searching the Quran…", m.spinner.View())))
		cb.WriteRune('\n')
	}
	return conversationView{content: cb.String(), chipLines: chipLines}
}

func turnLabel(turn conversation.Turn) string {
	switch {
	case turn.Sender == conversation.SenderUser:
		return userLabelStyle.Render("You")
	case turn.Failed:
		return errorStyle.Render("Error")
	default:
		return agentLabelStyle.Render("Quran RAG")
	}
}

func (m *model) renderTurnBody(turn conversation.Turn) string {
	wrap := m.wrapWidth(4)
	if turn.Failed {
		return indentMultiline(errorStyle.Render(wordwrap.String(turn.Content, wrap)), "  ")
	}
	if turn.Sender == conversation.SenderAgent {
		if rendered, ok := m.renderMarkdown(turn.Content); ok {
			return rendered
		}
	}
	return indentMultiline(wordwrap.String(turn.Content, wrap), "  ")
}

// renderMarkdown runs agent text through glamour. ok is false when no
// renderer is available or rendering fails; callers fall back to plain text.
func (m *model) renderMarkdown(text string) (string, bool) {
	renderer := m.markdownRenderer()
	if renderer == nil {
		return "", false
	}
	out, err := renderer.Render(text)
	if err != nil {
		m.logger.Debug("markdown render failed", zap.Error(err))
		return "", false
	}
	return strings.Trim(out, "\n"), true
}

func chipLabel(c quran.Citation) string {
	return quran.Format(c).Placeholder(fmt.Sprintf("Surah %d", c.Surah))
}

// layoutChips packs rendered chips into rows no wider than width. rowOf[i] is
// the row chip i landed on.
func layoutChips(cells []string, width int) ([]string, []int) {
	var rows []string
	rowOf := make([]int, 0, len(cells))
	var current []string
	currentWidth := 0
	for _, cell := range cells {
		w := lipgloss.Width(cell)
		if len(current) > 0 && currentWidth+1+w > width {
			rows = append(rows, strings.Join(current, " "))
			current = nil
			currentWidth = 0
		}
		if len(current) > 0 {
			currentWidth++
		}
		current = append(current, cell)
		currentWidth += w
		rowOf = append(rowOf, len(rows))
	}
	if len(current) > 0 {
		rows = append(rows, strings.Join(current, " "))
	}
	return rows, rowOf
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func previewText(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
