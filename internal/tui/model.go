// Package tui is the interactive terminal client for the Quran RAG backend.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/csheth/quranchat/internal/conversation"
	"github.com/csheth/quranchat/internal/quran"
)

const defaultMarkdownStyle = "dark"

// Config wires runtime options into the TUI program. Endpoint is recorded in
// exported transcripts. SessionID tags log lines and transcripts and is
// generated when empty.
type Config struct {
	Backend        conversation.Backend
	Endpoint       string
	Logger         *zap.Logger
	MarkdownStyle  string
	TranscriptPath string
	SessionID      string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.SessionID == "" {
		config.SessionID = uuid.NewString()
	}
	if config.MarkdownStyle == "" {
		config.MarkdownStyle = defaultMarkdownStyle
	}
	logger = logger.With(zap.String("session_id", config.SessionID))

	composer := textarea.New()
	composer.Placeholder = composerPlaceholder
	composer.Prompt = ""
	composer.ShowLineNumbers = false
	composer.CharLimit = 0
	composer.SetWidth(80)
	composer.SetHeight(3)
	composer.FocusedStyle.CursorLine = lipgloss.NewStyle()
	composer.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	composer.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	return &model{
		config:        config,
		logger:        logger,
		session:       conversation.NewSession(conversation.WithLogger(logger)),
		jobs:          newJobBus(logger),
		keys:          defaultKeyMap(),
		composer:      composer,
		spinner:       spin,
		viewport:      vp,
		layout:        newPageLayout(),
		focus:         focusComposer,
		lastJobs:      map[jobKind]jobRecord{},
		viewportDirty: true,
		rendererWidth: -1,
	}
}

type model struct {
	config  Config
	logger  *zap.Logger
	session *conversation.Session
	jobs    *jobBus
	keys    keyMap

	composer textarea.Model
	spinner  spinner.Model
	viewport viewport.Model
	layout   pageLayout

	renderer      *glamour.TermRenderer
	rendererWidth int

	focus      focusArea
	chipCursor int
	revealed   bool
	chipLines  []int

	helpVisible   bool
	viewportDirty bool
	followTail    bool
	lastJobs      map[jobKind]jobRecord

	infoMessage  string
	errorMessage string
}

func (m *model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.viewport.Width = m.layout.viewportWidth
		m.viewport.Height = m.layout.viewportHeight
		m.composer.SetWidth(m.layout.viewportWidth)
		m.composer.SetHeight(m.layout.composerHeight)
		m.markViewportDirty()
		return m, nil
	case spinner.TickMsg:
		if !m.session.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.markViewportDirty()
		return m, cmd
	case jobSignalMsg:
		m.recordJob(msg.Snapshot)
		return m, nil
	case jobResultEnvelope:
		m.recordJob(msg.Snapshot)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case answerResultMsg:
		return m.handleAnswer(msg)
	case exportResultMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("export failed: %v", msg.err)
			return m, nil
		}
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Exported %d message(s) to %s", msg.messages, msg.path)
		return m, nil
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		return m, nil
	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()
	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.HalfViewUp()
		m.followTail = false
		return m, nil
	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.HalfViewDown()
		return m, nil
	}
	if m.focus == focusCitations {
		return m.handleCitationKey(msg)
	}
	return m.handleComposerKey(msg)
}

func (m *model) handleComposerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.Newline):
		m.composer.InsertString("\n")
		return m, nil
	case key.Matches(msg, m.keys.FocusChips):
		m.focusCitations()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.composer.Reset()
		m.infoMessage = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m *model) handleCitationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.focusComposer()
	case key.Matches(msg, m.keys.NextChip):
		m.moveChip(1)
	case key.Matches(msg, m.keys.PrevChip):
		m.moveChip(-1)
	case key.Matches(msg, m.keys.Reveal):
		m.revealed = !m.revealed
	}
	return m, nil
}

// submit hands the composer text to the session. Rejected submits (blank
// input, request in flight) leave the composer untouched.
func (m *model) submit() tea.Cmd {
	input := m.composer.Value()
	req, ok := m.session.Submit(input)
	if !ok {
		return nil
	}
	m.composer.Reset()
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Asked: %s", previewText(input, 60))
	m.followTail = true
	m.markViewportDirty()
	if m.config.Backend == nil {
		m.session.Complete(conversation.Result{RequestID: req.ID, Err: errors.New("no backend configured")})
		return nil
	}
	return tea.Batch(m.jobs.Start(jobKindQuery, queryJob(m.config.Backend, req)), m.spinner.Tick)
}

func (m *model) handleAnswer(msg answerResultMsg) (tea.Model, tea.Cmd) {
	if !m.session.Complete(msg.result) {
		return m, nil
	}
	if msg.result.Err != nil {
		m.errorMessage = "The question could not be answered. You can ask again."
		m.infoMessage = ""
	} else {
		turns := m.session.Turns()
		last := turns[len(turns)-1]
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Answer received with %d citation(s).", len(last.Citations))
	}
	m.followTail = true
	m.markViewportDirty()
	return m, nil
}

func (m *model) exportCmd() tea.Cmd {
	if m.config.TranscriptPath == "" {
		m.errorMessage = "Transcript export is off. Start with --transcript <file>."
		return nil
	}
	if m.session.Len() == 0 {
		m.infoMessage = "Nothing to export yet."
		return nil
	}
	return m.jobs.Start(jobKindExport, exportJob(m.config.TranscriptPath, m.config.SessionID, m.config.Endpoint, m.session.Turns()))
}

func (m *model) recordJob(snapshot jobSnapshot) {
	m.lastJobs[snapshot.Kind] = jobRecord{
		kind:     snapshot.Kind,
		status:   snapshot.Status,
		duration: snapshot.Duration,
	}
}

func (m *model) canSend() bool {
	return !m.session.Busy() && strings.TrimSpace(m.composer.Value()) != ""
}

// citationRefs lists every citation in conversation order.
func (m *model) citationRefs() []chipRef {
	var refs []chipRef
	for ti, turn := range m.session.Turns() {
		for ci := range turn.Citations {
			refs = append(refs, chipRef{turn: ti, citation: ci})
		}
	}
	return refs
}

func (m *model) selectedCitation() (quran.Citation, bool) {
	refs := m.citationRefs()
	if m.chipCursor < 0 || m.chipCursor >= len(refs) {
		return quran.Citation{}, false
	}
	ref := refs[m.chipCursor]
	return m.session.Turns()[ref.turn].Citations[ref.citation], true
}

func (m *model) focusCitations() {
	refs := m.citationRefs()
	if len(refs) == 0 {
		m.infoMessage = "No citations yet."
		return
	}
	m.focus = focusCitations
	m.composer.Blur()
	// Start on the newest answer's first citation.
	last := refs[len(refs)-1].turn
	m.chipCursor = len(refs) - 1
	for i, ref := range refs {
		if ref.turn == last {
			m.chipCursor = i
			break
		}
	}
	m.revealed = false
	m.markViewportDirty()
}

func (m *model) focusComposer() {
	m.focus = focusComposer
	m.revealed = false
	m.composer.Focus()
	m.markViewportDirty()
}

func (m *model) moveChip(delta int) {
	total := len(m.citationRefs())
	if total == 0 {
		return
	}
	m.chipCursor = ((m.chipCursor+delta)%total + total) % total
	m.followTail = false
	m.markViewportDirty()
}

func (m *model) markdownRenderer() *glamour.TermRenderer {
	width := m.wrapWidth(4)
	if width == m.rendererWidth {
		return m.renderer
	}
	m.rendererWidth = width
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.config.MarkdownStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.logger.Warn("markdown renderer unavailable", zap.String("style", m.config.MarkdownStyle), zap.Error(err))
		m.renderer = nil
		return nil
	}
	m.renderer = renderer
	return renderer
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if m.viewportDirty {
		m.refreshViewport()
	}
}

func (m *model) refreshViewport() {
	m.viewportDirty = false
	view := m.buildConversationContent()
	m.chipLines = view.chipLines
	m.viewport.SetContent(view.content)
	switch {
	case m.focus == focusCitations && m.chipCursor < len(m.chipLines):
		m.ensureLineVisible(m.chipLines[m.chipCursor])
	case m.followTail:
		m.viewport.GotoBottom()
	}
}

func (m *model) ensureLineVisible(line int) {
	if line < m.viewport.YOffset {
		m.viewport.SetYOffset(line)
		return
	}
	if bottom := m.viewport.YOffset + m.viewport.Height - 1; line > bottom {
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}
