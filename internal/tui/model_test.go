package tui

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/quranchat/internal/conversation"
	"github.com/csheth/quranchat/internal/quran"
)

const patienceQuestion = "What does the Quran say about patience?"

func pressKey(t *testing.T, m *model, msg tea.KeyMsg) tea.Cmd {
	t.Helper()
	_, cmd := m.Update(msg)
	return cmd
}

var cmdType = reflect.TypeOf(tea.Cmd(nil))

// drain runs cmd and every command batched or sequenced inside it, in order,
// and returns the messages they produce.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	// tea.Batch and tea.Sequence both hand back a slice of commands.
	if v := reflect.ValueOf(msg); v.Kind() == reflect.Slice && v.Type().Elem() == cmdType {
		var msgs []tea.Msg
		for i := 0; i < v.Len(); i++ {
			msgs = append(msgs, drain(v.Index(i).Interface().(tea.Cmd))...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

// askAndAnswer submits question and feeds everything the returned command
// produces back through Update, the way the program loop would.
func askAndAnswer(t *testing.T, m *model, question string) {
	t.Helper()
	m.composer.SetValue(question)
	cmd := pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("submit should start a query job")
	}
	for _, msg := range drain(cmd) {
		m.Update(msg)
	}
	if m.session.Busy() {
		t.Fatal("session should be idle after the answer")
	}
}

func TestLongQuestionIsSentWhole(t *testing.T) {
	backend := &fakeBackend{answer: patienceAnswer}
	m := newTestModel(t, backend)
	question := strings.Repeat("patience and prayer ", 300)

	askAndAnswer(t, m, question)

	turns := m.session.Turns()
	if len(turns) != 2 || turns[0].Content != question {
		t.Fatalf("user turn lost text: got %d chars want %d", len([]rune(turns[0].Content)), len(question))
	}
	if len(backend.queries) != 1 || backend.queries[0] != question {
		t.Fatalf("backend query lost text: %d queries", len(backend.queries))
	}
}

func TestViewFitsWindowAfterAnswer(t *testing.T) {
	backend := &fakeBackend{answer: patienceAnswer}
	m := newTestModel(t, backend)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	askAndAnswer(t, m, patienceQuestion)
	if m.infoMessage == "" {
		t.Fatal("expected a status line after the answer")
	}
	if got := lipgloss.Height(m.View()); got != 30 {
		t.Fatalf("frame height %d, want 30", got)
	}

	m.errorMessage = "The question could not be answered. You can ask again."
	if got := lipgloss.Height(m.View()); got != 30 {
		t.Fatalf("frame height with error and info %d, want 30", got)
	}
}

func TestEmptyConversationShowsHero(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	if view := m.View(); !strings.Contains(view, heroTagline) {
		t.Fatalf("expected hero prompt in view:\n%s", view)
	}
}

func TestSubmitAppendsUserTurnAndClearsComposer(t *testing.T) {
	m := newTestModel(t, &fakeBackend{answer: patienceAnswer})
	m.composer.SetValue(patienceQuestion)

	cmd := pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a query command")
	}
	if !m.session.Busy() {
		t.Fatal("session should be busy after submit")
	}
	turns := m.session.Turns()
	if len(turns) != 1 || turns[0].Sender != conversation.SenderUser || turns[0].Content != patienceQuestion {
		t.Fatalf("unexpected turns: %+v", turns)
	}
	if got := m.composer.Value(); got != "" {
		t.Fatalf("composer should be cleared, got %q", got)
	}
	if view := m.View(); !strings.Contains(view, "Searching the Quran") {
		t.Fatalf("expected busy indicator in view:\n%s", view)
	}
}

func TestSubmitIgnoresBlankInput(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m.composer.SetValue("   ")

	if cmd := pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatalf("blank input should not start a job, got %T", cmd)
	}
	if m.session.Len() != 0 || m.session.Busy() {
		t.Fatalf("blank input changed the session: len=%d busy=%v", m.session.Len(), m.session.Busy())
	}
}

func TestSubmitIgnoredWhileBusy(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m.composer.SetValue("first")
	pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m.composer.SetValue("second")
	if cmd := pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatal("second submit should be ignored while busy")
	}
	if m.session.Len() != 1 {
		t.Fatalf("expected one turn, got %d", m.session.Len())
	}
	if got := m.composer.Value(); got != "second" {
		t.Fatalf("rejected input should stay in the composer, got %q", got)
	}
	if m.canSend() {
		t.Fatal("send should be disabled while busy")
	}
}

func TestAltEnterInsertsNewline(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m.composer.SetValue("line one")

	if cmd := pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true}); cmd != nil {
		t.Fatalf("newline should not submit, got %T", cmd)
	}
	if got := m.composer.Value(); got != "line one\n" {
		t.Fatalf("expected trailing newline, got %q", got)
	}
	if m.session.Len() != 0 {
		t.Fatal("newline must not submit")
	}
}

func TestAnswerRendersCitationLabels(t *testing.T) {
	backend := &fakeBackend{answer: patienceAnswer}
	m := newTestModel(t, backend)
	askAndAnswer(t, m, patienceQuestion)

	turns := m.session.Turns()
	if len(turns) != 2 || len(turns[1].Citations) != 2 {
		t.Fatalf("unexpected turns: %+v", turns)
	}
	view := m.View()
	for _, want := range []string{"Q.S Al-Baqarah 153", "Q.S Aal-E-Imran 200", "Patience (sabr)"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
	if !strings.Contains(m.infoMessage, "2 citation(s)") {
		t.Fatalf("unexpected info message: %q", m.infoMessage)
	}
}

func TestNoDocumentsAnswerHidesCitations(t *testing.T) {
	backend := &fakeBackend{answer: conversation.Answer{
		Text:      conversation.NoDocumentsAnswer,
		Citations: []quran.Citation{{Surah: 2, FirstAyah: 1, LastAyah: 1}},
	}}
	m := newTestModel(t, backend)
	askAndAnswer(t, m, "Tell me about spaceships")

	if refs := m.citationRefs(); len(refs) != 0 {
		t.Fatalf("expected no citations, got %d", len(refs))
	}
	if view := m.View(); strings.Contains(view, "Q.S ") {
		t.Fatalf("citations leaked into view:\n%s", view)
	}
}

func TestFailedAnswerRendersError(t *testing.T) {
	backend := &fakeBackend{err: errors.New("connection refused")}
	m := newTestModel(t, backend)
	askAndAnswer(t, m, patienceQuestion)

	turns := m.session.Turns()
	if len(turns) != 2 || !turns[1].Failed {
		t.Fatalf("expected a failed agent turn, got %+v", turns)
	}
	if m.errorMessage == "" {
		t.Fatal("expected an error message")
	}
	if view := m.View(); !strings.Contains(view, "connection refused") {
		t.Fatalf("expected failure text in view:\n%s", view)
	}
}

func TestStaleAnswerIsIgnored(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m.composer.SetValue(patienceQuestion)
	pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m.Update(answerResultMsg{result: conversation.Result{RequestID: 99, Answer: patienceAnswer}})
	if !m.session.Busy() {
		t.Fatal("stale result must not end the request")
	}
	if m.session.Len() != 1 {
		t.Fatalf("stale result appended a turn: %d", m.session.Len())
	}
}

func TestJobEnvelopeDispatchesPayload(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m.composer.SetValue(patienceQuestion)
	pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m.Update(jobSignalMsg{Snapshot: jobSnapshot{Kind: jobKindQuery, Status: jobStatusRunning}})
	if !strings.Contains(m.sessionMeterView(), "Query running") {
		t.Fatalf("expected running badge, got %q", m.sessionMeterView())
	}

	m.Update(jobResultEnvelope{
		Snapshot: jobSnapshot{Kind: jobKindQuery, Status: jobStatusSucceeded, Duration: 1500 * time.Millisecond},
		Payload:  answerResultMsg{result: conversation.Result{RequestID: 1, Answer: patienceAnswer}},
	})
	if m.session.Busy() {
		t.Fatal("envelope payload should complete the request")
	}
	meter := m.sessionMeterView()
	for _, want := range []string{"Turns 2", "IDLE", "Citations 2", "Last query succeeded (1.5s)"} {
		if !strings.Contains(meter, want) {
			t.Fatalf("expected %q in meter %q", want, meter)
		}
	}
}

func TestCitationFocusAndReveal(t *testing.T) {
	backend := &fakeBackend{answer: patienceAnswer}
	m := newTestModel(t, backend)
	askAndAnswer(t, m, patienceQuestion)

	pressKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusCitations || m.chipCursor != 0 {
		t.Fatalf("tab should focus the first citation (focus=%v cursor=%d)", m.focus, m.chipCursor)
	}
	if m.composer.Focused() {
		t.Fatal("composer should blur while citations are focused")
	}

	pressKey(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.chipCursor != 1 {
		t.Fatalf("right should move to the next citation, got %d", m.chipCursor)
	}
	pressKey(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.chipCursor != 0 {
		t.Fatalf("cursor should wrap around, got %d", m.chipCursor)
	}
	pressKey(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.chipCursor != 1 {
		t.Fatalf("left should wrap to the last citation, got %d", m.chipCursor)
	}

	pressKey(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.revealed {
		t.Fatal("space should reveal the verse")
	}
	panel := m.versePanelView()
	if !strings.Contains(panel, "Q.S Aal-E-Imran 200") || !strings.Contains(panel, "persevere and endure") {
		t.Fatalf("unexpected verse panel:\n%s", panel)
	}

	pressKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.focus != focusComposer || m.revealed || !m.composer.Focused() {
		t.Fatalf("esc should return to the composer (focus=%v revealed=%v)", m.focus, m.revealed)
	}
	if m.versePanelView() != "" {
		t.Fatal("verse panel should close with esc")
	}
}

func TestTabWithoutCitationsKeepsComposer(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	pressKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusComposer {
		t.Fatal("focus should stay on the composer without citations")
	}
	if m.infoMessage != "No citations yet." {
		t.Fatalf("unexpected info message: %q", m.infoMessage)
	}
}

func TestUnknownSurahChipUsesPlaceholder(t *testing.T) {
	backend := &fakeBackend{answer: conversation.Answer{
		Text:      "An answer",
		Citations: []quran.Citation{{Surah: 200, FirstAyah: 1, LastAyah: 3}},
	}}
	m := newTestModel(t, backend)
	askAndAnswer(t, m, "q")

	if view := m.View(); !strings.Contains(view, "Q.S Surah 200 1-3") {
		t.Fatalf("expected placeholder label in view:\n%s", view)
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	if !m.helpVisible {
		t.Fatal("ctrl+k should open help")
	}
	if view := m.View(); !strings.Contains(view, "How it works") || !strings.Contains(view, "--transcript") {
		t.Fatalf("expected help panel in view:\n%s", view)
	}
	pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	if m.helpVisible {
		t.Fatal("ctrl+k should close help")
	}
}

func TestExportRequiresTranscriptPath(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	if cmd := pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlS}); cmd != nil {
		t.Fatal("export without a path should not start a job")
	}
	if !strings.Contains(m.errorMessage, "--transcript") {
		t.Fatalf("unexpected error message: %q", m.errorMessage)
	}
}

func TestExportStartsJobWithConversation(t *testing.T) {
	backend := &fakeBackend{answer: patienceAnswer}
	m := newTestModel(t, backend)
	m.config.TranscriptPath = t.TempDir() + "/transcripts.json"

	if cmd := pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlS}); cmd != nil {
		t.Fatal("empty conversation should not be exported")
	}

	askAndAnswer(t, m, patienceQuestion)
	if cmd := pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlS}); cmd == nil {
		t.Fatal("expected an export job")
	}

	m.Update(exportResultMsg{path: m.config.TranscriptPath, messages: 2})
	if !strings.Contains(m.infoMessage, "Exported 2 message(s)") {
		t.Fatalf("unexpected info message: %q", m.infoMessage)
	}
}

func TestMissingBackendRecordsFailure(t *testing.T) {
	m := newTestModel(t, nil)
	m.composer.SetValue(patienceQuestion)
	if cmd := pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatal("no job should start without a backend")
	}
	turns := m.session.Turns()
	if m.session.Busy() || len(turns) != 2 || !turns[1].Failed {
		t.Fatalf("expected immediate failure turn, got %+v", turns)
	}
}
