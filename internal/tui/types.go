package tui

import (
	"time"

	"github.com/csheth/quranchat/internal/conversation"
)

const heroTagline = "What do you want to know from the Quran?"

const (
	minViewportWidth          = 40
	minViewportHeight         = 6
	viewportHorizontalPadding = 4
	verseWrapPadding          = 6
)

const composerPlaceholder = "Ask about the Quran…"

type focusArea int

const (
	focusComposer focusArea = iota
	focusCitations
)

// chipRef addresses one citation inside the conversation.
type chipRef struct {
	turn     int
	citation int
}

type answerResultMsg struct {
	result conversation.Result
}

type exportResultMsg struct {
	path     string
	messages int
	err      error
}

type jobRecord struct {
	kind     jobKind
	status   jobStatus
	duration time.Duration
}
