// Package conversation owns the chat log and the Idle/Busy orchestration of
// one request/response cycle against a RAG backend.
package conversation

import (
	"context"
	"time"

	"github.com/csheth/quranchat/internal/quran"
)

// Sender identifies who authored a turn.
type Sender string

const (
	SenderUser  Sender = "USER"
	SenderAgent Sender = "AGENT"
)

// NoDocumentsAnswer is the backend's answer when retrieval found nothing.
// Citations attached to it are dropped.
const NoDocumentsAnswer = "No relevant documents found."

// Turn is one message in the conversation. Turns are immutable once appended.
type Turn struct {
	Sender    Sender
	Content   string
	Citations []quran.Citation
	At        time.Time

	// Failed marks a synthetic agent turn standing in for a failed request.
	Failed bool
}

// Answer is a successful backend reply.
type Answer struct {
	Text      string
	Citations []quran.Citation
}

// Backend submits a query plus the conversation so far and returns the answer.
type Backend interface {
	SubmitQuery(ctx context.Context, query string, history []Turn) (Answer, error)
}

func cloneCitations(citations []quran.Citation) []quran.Citation {
	if len(citations) == 0 {
		return nil
	}
	return append([]quran.Citation(nil), citations...)
}
