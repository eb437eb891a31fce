package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/quranchat/internal/conversation"
	"github.com/csheth/quranchat/internal/transcript"
)

func queryJob(backend conversation.Backend, req conversation.Request) jobRunner {
	history := append([]conversation.Turn(nil), req.History...)
	return func(ctx context.Context) (tea.Msg, error) {
		answer, err := backend.SubmitQuery(ctx, req.Query, history)
		return answerResultMsg{result: conversation.Result{
			RequestID: req.ID,
			Answer:    answer,
			Err:       err,
		}}, err
	}
}

func exportJob(path, sessionID, endpoint string, turns []conversation.Turn) jobRunner {
	snapshot := transcript.NewSnapshot(sessionID, endpoint, turns, time.Now())
	return func(context.Context) (tea.Msg, error) {
		err := transcript.Append(path, snapshot)
		return exportResultMsg{path: path, messages: len(snapshot.Messages), err: err}, err
	}
}
