// Package transcript writes conversation snapshots to a JSON file.
//
// The file holds a JSON array of entries. Each export appends one entry; the
// application never reads transcripts back.
package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/csheth/quranchat/internal/conversation"
	"github.com/csheth/quranchat/internal/quran"
)

const entryTypeConversation = "conversation"

// Snapshot captures one session at export time.
type Snapshot struct {
	EntryType  string    `json:"entryType"`
	SessionID  string    `json:"sessionId"`
	CapturedAt time.Time `json:"capturedAt"`
	Endpoint   string    `json:"endpoint,omitempty"`
	Messages   []Message `json:"messages"`
}

// Message is one exported turn.
type Message struct {
	Sender    string     `json:"sender"`
	Content   string     `json:"content"`
	Failed    bool       `json:"failed,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
	Citations []Citation `json:"citations,omitempty"`
}

// Citation keeps the rendered label next to the raw reference.
type Citation struct {
	Label     string `json:"label"`
	Surah     int    `json:"surah"`
	FirstAyah int    `json:"firstAyah"`
	LastAyah  int    `json:"lastAyah"`
	Text      string `json:"text,omitempty"`
}

// NewSnapshot converts turns into an exportable snapshot.
func NewSnapshot(sessionID, endpoint string, turns []conversation.Turn, capturedAt time.Time) Snapshot {
	messages := make([]Message, 0, len(turns))
	for _, turn := range turns {
		msg := Message{
			Sender:    string(turn.Sender),
			Content:   turn.Content,
			Failed:    turn.Failed,
			Timestamp: turn.At,
		}
		for _, c := range turn.Citations {
			msg.Citations = append(msg.Citations, Citation{
				Label:     quran.Format(c).String(),
				Surah:     c.Surah,
				FirstAyah: c.FirstAyah,
				LastAyah:  c.LastAyah,
				Text:      c.Text,
			})
		}
		messages = append(messages, msg)
	}
	return Snapshot{
		EntryType:  entryTypeConversation,
		SessionID:  sessionID,
		CapturedAt: capturedAt,
		Endpoint:   endpoint,
		Messages:   messages,
	}
}

// Append adds the snapshot to the file at path, creating it if necessary.
// A snapshot with the same session ID replaces the earlier entry so repeated
// exports of one session do not duplicate it.
func Append(path string, snapshot Snapshot) error {
	if path == "" {
		return errors.New("transcript path is empty")
	}
	snapshot.EntryType = entryTypeConversation
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	entries, err := loadEntries(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		entries = nil
	}
	for i, existing := range entries {
		var header struct {
			SessionID string `json:"sessionId"`
		}
		if err := json.Unmarshal(existing, &header); err != nil {
			return err
		}
		if snapshot.SessionID != "" && header.SessionID == snapshot.SessionID {
			entries[i] = raw
			return writeEntries(path, entries)
		}
	}
	entries = append(entries, raw)
	return writeEntries(path, entries)
}

func writeEntries(path string, entries []json.RawMessage) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func loadEntries(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
