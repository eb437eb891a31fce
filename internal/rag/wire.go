// Package rag talks to the Quran RAG backend over HTTP.
package rag

import (
	"github.com/csheth/quranchat/internal/conversation"
	"github.com/csheth/quranchat/internal/quran"
)

type queryRequest struct {
	Query   string         `json:"query"`
	History []historyEntry `json:"history"`
}

// historyEntry uses the field names the backend reads from each turn.
type historyEntry struct {
	Messager  string           `json:"messager"`
	Message   string           `json:"message"`
	Resources []quran.Citation `json:"resources"`
}

type queryResponse struct {
	Response      *string          `json:"response"`
	RetrievedDocs []quran.Citation `json:"retrieved_docs"`
}

func encodeHistory(turns []conversation.Turn) []historyEntry {
	entries := make([]historyEntry, 0, len(turns))
	for _, turn := range turns {
		resources := turn.Citations
		if resources == nil {
			resources = []quran.Citation{}
		}
		entries = append(entries, historyEntry{
			Messager:  string(turn.Sender),
			Message:   turn.Content,
			Resources: resources,
		})
	}
	return entries
}
