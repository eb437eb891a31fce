package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/csheth/quranchat/internal/conversation"
)

var (
	// ErrBackendStatus is returned for any non-2xx reply.
	ErrBackendStatus = errors.New("rag backend error")
	// ErrMalformedResponse is returned when the reply cannot be decoded or lacks
	// the response field.
	ErrMalformedResponse = errors.New("malformed rag response")
)

const maxErrorBody = 512

type httpClient struct {
	base   string
	client *http.Client
	logger *zap.Logger
}

func (c *httpClient) Name() string {
	return fmt.Sprintf("Quran RAG (%s)", c.base)
}

func (c *httpClient) Endpoint() string {
	return c.base
}

func (c *httpClient) SubmitQuery(ctx context.Context, query string, history []conversation.Turn) (conversation.Answer, error) {
	if strings.TrimSpace(query) == "" {
		return conversation.Answer{}, fmt.Errorf("query cannot be empty")
	}
	buf, err := json.Marshal(queryRequest{Query: query, History: encodeHistory(history)})
	if err != nil {
		return conversation.Answer{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+queryPath, bytes.NewReader(buf))
	if err != nil {
		return conversation.Answer{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return conversation.Answer{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return conversation.Answer{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return conversation.Answer{}, fmt.Errorf("%w: %s (%s)", ErrBackendStatus, resp.Status, clip(body, maxErrorBody))
	}

	var parsed queryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return conversation.Answer{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if parsed.Response == nil {
		return conversation.Answer{}, fmt.Errorf("%w: missing response field", ErrMalformedResponse)
	}
	for _, doc := range parsed.RetrievedDocs {
		if err := doc.Validate(); err != nil {
			c.logger.Warn("backend returned an invalid citation", zap.Error(err))
		}
	}
	c.logger.Debug("rag answer received",
		zap.Int("citations", len(parsed.RetrievedDocs)),
		zap.Int("answer_len", len(*parsed.Response)),
	)
	return conversation.Answer{
		Text:      *parsed.Response,
		Citations: parsed.RetrievedDocs,
	}, nil
}

func clip(body []byte, limit int) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "…"
}
