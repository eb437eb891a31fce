package rag

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/csheth/quranchat/internal/conversation"
)

const (
	// DefaultEndpoint matches the port the RAG server binds when PORT is unset.
	DefaultEndpoint = "http://localhost:7860"
	queryPath       = "/rag"
)

const (
	endpointEnvVar       = "QURANCHAT_API_URL"
	legacyEndpointEnvVar = "VITE_API_URL"
)

// Config describes how to build a backend client.
type Config struct {
	Endpoint   string
	HTTPClient *http.Client
	Logger     *zap.Logger

	// Timeout bounds one request. Zero means no timeout: a stalled backend
	// keeps the session busy until it answers.
	Timeout time.Duration
}

// Client submits questions to the RAG backend.
type Client interface {
	SubmitQuery(ctx context.Context, query string, history []conversation.Turn) (conversation.Answer, error)
	Endpoint() string
	Name() string
}

// NewFromEnv builds a client, falling back to environment variables and then
// to DefaultEndpoint when cfg.Endpoint is empty.
func NewFromEnv(cfg Config) (Client, error) {
	host := strings.TrimSpace(cfg.Endpoint)
	if host == "" {
		host = ResolveEndpoint()
	}
	host = strings.TrimRight(host, "/")
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &httpClient{
		base:   host,
		client: pickHTTPClient(cfg.HTTPClient, cfg.Timeout),
		logger: logger.Named("rag"),
	}, nil
}

// ResolveEndpoint reads the backend base URL from the environment.
func ResolveEndpoint() string {
	for _, key := range []string{endpointEnvVar, legacyEndpointEnvVar} {
		if env := strings.TrimSpace(os.Getenv(key)); env != "" {
			return strings.TrimRight(env, "/")
		}
	}
	return DefaultEndpoint
}

func pickHTTPClient(custom *http.Client, timeout time.Duration) *http.Client {
	if custom != nil {
		return custom
	}
	return &http.Client{Timeout: timeout}
}
