package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/csheth/quranchat/internal/config"
	"github.com/csheth/quranchat/internal/rag"
)

const patienceResponse = `{"query":"What does the Quran say about patience?","response":"Patience (sabr) is emphasized throughout the Quran.","retrieved_docs":[{"ayah_en":"O you who have believed, seek help through patience and prayer. Indeed, Allah is with the patient.","first_ayah_no_surah":153,"last_ayah_no_surah":153,"surah_no":2},{"ayah_en":"And be patient, for indeed, Allah does not allow to be lost the reward of those who do good.","first_ayah_no_surah":115,"last_ayah_no_surah":116,"surah_no":11}]}`

func newFakeBackend(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rag" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("QURANCHAT_API_URL", "")
	t.Setenv("VITE_API_URL", "")
	t.Setenv("QURANCHAT_LOG_FILE", "")

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestAskPrintsAnswerAndSources(t *testing.T) {
	server := newFakeBackend(t, http.StatusOK, patienceResponse)

	out, err := executeCmd(t, "ask", "--plain", "--api-url", server.URL, "What", "does", "the", "Quran", "say", "about", "patience?")
	require.NoError(t, err)
	require.Contains(t, out, "Patience (sabr) is emphasized throughout the Quran.")
	require.Contains(t, out, "Sources:")
	require.Contains(t, out, "  Q.S Al-Baqarah 153\n")
	require.Contains(t, out, "  Q.S Hud 115-116\n")
	require.Contains(t, out, "    O you who have believed")
}

func TestAskRendersMarkdown(t *testing.T) {
	server := newFakeBackend(t, http.StatusOK, `{"response":"**Sabr** means patience."}`)

	out, err := executeCmd(t, "ask", "--style", "notty", "--api-url", server.URL, "sabr?")
	require.NoError(t, err)
	require.Contains(t, out, "means patience.")
	require.NotContains(t, out, "Sources:")
}

func TestAskNoDocumentsDropsSources(t *testing.T) {
	server := newFakeBackend(t, http.StatusOK, `{"response":"No relevant documents found.","retrieved_docs":[{"ayah_en":"x","first_ayah_no_surah":1,"last_ayah_no_surah":1,"surah_no":1}]}`)

	out, err := executeCmd(t, "ask", "--plain", "--api-url", server.URL, "spaceships?")
	require.NoError(t, err)
	require.Equal(t, "No relevant documents found.\n", out)
}

func TestAskFailsOnBackendError(t *testing.T) {
	server := newFakeBackend(t, http.StatusBadRequest, `{"detail":"Missing query parameter"}`)

	_, err := executeCmd(t, "ask", "--plain", "--api-url", server.URL, "patience?")
	require.Error(t, err)
	require.True(t, errors.Is(err, rag.ErrBackendStatus), "unexpected error: %v", err)
	require.Contains(t, err.Error(), "could not get an answer from Quran RAG ("+server.URL+")")
}

func TestAskRejectsBlankQuestion(t *testing.T) {
	_, err := executeCmd(t, "ask", "--plain", "--api-url", "http://127.0.0.1:1", "   ")
	require.EqualError(t, err, "question is empty")
}

func TestAskRejectsInvalidAPIURL(t *testing.T) {
	_, err := executeCmd(t, "ask", "--api-url", "localhost:7860", "patience?")
	require.True(t, errors.Is(err, config.ErrInvalidBaseURL), "unexpected error: %v", err)
}

func TestAskDebugLogsToStderr(t *testing.T) {
	server := newFakeBackend(t, http.StatusOK, patienceResponse)
	t.Setenv("QURANCHAT_API_URL", "")
	t.Setenv("VITE_API_URL", "")
	t.Setenv("QURANCHAT_LOG_FILE", "")

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "c.yaml"), "--debug", "ask", "--plain", "--api-url", server.URL, "patience?"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, errOut.String(), "query submitted")
}

func TestSurahsListsTable(t *testing.T) {
	out, err := executeCmd(t, "surahs")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 114)
	require.Equal(t, "  1  Al-Fatihah", lines[0])
	require.Equal(t, "114  An-Nas", lines[113])
}

func TestConfigInitWritesEffectiveSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	out, err := executeCmd(t, "--config", path, "--api-url", "https://quran-rag.example.org", "config", "init")
	require.NoError(t, err)
	require.Equal(t, "Wrote "+path+"\n", out)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://quran-rag.example.org", cfg.API.BaseURL)
	require.Equal(t, "dark", cfg.UI.MarkdownStyle)
}

func TestConfigInitKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://kept:1\n"), 0o644))

	_, err := executeCmd(t, "--config", path, "--api-url", "http://other:2", "config", "init")
	require.ErrorContains(t, err, "already exists")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://kept:1", cfg.API.BaseURL)

	_, err = executeCmd(t, "--config", path, "--api-url", "http://other:2", "config", "init", "--force")
	require.NoError(t, err)
	cfg, err = config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://other:2", cfg.API.BaseURL)
}
