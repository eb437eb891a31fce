package main

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/csheth/quranchat/internal/config"
	"github.com/csheth/quranchat/internal/logging"
	"github.com/csheth/quranchat/internal/rag"
	"github.com/csheth/quranchat/internal/tui"
)

const rootLongDesc string = `Ask questions about the Quran from your terminal.

Each question is sent, together with the conversation so far, to a Quran
RAG backend. Answers come back with the verses they were drawn from, shown
as "Q.S <surah> <ayah>" citations that can be opened to read the verse.

The backend URL is taken from --api-url, then QURANCHAT_API_URL or
VITE_API_URL, then api.base_url in the config file, and finally defaults
to http://localhost:7860.

Examples:
  quranchat
  quranchat --api-url https://quran-rag.example.org --transcript ~/quran.json
  quranchat ask "What does the Quran say about patience?"`

const rootShortDesc string = "Chat with a Quran RAG backend"

type rootCommander struct {
	configPath string
	apiURL     string
	debug      bool
	logFile    string

	noAltScreen    bool
	style          string
	transcriptPath string
}

func newRootCmd() *cobra.Command {
	cmder := &rootCommander{}

	cmd := &cobra.Command{
		Use:           "quranchat",
		Short:         rootShortDesc,
		Long:          rootLongDesc,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.runTUI(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cmder.configPath, "config", "", "Path to the YAML config file (default $XDG_CONFIG_HOME/quranchat/config.yaml)")
	pf.StringVar(&cmder.apiURL, "api-url", "", "Base URL of the RAG backend")
	pf.BoolVar(&cmder.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&cmder.logFile, "log-file", "", "Append logs to this file")

	cmd.Flags().BoolVar(&cmder.noAltScreen, "no-alt-screen", false, "Disable the alternate screen buffer")
	cmd.Flags().StringVar(&cmder.style, "style", "", "Markdown style: dark, light, notty, ascii, dracula")
	cmd.Flags().StringVar(&cmder.transcriptPath, "transcript", "", "File that ctrl+s appends the session transcript to")

	cmd.AddCommand(newAskCmd(cmder), newSurahsCmd(), newConfigCmd(cmder))
	return cmd
}

func (c *rootCommander) resolveConfigPath() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.DefaultPath()
}

// loadConfig layers flags over the environment, the config file and defaults.
func (c *rootCommander) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.resolveConfigPath())
	if err != nil {
		return nil, err
	}
	if c.apiURL != "" {
		cfg.API.BaseURL = c.apiURL
	}
	if c.debug {
		cfg.Logging.Debug = true
	}
	if c.logFile != "" {
		cfg.Logging.Path = c.logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newBackend(cfg *config.Config, logger *zap.Logger) (rag.Client, error) {
	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return nil, err
	}
	return rag.NewFromEnv(rag.Config{
		Endpoint: cfg.API.BaseURL,
		Timeout:  timeout,
		Logger:   logger,
	})
}

func (c *rootCommander) runTUI(cmd *cobra.Command) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if c.style != "" {
		cfg.UI.MarkdownStyle = c.style
	}
	if c.noAltScreen {
		cfg.UI.AltScreen = false
	}
	if c.transcriptPath != "" {
		cfg.Transcript.Path = c.transcriptPath
	}
	transcriptPath := cfg.Transcript.Path
	if transcriptPath != "" {
		if transcriptPath, err = filepath.Abs(transcriptPath); err != nil {
			return fmt.Errorf("failed to resolve transcript path: %w", err)
		}
	}

	logger, closeLog, err := logging.NewLogger(logging.Config{
		Debug: cfg.Logging.Debug,
		Path:  cfg.Logging.Path,
	})
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	backend, err := newBackend(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("starting tui",
		zap.String("backend", backend.Name()),
		zap.String("style", cfg.UI.MarkdownStyle),
		zap.Bool("transcript", transcriptPath != ""),
	)

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if ctx := cmd.Context(); ctx != nil {
		opts = append(opts, tea.WithContext(ctx))
	}
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Backend:        backend,
			Endpoint:       backend.Endpoint(),
			Logger:         logger,
			MarkdownStyle:  cfg.UI.MarkdownStyle,
			TranscriptPath: transcriptPath,
		}),
		opts...,
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
