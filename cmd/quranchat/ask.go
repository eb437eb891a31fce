package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/csheth/quranchat/internal/conversation"
	"github.com/csheth/quranchat/internal/logging"
	"github.com/csheth/quranchat/internal/quran"
)

const askLongDesc string = `Ask a single question and print the answer.

The answer is rendered as markdown, followed by the verses it cites.
The command exits with status 1 when the backend cannot answer.

Examples:
  quranchat ask What does the Quran say about patience?
  quranchat ask --plain --api-url http://localhost:7860 "Who was Maryam?"`

const askShortDesc string = "Ask one question and print the answer"

const askWrapWidth = 80

type askCommander struct {
	root  *rootCommander
	plain bool
	style string
}

func newAskCmd(root *rootCommander) *cobra.Command {
	cmder := &askCommander{root: root}

	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, strings.Join(args, " "))
		},
	}

	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Print the answer without markdown rendering")
	cmd.Flags().StringVar(&cmder.style, "style", "", "Markdown style: dark, light, notty, ascii, dracula")

	return cmd
}

func (c *askCommander) run(ctx context.Context, cmd *cobra.Command, question string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := c.root.loadConfig()
	if err != nil {
		return err
	}
	if c.style != "" {
		cfg.UI.MarkdownStyle = c.style
	}

	logCfg := logging.Config{Debug: cfg.Logging.Debug, Path: cfg.Logging.Path}
	if cfg.Logging.Debug && cfg.Logging.Path == "" {
		logCfg.Writer = cmd.ErrOrStderr()
	}
	logger, closeLog, err := logging.NewLogger(logCfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	backend, err := newBackend(cfg, logger)
	if err != nil {
		return err
	}

	session := conversation.NewSession(
		conversation.WithLogger(logger),
		conversation.WithFailureTurns(false),
	)
	sent, err := session.Send(ctx, backend, question)
	if !sent {
		return errors.New("question is empty")
	}
	if err != nil {
		return fmt.Errorf("could not get an answer from %s: %w", backend.Name(), err)
	}

	turns := session.Turns()
	answer := turns[len(turns)-1]
	return c.writeAnswer(cmd.OutOrStdout(), answer, cfg.UI.MarkdownStyle)
}

func (c *askCommander) writeAnswer(w io.Writer, answer conversation.Turn, style string) error {
	body := answer.Content
	if !c.plain {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(askWrapWidth),
		)
		if err != nil {
			return fmt.Errorf("could not build markdown renderer: %w", err)
		}
		if body, err = renderer.Render(answer.Content); err != nil {
			return fmt.Errorf("could not render answer: %w", err)
		}
	}
	fmt.Fprintln(w, strings.TrimRight(body, "\n"))

	if len(answer.Citations) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sources:")
	for _, citation := range answer.Citations {
		label := quran.Format(citation).Placeholder(fmt.Sprintf("Surah %d", citation.Surah))
		fmt.Fprintf(w, "  %s\n", label)
		if text := strings.TrimSpace(citation.Text); text != "" {
			fmt.Fprintln(w, indent.String(wordwrap.String(text, askWrapWidth-4), 4))
		}
	}
	return nil
}
