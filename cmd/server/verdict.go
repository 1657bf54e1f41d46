package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/todmy/hamster-court/internal/dispute"
	"github.com/todmy/hamster-court/internal/judge"
)

var (
	statementA string
	statementB string
	labelA     string
	labelB     string
	criteria   string
	modeFlag   string
	plain      bool
)

// verdictCmd judges a single dispute in the terminal
var verdictCmd = &cobra.Command{
	Use:   "verdict",
	Short: "Judge one dispute and print the verdict",
	Long: `Scores the two statements and prints the verdict document.

Example:
  hamster-court verdict --a "你总是不回消息" --b "我在开会" --mode ai`,
	RunE: runVerdict,
}

func init() {
	verdictCmd.Flags().StringVar(&statementA, "a", "", "statement of party A")
	verdictCmd.Flags().StringVar(&statementB, "b", "", "statement of party B")
	verdictCmd.Flags().StringVar(&labelA, "label-a", "", "display name of party A")
	verdictCmd.Flags().StringVar(&labelB, "label-b", "", "display name of party B")
	verdictCmd.Flags().StringVar(&criteria, "criteria", "", "scoring criteria sent to the AI instead of the default rubric")
	verdictCmd.Flags().StringVar(&modeFlag, "mode", string(judge.ModeSimulated), "scoring mode: simulated or ai")
	verdictCmd.Flags().BoolVar(&plain, "plain", false, "print raw markdown instead of styled output")
}

func runVerdict(cmd *cobra.Command, args []string) error {
	mode, err := judge.ParseMode(modeFlag)
	if err != nil {
		return err
	}

	in := dispute.Input{
		StatementA:       statementA,
		StatementB:       statementB,
		LabelA:           dispute.Some(labelA),
		LabelB:           dispute.Some(labelB),
		CriteriaOverride: dispute.Some(criteria),
	}
	if err := in.Validate(); err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	c, err := buildComponents(cfg, zap.NewNop())
	if err != nil {
		return err
	}

	res := c.resolver.Resolve(cmd.Context(), in, mode)
	if res.Fallback {
		logger.Warn("AI scoring unavailable, using simulated verdict", zap.Error(res.FallbackReason))
	}
	doc := c.renderer.Render(in, res)

	token, err := c.sealer.Seal(doc)
	if err != nil {
		return fmt.Errorf("seal verdict: %w", err)
	}

	out := cmd.OutOrStdout()
	if res.Fallback {
		fmt.Fprintln(out, "⚠️  AI 不可用，已使用模拟裁决")
	}
	if err := printMarkdown(out, doc.Markdown, plain); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n裁决印章：%s\n", token)
	return nil
}

func printMarkdown(w io.Writer, markdown string, plain bool) error {
	if plain {
		_, err := io.WriteString(w, markdown)
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, strings.TrimRight(rendered, "\n")+"\n")
	return err
}
