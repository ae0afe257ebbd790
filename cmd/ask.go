package cmd

import (
	"fmt"
	"strings"

	"github.com/Elmash/duck-chat/internal/duckchat"
	"github.com/Elmash/duck-chat/internal/security"
	"github.com/Elmash/duck-chat/internal/ui"
	"github.com/spf13/cobra"
)

var plainFlag bool

var askCmd = &cobra.Command{
	Use:   "ask [prompt...]",
	Short: "Ask a single question and print the reply",
	Long: `Ask sends one prompt, prints the full reply, and exits. It suits
scripts and quick lookups where an interactive conversation is overkill.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&plainFlag, "plain", false, "print the raw reply without markdown rendering")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	console := ui.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout())

	if err := ensureFirstRun(cfg, console); err != nil {
		return err
	}

	model, err := resolveModel(cfg)
	if err != nil {
		return err
	}

	prompt := security.Sanitize(strings.Join(args, " "))
	if prompt == "" {
		return fmt.Errorf("prompt is empty after sanitizing")
	}

	transport, err := duckchat.NewTransport(transportConfig(cfg), logger.With("component", "transport"))
	if err != nil {
		return fmt.Errorf("building transport: %w", err)
	}

	session, err := duckchat.Start(ctx, transport, model, logger)
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}

	frags, err := session.Send(ctx, prompt)
	if err != nil {
		return err
	}

	var reply strings.Builder
	for frag := range frags {
		if frag.Text != "" {
			reply.WriteString(frag.Text)
		}
		if frag.Last && frag.Err != nil {
			return frag.Err
		}
	}

	answer := reply.String()
	if cfg.RenderMarkdown && !plainFlag {
		answer = ui.NewRenderer(0).Render(answer)
	}

	console.Println(answer)
	return nil
}
