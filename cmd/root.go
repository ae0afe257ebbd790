// Package cmd provides the duck-chat CLI commands.
//
// Commands:
//   - (root): interactive chat, optionally seeded with a prompt argument
//   - ask: one-shot question with Markdown-rendered reply
//   - models: list the available model aliases
//   - version: show build information
//
// Every command loads configuration the same way (file, DUCKCHAT_* variables,
// defaults) and builds its logger from it. The first invocation walks through
// terms acceptance and model choice, then persists both.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Elmash/duck-chat/internal/config"
	"github.com/Elmash/duck-chat/internal/duckchat"
	"github.com/Elmash/duck-chat/internal/log"
	"github.com/Elmash/duck-chat/internal/security"
	"github.com/Elmash/duck-chat/internal/ui"
)

var modelFlag string

var rootCmd = &cobra.Command{
	Use:   "duck-chat [prompt...]",
	Short: "Chat with AI models through DuckDuckGo from your terminal",
	Long: `duck-chat is a terminal client for duck.ai, DuckDuckGo's free and
anonymous chat service. No account and no API key required.

Run it without arguments for an interactive conversation, or pass a prompt
to open the conversation with it. Use 'duck-chat ask' for a single
question without entering interactive mode.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "",
		"model alias for this run (see 'duck-chat models')")
}

func runRoot(cmd *cobra.Command, args []string) error {
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

	ui.BannerWithInfo(cmd.OutOrStdout(), Version, model.Name)

	transport, err := duckchat.NewTransport(transportConfig(cfg), logger.With("component", "transport"))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	session, err := duckchat.Start(ctx, transport, model, logger)
	if err != nil {
		return err
	}

	c := &chat{
		console:   console,
		logger:    logger,
		transport: transport,
		session:   session,
		model:     model,
	}
	return c.run(ctx, security.Sanitize(strings.Join(args, " ")))
}

// loadConfig loads the configuration and builds the logger it describes.
func loadConfig() (*config.Config, log.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	logger := log.New(log.Config{Level: level, JSON: cfg.LogJSON})

	return cfg, logger, nil
}

// transportConfig maps the user configuration onto the transport knobs.
func transportConfig(cfg *config.Config) duckchat.TransportConfig {
	return duckchat.TransportConfig{
		StatusURL:         cfg.StatusURL,
		ChatURL:           cfg.ChatURL,
		Timeout:           cfg.Timeout(),
		RequestsPerMinute: cfg.RequestsPerMinute,
	}
}

// resolveModel picks the model for this run: the --model flag when given,
// otherwise the configured default.
func resolveModel(cfg *config.Config) (duckchat.Model, error) {
	alias := cfg.DefaultModel
	if modelFlag != "" {
		alias = modelFlag
	}

	m, ok := duckchat.ModelByAlias(alias)
	if !ok {
		return duckchat.Model{}, fmt.Errorf("unknown model %q, run 'duck-chat models' to list available aliases", alias)
	}
	return m, nil
}
