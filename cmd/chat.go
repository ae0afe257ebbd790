package cmd

import (
	"context"
	"strings"

	"github.com/Elmash/duck-chat/internal/duckchat"
	"github.com/Elmash/duck-chat/internal/log"
	"github.com/Elmash/duck-chat/internal/security"
	"github.com/Elmash/duck-chat/internal/ui"
)

// chat drives one interactive conversation: reading prompts, streaming
// replies, and dispatching slash commands.
type chat struct {
	console   ui.IO
	logger    log.Logger
	transport *duckchat.Transport
	session   *duckchat.Session
	model     duckchat.Model

	// lastPrompt supports /retry. lastCommitted records whether that prompt
	// produced a committed exchange, so /retry knows whether to undo first.
	lastPrompt    string
	lastCommitted bool
}

// run reads prompts until the user exits. An initial prompt, when non-empty,
// is sent before the first read. Send failures are reported and the loop
// keeps going; only input exhaustion or an exit command ends it.
func (c *chat) run(ctx context.Context, initial string) error {
	if initial != "" {
		c.console.Printf("You: %s\n", initial)
		if err := c.send(ctx, initial); err != nil {
			c.console.Printf("Error: %v\n\n", err)
		}
	}

	for {
		c.console.Print("You: ")

		if !c.console.Scan() {
			c.console.Println()
			c.console.Println("Goodbye!")
			return nil
		}

		line := strings.TrimSpace(c.console.Text())
		if line == "" {
			continue
		}

		if line == "exit" {
			c.console.Println("Goodbye!")
			return nil
		}

		if strings.HasPrefix(line, "/") {
			exit, err := c.handleCommand(ctx, line)
			if err != nil {
				c.console.Printf("Error: %v\n\n", err)
			}
			if exit {
				return nil
			}
			continue
		}

		prompt := security.Sanitize(line)
		if prompt == "" {
			continue
		}

		if err := c.send(ctx, prompt); err != nil {
			c.console.Printf("Error: %v\n\n", err)
		}
	}
}

// send streams one exchange to the console. The reply prints fragment by
// fragment as it arrives.
func (c *chat) send(ctx context.Context, prompt string) error {
	c.lastPrompt = prompt
	c.lastCommitted = false

	frags, err := c.session.Send(ctx, prompt)
	if err != nil {
		return err
	}

	c.console.Println()
	c.console.Printf("%s: ", c.model.Name)

	var failed error
	for frag := range frags {
		if frag.Text != "" {
			c.console.Stream(frag.Text)
		}
		if frag.Last {
			failed = frag.Err
		}
	}

	c.console.Println()
	if failed != nil {
		return failed
	}

	c.lastCommitted = true
	c.console.Println()
	return nil
}

// handleCommand dispatches a slash command. It reports whether the loop
// should exit.
func (c *chat) handleCommand(ctx context.Context, line string) (bool, error) {
	parts := strings.Fields(line)

	switch parts[0] {
	case "/help":
		c.printHelp()

	case "/model":
		if len(parts) < 2 {
			c.printModels()
			return false, nil
		}
		return false, c.switchModel(ctx, parts[1])

	case "/new":
		session, err := duckchat.Start(ctx, c.transport, c.model, c.logger)
		if err != nil {
			return false, err
		}
		c.session = session
		c.lastPrompt = ""
		c.lastCommitted = false
		c.console.Println("Started a new conversation.")
		c.console.Println()

	case "/undo":
		if c.session.Undo() {
			c.lastCommitted = false
			c.console.Println("Removed the last exchange.")
		} else {
			c.console.Println("Nothing to undo.")
		}
		c.console.Println()

	case "/retry":
		if c.lastPrompt == "" {
			c.console.Println("Nothing to retry.")
			c.console.Println()
			return false, nil
		}
		if c.lastCommitted {
			c.session.Undo()
		}
		c.console.Printf("You: %s\n", c.lastPrompt)
		return false, c.send(ctx, c.lastPrompt)

	case "/exit", "/quit":
		c.console.Println("Goodbye!")
		return true, nil

	default:
		c.console.Printf("Unknown command: %s\n", parts[0])
		c.console.Println("Type /help to see available commands.")
		c.console.Println()
	}

	return false, nil
}

// switchModel starts a fresh session on another model. A session is bound to
// its model for life, so switching always resets the conversation.
func (c *chat) switchModel(ctx context.Context, alias string) error {
	model, ok := duckchat.ModelByAlias(alias)
	if !ok {
		c.console.Printf("Unknown model %q. Available:\n", alias)
		c.printModels()
		return nil
	}

	if model.Alias == c.model.Alias {
		c.console.Printf("Already chatting with %s.\n\n", model.Name)
		return nil
	}

	session, err := duckchat.Start(ctx, c.transport, model, c.logger)
	if err != nil {
		return err
	}

	c.session = session
	c.model = model
	c.lastPrompt = ""
	c.lastCommitted = false
	c.console.Printf("Switched to %s. The conversation starts fresh.\n\n", model.Name)
	return nil
}

func (c *chat) printModels() {
	for _, m := range duckchat.Models() {
		marker := "  "
		if m.Alias == c.model.Alias {
			marker = "* "
		}
		c.console.Printf("%s%-16s %s\n", marker, m.Alias, m.Name)
	}
	c.console.Println()
}

func (c *chat) printHelp() {
	c.console.Println("Commands:")
	c.console.Println("  /help            Show this help")
	c.console.Println("  /model [alias]   List models, or switch (starts a new conversation)")
	c.console.Println("  /new             Start a new conversation")
	c.console.Println("  /undo            Remove the last exchange from the conversation")
	c.console.Println("  /retry           Regenerate the last reply")
	c.console.Println("  /exit, /quit     Leave duck-chat (Ctrl+D works too)")
	c.console.Println()
}
