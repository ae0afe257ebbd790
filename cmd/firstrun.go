package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Elmash/duck-chat/internal/config"
	"github.com/Elmash/duck-chat/internal/duckchat"
	"github.com/Elmash/duck-chat/internal/ui"
)

// ErrTermsDeclined indicates the user declined the duck.ai terms of service.
var ErrTermsDeclined = errors.New("terms of service declined")

// ensureFirstRun walks a new user through terms acceptance and default model
// choice, then persists both. Subsequent runs skip it entirely.
func ensureFirstRun(cfg *config.Config, console ui.IO) error {
	if cfg.AcceptedTerms {
		return nil
	}

	console.Println("duck.ai is a free chat service by DuckDuckGo. Conversations are")
	console.Println("anonymous, but the usual rules of the service apply.")
	console.Printf("Terms: %s\n\n", cfg.TermsURL)

	ok, err := console.Confirm("Accept the terms of service?")
	if err != nil {
		return fmt.Errorf("reading terms answer: %w", err)
	}
	if !ok {
		return ErrTermsDeclined
	}

	console.Println()
	if alias := chooseModel(console); alias != "" {
		cfg.DefaultModel = alias
	}

	cfg.AcceptedTerms = true
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}

	console.Println()
	return nil
}

// chooseModel shows the model menu and returns the chosen alias, or "" to
// keep the configured default. End of input also keeps the default.
func chooseModel(console ui.IO) string {
	models := duckchat.Models()

	console.Println("Choose your default model:")
	for i, m := range models {
		console.Printf("  %d) %s\n", i+1, m.Name)
	}

	for {
		console.Printf("Model [1-%d] (default 1): ", len(models))

		if !console.Scan() {
			return ""
		}

		choice := strings.TrimSpace(console.Text())
		if choice == "" {
			return ""
		}

		n, err := strconv.Atoi(choice)
		if err != nil || n < 1 || n > len(models) {
			console.Printf("Please enter a number between 1 and %d.\n", len(models))
			continue
		}
		return models[n-1].Alias
	}
}
