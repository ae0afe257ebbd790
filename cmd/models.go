package cmd

import (
	"fmt"

	"github.com/Elmash/duck-chat/internal/duckchat"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the available models",
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, m := range duckchat.Models() {
		marker := "  "
		if m.Alias == cfg.DefaultModel {
			marker = "* "
		}
		fmt.Fprintf(out, "%s%-16s %s\n", marker, m.Alias, m.Name)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Pass --model to use another model once, or /model to switch mid-session.")
	return nil
}
