package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the available models",
	Args:  cobra.NoArgs,
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	selected := a.Settings.SelectedModel(cmd.Context())
	out := cmd.OutOrStdout()
	for _, m := range a.Models.List() {
		marker := " "
		if m.ID == selected {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-14s %-14s %s\n", marker, m.ID, m.Name, m.Category)
		fmt.Fprintf(out, "    %s tokens, %s cost, %s\n", humanize.Comma(int64(m.MaxTokens)), m.Cost, m.Speed)
	}
	return nil
}
