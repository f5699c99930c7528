package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"capture-gpt/backend/internal/model"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change preferences",
	Long: `Show the stored preferences, or change them with a subcommand.

Examples:
  capturegpt settings
  capturegpt settings theme
  capturegpt settings model gpt-4-turbo`,
	Args: cobra.NoArgs,
	RunE: runSettings,
}

var settingsThemeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Toggle between the dark and light theme",
	Args:  cobra.NoArgs,
	RunE:  runSettingsTheme,
}

var settingsSidebarCmd = &cobra.Command{
	Use:   "sidebar",
	Short: "Show or hide the session sidebar",
	Args:  cobra.NoArgs,
	RunE:  runSettingsSidebar,
}

var settingsModelCmd = &cobra.Command{
	Use:   "model <id>",
	Short: "Select the model used when a message does not name one",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsModel,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsThemeCmd, settingsSidebarCmd, settingsModelCmd)
}

func runSettings(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	printSettings(cmd.OutOrStdout(), a.Settings.Get(cmd.Context()))
	return nil
}

func runSettingsTheme(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.Settings.ToggleTheme(cmd.Context())
	if err != nil {
		return err
	}
	printSettings(cmd.OutOrStdout(), s)
	return nil
}

func runSettingsSidebar(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.Settings.ToggleSidebar(cmd.Context())
	if err != nil {
		return err
	}
	printSettings(cmd.OutOrStdout(), s)
	return nil
}

func runSettingsModel(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.Settings.SelectModel(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printSettings(cmd.OutOrStdout(), s)
	return nil
}

func printSettings(w io.Writer, s model.Settings) {
	theme := "light"
	if s.ThemeIsDark {
		theme = "dark"
	}
	sidebar := "hidden"
	if s.SidebarOpen {
		sidebar = "open"
	}
	fmt.Fprintf(w, "theme:   %s\n", theme)
	fmt.Fprintf(w, "sidebar: %s\n", sidebar)
	fmt.Fprintf(w, "model:   %s\n", s.SelectedModel)
}
