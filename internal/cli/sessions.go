package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"capture-gpt/backend/internal/model"
)

var sessionsSearch string

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List saved conversations",
	Long: `List saved conversations grouped by recency (Today, Yesterday,
Previous 7 Days, Previous 30 Days, Older).

--search filters by title and understands after:/before: tokens with ISO
dates or phrases such as "yesterday" or "last-week".

Examples:
  capturegpt sessions
  capturegpt sessions --search "client email"
  capturegpt sessions --search "after:2025-03-01 before:2025-04-01"`,
	Args: cobra.NoArgs,
	RunE: runSessions,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the messages of a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsRenameCmd = &cobra.Command{
	Use:   "rename <id> <title>",
	Short: "Rename a conversation",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runSessionsRename,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.Flags().StringVar(&sessionsSearch, "search", "", "Filter by title and date tokens")
	sessionsCmd.AddCommand(sessionsShowCmd, sessionsRenameCmd, sessionsDeleteCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	groups := a.Store.Groups(sessionsSearch)
	if len(groups) == 0 {
		if sessionsSearch != "" {
			fmt.Fprintf(out, "No sessions match: %s\n", sessionsSearch)
		} else {
			fmt.Fprintln(out, "No sessions yet. Start one with 'capturegpt ask'.")
		}
		return nil
	}

	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, g.Bucket)
		for _, s := range g.Sessions {
			fmt.Fprintf(out, "  %s  %s\n", s.ID, s.Title)
			fmt.Fprintf(out, "      %d messages, updated %s\n", s.MessageCount, s.Updated)
		}
	}
	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := a.Store.Session(args[0])
	if err != nil {
		return fmt.Errorf("session %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\n", session.Title)
	for _, m := range session.Messages {
		who := "Assistant"
		if m.Role == model.RoleUser {
			who = "You"
		}
		fmt.Fprintf(out, "[%s] %s\n%s\n\n", m.Timestamp.Local().Format("2006-01-02 15:04"), who, m.Text)
	}
	return nil
}

func runSessionsRename(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	title := strings.Join(args[1:], " ")
	if err := a.Store.RenameSession(cmd.Context(), args[0], title); err != nil {
		return fmt.Errorf("rename %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %q\n", args[0], strings.TrimSpace(title))
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.Store.Session(args[0]); err != nil {
		return fmt.Errorf("session %s: %w", args[0], err)
	}
	if err := a.Store.DeleteSession(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}
