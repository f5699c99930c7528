package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"
)

// maxStdinBytes bounds piped input: 32000 characters of up to four bytes.
const maxStdinBytes = 32000 * 4

var (
	askPreset  string
	askModel   string
	askSession string
	askStream  bool
)

var askCmd = &cobra.Command{
	Use:   "ask <text>",
	Short: "Send a message to the assistant",
	Long: `Send one message and print the reply.

Without --session a new conversation is started; with it the message is
appended to that conversation. The exchange is saved like any other.

Examples:
  capturegpt ask "What is our delivery turnaround?"
  capturegpt ask --preset feedback < notes.txt
  capturegpt ask --model gpt-4 --stream "Draft a kickoff email"
  capturegpt ask --session 0190f5c2-... "And the budget?"`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVar(&askPreset, "preset", "", "Preset to apply (feedback, email, sop)")
	askCmd.Flags().StringVar(&askModel, "model", "", "Model id (defaults to the selected model)")
	askCmd.Flags().StringVar(&askSession, "session", "", "Continue an existing session")
	askCmd.Flags().BoolVar(&askStream, "stream", false, "Print the reply as it arrives")
}

func runAsk(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		data, err := readStdin(cmd)
		if err != nil {
			return err
		}
		text = data
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("nothing to send")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if askSession != "" {
		if err := a.Store.SelectSession(ctx, askSession); err != nil {
			return fmt.Errorf("could not open session %s: %w", askSession, err)
		}
	}
	if askPreset != "" {
		if err := a.Store.SelectPreset(askPreset); err != nil {
			return fmt.Errorf("unknown preset %q: %w", askPreset, err)
		}
	}

	out := cmd.OutOrStdout()
	if !askStream {
		msg, err := a.Store.SendMessage(ctx, text, askModel)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, msg.Text)
		return nil
	}

	fragments, err := a.Store.SendMessageStream(ctx, text, askModel)
	if err != nil {
		return err
	}
	for f := range fragments {
		if f.Err {
			fmt.Fprint(cmd.ErrOrStderr(), f.Text)
			continue
		}
		fmt.Fprint(out, f.Text)
	}
	fmt.Fprintln(out)
	return nil
}

// readStdin returns piped input, or "" when stdin is a terminal.
func readStdin(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(interface{ Stat() (fs.FileInfo, error) }); ok {
		info, err := f.Stat()
		if err != nil || info.Mode()&fs.ModeCharDevice != 0 {
			return "", nil
		}
	}
	data, err := io.ReadAll(io.LimitReader(in, maxStdinBytes+1))
	if err != nil {
		return "", fmt.Errorf("could not read stdin: %w", err)
	}
	if len(data) > maxStdinBytes {
		return "", fmt.Errorf("stdin exceeds %d bytes", maxStdinBytes)
	}
	return string(data), nil
}
