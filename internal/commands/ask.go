package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/healthchat/internal/chat"
	"github.com/diogo/healthchat/internal/config"
	"github.com/diogo/healthchat/internal/models"
	"github.com/diogo/healthchat/internal/render"
)

var (
	botLabelStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	botBubbleStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Foreground(colorText).
			Padding(0, 1).
			MarginBottom(1)
)

func newAskCmd(deps *Dependencies) *cobra.Command {
	var (
		fileFlag string
		copyFlag bool
	)

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question and print the reply",
		Long: `Ask a single question without opening the chat screen.

The question is taken from the argument, from --file, or from stdin.
When stdout is a terminal the reply is rendered as markdown; otherwise
it is streamed as plain text while it arrives.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(deps, args, fileFlag)
			if err != nil {
				return err
			}
			return runAsk(cmd.Context(), deps, prompt, copyFlag)
		},
	}

	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read the question from a file")
	cmd.Flags().BoolVar(&copyFlag, "copy", false, "Copy the reply to the clipboard")
	return cmd
}

// readPrompt picks the question from --file, the argument or stdin, in that order
func readPrompt(deps *Dependencies, args []string, file string) (string, error) {
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	case len(args) > 0:
		return args[0], nil
	case deps.stdinPiped():
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("no question given: pass it as an argument, with --file, or on stdin")
}

func runAsk(ctx context.Context, deps *Dependencies, prompt string, copyReply bool) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("question cannot be empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, cleanup, err := deps.prepare()
	if err != nil {
		return err
	}
	defer cleanup()

	tty := deps.IsTTY()

	var spin *spinner
	if tty {
		spin = newSpinner(deps.Stderr, "Connecting to Gemini")
		spin.start()
	}
	session, closeSession, connErr := deps.Connect(ctx, cfg)
	defer closeSession()
	if tty {
		if connErr != nil {
			spin.stopWithError()
		} else {
			spin.stopWithSuccess("Connected")
			spin = newSpinner(deps.Stderr, "Thinking")
			spin.start()
		}
	}

	ctrl := chat.NewController(chat.NewStore(), session)
	if connErr != nil {
		ctrl.SetConnectionError(connErr)
	}

	var onFragment func(string)
	if !tty {
		onFragment = func(fragment string) {
			fmt.Fprint(deps.Stdout, fragment)
		}
	}

	turn, err := ctrl.Run(ctx, prompt, onFragment)
	if tty && connErr == nil {
		spin.stopWithError()
	}
	if err != nil {
		if !tty && turn != nil && turn.Fragments() > 0 {
			fmt.Fprintln(deps.Stdout)
		}
		return err
	}

	reply := turn.Reply()
	if tty {
		printReply(deps, reply, cfg.Markdown)
	} else if !strings.HasSuffix(reply, "\n") {
		fmt.Fprintln(deps.Stdout)
	}

	if copyReply || cfg.CopyToClipboard {
		copyToClipboard(deps, reply)
	}
	return nil
}

// printReply renders the reply as markdown inside a bubble sized to the terminal
func printReply(deps *Dependencies, reply string, md config.MarkdownConfig) {
	bubbleWidth := deps.terminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	rendered := render.Reply(reply, render.OptionsFromConfig(md).WithWidth(bubbleWidth-4))
	fmt.Fprintln(deps.Stdout, botLabelStyle.Render("✚ "+models.BotLabel))
	fmt.Fprintln(deps.Stdout, botBubbleStyle.Width(bubbleWidth).Render(rendered))
}

func copyToClipboard(deps *Dependencies, text string) {
	if err := deps.Copy(text); err != nil {
		fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorError).Render(
			fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		return
	}
	fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
}
