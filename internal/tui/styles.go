// Package tui provides the terminal chat screen for healthchat.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/healthchat/internal/errors"
	"github.com/diogo/healthchat/internal/render"
)

// Styles holds every lipgloss style of the chat screen, derived from one theme
type Styles struct {
	theme render.TUITheme

	header   lipgloss.Style
	title    lipgloss.Style
	subtitle lipgloss.Style
	hint     lipgloss.Style

	messagesArea lipgloss.Style
	userBubble   lipgloss.Style
	userLabel    lipgloss.Style
	botBubble    lipgloss.Style
	botLabel     lipgloss.Style

	typing     lipgloss.Style
	banner     lipgloss.Style
	inputPanel lipgloss.Style
	inputLabel lipgloss.Style
	inputBusy  lipgloss.Style

	statusBar  lipgloss.Style
	statusKey  lipgloss.Style
	statusDesc lipgloss.Style
	notice     lipgloss.Style
}

// NewStyles builds the styles for theme
func NewStyles(theme render.TUITheme) Styles {
	return Styles{
		theme: theme,

		header: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 2),
		title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),
		subtitle: lipgloss.NewStyle().
			Foreground(theme.TextDim),
		hint: lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true),

		messagesArea: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		userBubble: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.UserBubble).
			Foreground(theme.Text).
			Padding(0, 1),
		userLabel: lipgloss.NewStyle().
			Foreground(theme.UserBubble).
			Bold(true),
		botBubble: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.BotBubble).
			Foreground(theme.Text).
			Padding(0, 1),
		botLabel: lipgloss.NewStyle().
			Foreground(theme.BotBubble).
			Bold(true),

		typing: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),
		banner: lipgloss.NewStyle().
			Foreground(theme.Error).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(theme.Error).
			PaddingLeft(1),
		inputPanel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 1),
		inputLabel: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),
		inputBusy: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Foreground(theme.TextDim).
			Padding(0, 1),

		statusBar: lipgloss.NewStyle().
			Foreground(theme.TextDim),
		statusKey: lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true),
		statusDesc: lipgloss.NewStyle().
			Foreground(theme.TextDim),
		notice: lipgloss.NewStyle().
			Foreground(theme.Secondary),
	}
}

// FormatError returns a styled error message with additional context taken
// from the structured error types.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	theme := render.DefaultTUITheme
	errStyle := lipgloss.NewStyle().Foreground(theme.Error)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}
	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	switch {
	case errors.IsAuthError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: set API_KEY in the environment or in .env"))
	case errors.IsRateLimitError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: quota exceeded, try again later or use a lighter model"))
	case errors.IsBlockedError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: the reply was blocked by the safety filter, rephrase the question"))
	case errors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: check your internet connection and try again"))
	default:
		if body := errors.GetResponseBody(err); body != "" {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
		}
	}

	return sb.String()
}
