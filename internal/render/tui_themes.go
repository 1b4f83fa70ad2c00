package render

import (
	"github.com/charmbracelet/lipgloss"
)

// TUITheme is the colour scheme of the chat screen
type TUITheme struct {
	Name        string
	Description string

	// MarkdownStyle is the glamour theme that suits this palette
	MarkdownStyle string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// UserBubble and BotBubble tint the message borders
	UserBubble lipgloss.Color
	BotBubble  lipgloss.Color

	Text    lipgloss.Color
	TextDim lipgloss.Color
}

var (
	// TokyoNightTheme is the default dark theme
	TokyoNightTheme = TUITheme{
		Name:          "tokyonight",
		Description:   "Tokyo Night - dark with blue accents",
		MarkdownStyle: ThemeTokyoNight,

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		UserBubble: lipgloss.Color("#7aa2f7"),
		BotBubble:  lipgloss.Color("#9ece6a"),

		Text:    lipgloss.Color("#c0caf5"),
		TextDim: lipgloss.Color("#565f89"),
	}

	// DraculaTheme uses the Dracula palette
	DraculaTheme = TUITheme{
		Name:          "dracula",
		Description:   "Dracula - dark with vibrant colors",
		MarkdownStyle: ThemeDracula,

		Background: lipgloss.Color("#282a36"),
		Surface:    lipgloss.Color("#44475a"),
		Border:     lipgloss.Color("#6272a4"),

		Primary:   lipgloss.Color("#8be9fd"),
		Secondary: lipgloss.Color("#50fa7b"),
		Accent:    lipgloss.Color("#ff79c6"),
		Warning:   lipgloss.Color("#f1fa8c"),
		Error:     lipgloss.Color("#ff5555"),

		UserBubble: lipgloss.Color("#bd93f9"),
		BotBubble:  lipgloss.Color("#50fa7b"),

		Text:    lipgloss.Color("#f8f8f2"),
		TextDim: lipgloss.Color("#6272a4"),
	}

	// ClinicTheme is a light theme in the blue and green of the web client
	ClinicTheme = TUITheme{
		Name:          "clinic",
		Description:   "Clinic - light background, blue and green",
		MarkdownStyle: ThemeLight,

		Background: lipgloss.Color("#f0f9ff"),
		Surface:    lipgloss.Color("#ffffff"),
		Border:     lipgloss.Color("#bfdbfe"),

		Primary:   lipgloss.Color("#2563eb"),
		Secondary: lipgloss.Color("#16a34a"),
		Accent:    lipgloss.Color("#0d9488"),
		Warning:   lipgloss.Color("#ca8a04"),
		Error:     lipgloss.Color("#dc2626"),

		UserBubble: lipgloss.Color("#2563eb"),
		BotBubble:  lipgloss.Color("#16a34a"),

		Text:    lipgloss.Color("#1f2937"),
		TextDim: lipgloss.Color("#6b7280"),
	}
)

// DefaultTUITheme is used when the configured name is unknown
var DefaultTUITheme = TokyoNightTheme

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, theme := range AvailableTUIThemes() {
		if theme.Name == name {
			return theme, true
		}
	}
	return TUITheme{}, false
}

// TUIThemeOrDefault returns the named theme or DefaultTUITheme
func TUIThemeOrDefault(name string) TUITheme {
	if theme, ok := GetTUIThemeByName(name); ok {
		return theme
	}
	return DefaultTUITheme
}

// AvailableTUIThemes returns every TUI theme
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{TokyoNightTheme, DraculaTheme, ClinicTheme}
}

// TUIThemeNames returns just the theme names
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
