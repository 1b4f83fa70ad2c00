package render

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

// Markdown theme names
const (
	ThemeDark       = "dark"
	ThemeLight      = "light"
	ThemeTokyoNight = "tokyonight"
	ThemeDracula    = "dracula"
	ThemePink       = "pink"
	ThemeNoTTY      = "notty"
	ThemeASCII      = "ascii"
)

// glamourStyles maps theme names to glamour's standard style names
var glamourStyles = map[string]string{
	ThemeDark:       styles.DarkStyle,
	ThemeLight:      styles.LightStyle,
	ThemeTokyoNight: styles.TokyoNightStyle,
	ThemeDracula:    styles.DraculaStyle,
	ThemePink:       styles.PinkStyle,
	ThemeNoTTY:      styles.NoTTYStyle,
	ThemeASCII:      styles.AsciiStyle,
}

// IsBuiltinStyle reports whether style names a bundled theme
func IsBuiltinStyle(style string) bool {
	_, ok := glamourStyles[style]
	return ok
}

// styleOption picks a standard style by name or loads a JSON style file.
// Unknown names that are not files fall back to the dark theme.
func styleOption(style string) glamour.TermRendererOption {
	if name, ok := glamourStyles[style]; ok {
		return glamour.WithStandardStyle(name)
	}
	if style != "" {
		if _, err := os.Stat(style); err == nil {
			return glamour.WithStylePath(style)
		}
	}
	return glamour.WithStandardStyle(styles.DarkStyle)
}

// ThemeInfo describes a theme for listings
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes lists the bundled markdown themes
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeDark, Description: "Dark theme (default)"},
		{Name: ThemeTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: ThemeDracula, Description: "Dracula color scheme"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
		{Name: ThemePink, Description: "Pink accents"},
		{Name: ThemeNoTTY, Description: "Plain text (no styling)"},
		{Name: ThemeASCII, Description: "ASCII-only output"},
	}
}

// ThemeNames returns just the theme names
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
