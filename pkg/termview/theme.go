package termview

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme names accepted by ThemeByName.
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Theme groups the styles used for chat content.
type Theme struct {
	Name string

	Text     lipgloss.Style
	Muted    lipgloss.Style
	Heading  lipgloss.Style
	Strong   lipgloss.Style
	Emphasis lipgloss.Style
	Strike   lipgloss.Style
	Code     lipgloss.Style
	Link     lipgloss.Style
	Quote    lipgloss.Style

	// Message chrome.
	User      lipgloss.Style
	Assistant lipgloss.Style
	System    lipgloss.Style
	Accent    lipgloss.Style
	Border    lipgloss.Color
}

func newTheme(name string, text, muted, accent, link, code, user, system lipgloss.Color) Theme {
	return Theme{
		Name:      name,
		Text:      lipgloss.NewStyle().Foreground(text),
		Muted:     lipgloss.NewStyle().Foreground(muted),
		Heading:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		Strong:    lipgloss.NewStyle().Bold(true),
		Emphasis:  lipgloss.NewStyle().Italic(true),
		Strike:    lipgloss.NewStyle().Strikethrough(true),
		Code:      lipgloss.NewStyle().Foreground(code),
		Link:      lipgloss.NewStyle().Foreground(link).Underline(true),
		Quote:     lipgloss.NewStyle().Foreground(muted).Italic(true),
		User:      lipgloss.NewStyle().Bold(true).Foreground(user),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(accent),
		System:    lipgloss.NewStyle().Foreground(system),
		Accent:    lipgloss.NewStyle().Foreground(accent),
		Border:    muted,
	}
}

// Light is the theme for light terminal backgrounds.
func Light() Theme {
	return newTheme(ThemeLight,
		lipgloss.Color("235"), // near black
		lipgloss.Color("244"),
		lipgloss.Color("30"), // teal
		lipgloss.Color("25"),
		lipgloss.Color("130"),
		lipgloss.Color("24"),
		lipgloss.Color("124"),
	)
}

// Dark is the theme for dark terminal backgrounds.
func Dark() Theme {
	return newTheme(ThemeDark,
		lipgloss.Color("252"),
		lipgloss.Color("245"),
		lipgloss.Color("36"),
		lipgloss.Color("75"),
		lipgloss.Color("180"),
		lipgloss.Color("117"),
		lipgloss.Color("167"),
	)
}

// Plain is a theme without any styling. Output rendered with it contains
// no escape sequences other than hyperlinks.
func Plain() Theme {
	s := lipgloss.NewStyle()
	return Theme{
		Name: "plain", Text: s, Muted: s, Heading: s, Strong: s, Emphasis: s,
		Strike: s, Code: s, Link: s, Quote: s, User: s, Assistant: s, System: s, Accent: s,
	}
}

// ThemeByName returns the named theme. "auto" picks light or dark from the
// terminal background.
func ThemeByName(name string) (Theme, error) {
	switch name {
	case ThemeLight:
		return Light(), nil
	case ThemeDark:
		return Dark(), nil
	case ThemeAuto, "":
		if lipgloss.HasDarkBackground() {
			return Dark(), nil
		}
		return Light(), nil
	default:
		return Theme{}, fmt.Errorf("unknown theme %q (want auto, light or dark)", name)
	}
}

// Toggle returns the opposite of t: dark for light and light for anything
// else.
func (t Theme) Toggle() Theme {
	if t.Name == ThemeLight {
		return Dark()
	}
	return Light()
}
