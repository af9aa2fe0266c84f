package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/fatwa/pkg/chat"
	"github.com/matzehuels/fatwa/pkg/locale"
	"github.com/matzehuels/fatwa/pkg/termview"
)

// renderMessage draws one conversation entry.
func renderMessage(m *chat.Message, opts termview.Options) string {
	opts.RTL = m.Direction.IsRTL()
	switch m.Role {
	case chat.RoleUser:
		opts.Theme.Text = opts.Theme.User
		return termview.Text(userMarker(opts.RTL)+m.Text, opts)
	case chat.RoleSystem:
		opts.Theme.Text = opts.Theme.System
		return termview.Text(m.Text, opts)
	}

	out := termview.Render(m.Answer.HTML(), opts)
	if m.Sources.Visible() {
		if src := termview.Render(m.Sources.HTML(), opts); src != "" {
			out += "\n\n" + src
		}
	}
	return out
}

func userMarker(rtl bool) string {
	if rtl {
		return "‹ "
	}
	return "› "
}

// renderConversation draws every message, or the welcome text for an empty
// session. While a question is in flight the thinking indicator follows the
// last message.
func renderConversation(s *chat.Session, opts termview.Options, dots int) string {
	rtl := s.Lang().Direction().IsRTL()
	if s.Empty() {
		welcome := opts
		welcome.RTL = rtl
		welcome.Theme.Text = opts.Theme.Accent
		note := opts
		note.RTL = rtl
		note.Theme.Text = opts.Theme.Muted
		return termview.Text(s.Text(locale.KeyWelcome), welcome) + "\n\n" +
			termview.Text(s.Text(locale.KeyDisclaimer), note)
	}

	var parts []string
	for _, m := range s.Messages() {
		parts = append(parts, renderMessage(m, opts))
	}
	if s.State() == chat.Submitting {
		parts = append(parts, thinking(s, opts, dots))
	}
	return strings.Join(parts, "\n\n")
}

func thinking(s *chat.Session, opts termview.Options, dots int) string {
	opts.RTL = s.Lang().Direction().IsRTL()
	opts.Theme.Text = opts.Theme.Muted
	return termview.Text(s.Text(locale.KeyThinking)+strings.Repeat(".", dots%4), opts)
}

// renderSidebar lists the providers of the current language, marking the
// selected one.
func renderSidebar(s *chat.Session, theme termview.Theme, width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render(s.Text(locale.KeySourcesTitle)))
	b.WriteString("\n\n")
	selected := s.Provider()
	for _, p := range s.Providers() {
		marker, style := "  ", theme.Text
		if p.ID == selected {
			marker, style = "● ", theme.Accent
		}
		b.WriteString(style.Render(marker + p.Name))
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(b.String())
}
