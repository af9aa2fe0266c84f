package cli

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/fatwa/pkg/chat"
	"github.com/matzehuels/fatwa/pkg/errors"
	"github.com/matzehuels/fatwa/pkg/locale"
	"github.com/matzehuels/fatwa/pkg/termview"
)

const (
	sidebarWidth  = 28 // inner width; the border adds two columns
	thinkingEvery = 400 * time.Millisecond
)

// =============================================================================
// Messages
// =============================================================================

type (
	changedMsg  struct{}
	thinkingMsg struct{}
	submitMsg   struct{ err error }
	refreshMsg  struct{ err error }
	toggleMsg   struct {
		lang locale.Lang
		err  error
	}
	clearMsg struct{ err error }
)

// changes coalesces session change notifications into one pending signal.
type changes chan struct{}

func newChanges() changes { return make(changes, 1) }

func (c changes) notify() {
	select {
	case c <- struct{}{}:
	default:
	}
}

// wait blocks until the session changes.
func (c changes) wait() tea.Cmd {
	return func() tea.Msg {
		<-c
		return changedMsg{}
	}
}

// =============================================================================
// chatModel - Interactive chat
// =============================================================================

// chatModel is the bubbletea model of the full-screen chat.
type chatModel struct {
	ctx     context.Context
	session *chat.Session
	changes changes
	logger  *log.Logger

	input    textinput.Model
	viewport viewport.Model
	opts     termview.Options

	width, height int
	fixedWidth    int
	sidebar       bool
	dots          int
	ready         bool
}

func newChatModel(ctx context.Context, s *chat.Session, ch changes, opts termview.Options, logger *log.Logger) chatModel {
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 2000
	in.Focus()

	m := chatModel{
		ctx:        ctx,
		session:    s,
		changes:    ch,
		logger:     logger,
		input:      in,
		opts:       opts,
		fixedWidth: opts.Width,
		sidebar:    true,
	}
	m.applyLanguage()
	return m
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.changes.wait(), m.refresh())
}

func (m chatModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return refreshMsg{err: m.session.Refresh(m.ctx)}
	}
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()

	case changedMsg:
		m.refreshContent()
		return m, m.changes.wait()

	case thinkingMsg:
		if m.session.State() != chat.Submitting {
			return m, nil
		}
		m.dots++
		m.refreshContent()
		return m, tickThinking()

	case submitMsg:
		m.logError(msg.err)
		m.refreshContent()

	case refreshMsg:
		if msg.err != nil {
			m.logger.Warn("refresh failed, using built-in strings", "err", msg.err)
		}
		m.applyLanguage()
		m.refreshContent()

	case toggleMsg:
		if msg.err != nil && !errors.Is(msg.err, errors.ErrCodeBusy) {
			m.logger.Warn("language refresh failed", "lang", msg.lang, "err", msg.err)
		}
		m.applyLanguage()
		m.refreshContent()

	case clearMsg:
		m.logError(msg.err)
		m.refreshContent()

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	if key, ok := msg.(tea.KeyMsg); ok {
		// Typed letters and spaces must not reach the viewport's pager keys.
		if key.Type == tea.KeySpace {
			m.completeTranslit()
		}
		return m, tea.Batch(cmds...)
	}
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleKey runs global shortcuts. Keys it does not handle go to the input
// and the viewport.
func (m *chatModel) handleKey(k tea.KeyMsg) (tea.Cmd, bool) {
	switch k.String() {
	case "ctrl+c", "ctrl+d", "esc":
		return tea.Quit, true

	case "enter":
		question := m.input.Value()
		if m.session.Busy() || strings.TrimSpace(question) == "" {
			return nil, true
		}
		m.input.Reset()
		m.dots = 0
		s, ctx := m.session, m.ctx
		return tea.Batch(
			func() tea.Msg { return submitMsg{err: s.Submit(ctx, question)} },
			tickThinking(),
		), true

	case "ctrl+l":
		if m.session.Busy() {
			return nil, true
		}
		s, ctx := m.session, m.ctx
		return func() tea.Msg {
			lang, err := s.ToggleLanguage(ctx)
			return toggleMsg{lang: lang, err: err}
		}, true

	case "ctrl+r":
		if m.session.Busy() {
			return nil, true
		}
		s, ctx := m.session, m.ctx
		return func() tea.Msg { return clearMsg{err: s.ClearHistory(ctx)} }, true

	case "ctrl+t":
		m.opts.Theme = m.opts.Theme.Toggle()
		m.refreshContent()
		return nil, true

	case "ctrl+b":
		m.sidebar = !m.sidebar
		m.layout()
		return nil, true

	case "ctrl+p":
		if !m.session.Busy() {
			m.session.CycleProvider()
		}
		return nil, true

	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(k)
		return cmd, true
	}
	return nil, false
}

// completeTranslit converts the word just finished with a space when
// Arabic transliteration is on.
func (m *chatModel) completeTranslit() {
	field := m.session.Translit()
	if !field.Enabled() {
		return
	}
	if v := m.input.Value(); v != "" {
		if converted := field.Complete(v); converted != v {
			m.input.SetValue(converted)
			m.input.CursorEnd()
		}
	}
}

// logError records a failed request. The session already shows it as a
// system message.
func (m *chatModel) logError(err error) {
	if err != nil && !errors.Is(err, errors.ErrCodeBusy) {
		m.logger.Error("request failed", "err", err)
	}
}

// applyLanguage updates text that depends on the UI language.
func (m *chatModel) applyLanguage() {
	m.input.Placeholder = m.session.Text(locale.KeyPlaceholder)
}

func (m *chatModel) mainWidth() int {
	w := m.width
	if m.sidebar {
		w -= sidebarWidth + 2
	}
	return max(w, 20)
}

func (m *chatModel) layout() {
	if m.width == 0 {
		return
	}
	w := m.mainWidth()
	h := max(m.height-4, 3) // header, question, input, help
	if !m.ready {
		m.viewport = viewport.New(w, h)
		m.ready = true
	} else {
		m.viewport.Width, m.viewport.Height = w, h
	}
	m.input.Width = w - len(m.input.Prompt) - 1
	m.refreshContent()
}

func (m *chatModel) refreshContent() {
	if !m.ready {
		return
	}
	opts := m.opts
	opts.Width = m.viewport.Width
	if m.fixedWidth > 0 && m.fixedWidth < opts.Width {
		opts.Width = m.fixedWidth
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(renderConversation(m.session, opts, m.dots))
	if atBottom || m.session.Busy() {
		m.viewport.GotoBottom()
	}
}

func (m chatModel) View() string {
	if !m.ready {
		return ""
	}
	t := m.opts.Theme
	w := m.mainWidth()
	rtl := m.session.Lang().Direction().IsRTL()
	align := lipgloss.Left
	if rtl {
		align = lipgloss.Right
	}
	line := lipgloss.NewStyle().Width(w).Align(align)

	title := t.Heading.Render(m.session.Text(locale.KeyTitle)) + " " +
		t.Muted.Render("["+m.session.Lang().String()+"]")
	header := line.Render(title)

	question := line.Render(t.Muted.Render(m.session.LastQuestion()))

	input := m.input.View()
	if m.session.Busy() {
		input = t.Muted.Render(m.input.Prompt + m.session.Text(locale.KeyThinking) + "…")
	}

	help := t.Muted.Render("enter ask · ctrl+l language · ctrl+t theme · ctrl+b sources · ctrl+p provider · ctrl+r clear · esc quit")

	main := lipgloss.JoinVertical(lipgloss.Left, header, question, m.viewport.View(), input, help)
	if !m.sidebar {
		return main
	}
	side := renderSidebar(m.session, t, sidebarWidth, max(m.height-2, 3))
	if rtl {
		return lipgloss.JoinHorizontal(lipgloss.Top, side, main)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, main, side)
}

func tickThinking() tea.Cmd {
	return tea.Tick(thinkingEvery, func(time.Time) tea.Msg { return thinkingMsg{} })
}
