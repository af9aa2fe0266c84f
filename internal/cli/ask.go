package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fatwa/pkg/chat"
	"github.com/matzehuels/fatwa/pkg/errors"
	"github.com/matzehuels/fatwa/pkg/locale"
	"github.com/matzehuels/fatwa/pkg/termview"
)

// askCommand creates the one-shot ask command.
func (c *CLI) askCommand() *cobra.Command {
	var noAnimate bool

	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask one question and print the answer",
		Long: `Ask one question and print the answer followed by its sources.

The question is read from standard input when no arguments are given or the
only argument is "-". On a terminal the answer is typed out; otherwise it is
printed at once.`,
		Example: `  fatwa ask "Is it permissible to pray while traveling?"
  fatwa ask --lang ar "ما حكم صيام يوم عرفة؟"
  echo "What is zakat?" | fatwa ask`,
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := readQuestion(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			animate := !noAnimate && isTerminal(os.Stdout)
			return c.runAsk(cmd.Context(), question, animate)
		},
	}

	cmd.Flags().BoolVar(&noAnimate, "no-animate", false, "print the answer at once")
	return cmd
}

// readQuestion joins args, or reads r when there are none.
func readQuestion(args []string, r io.Reader) (string, error) {
	var q string
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := io.ReadAll(io.LimitReader(r, 64<<10))
		if err != nil {
			return "", fmt.Errorf("read question: %w", err)
		}
		q = string(data)
	} else {
		q = strings.Join(args, " ")
	}
	q = strings.TrimSpace(q)
	if err := errors.ValidateQuestion(q); err != nil {
		return "", err
	}
	return q, nil
}

func (c *CLI) runAsk(ctx context.Context, question string, animate bool) error {
	logger := loggerFromContext(ctx)
	client, err := c.newClient(ctx)
	if err != nil {
		return err
	}
	opts := c.viewOptions(c.outputWidth(os.Stdout))

	if !animate {
		session := c.newSession(client, false, nil)
		// Arabizi conversion only applies to interactive typing.
		session.Translit().Disable()

		var spin *Spinner
		if isTerminal(os.Stderr) {
			spin = newSpinner(ctx, os.Stderr, session.Text(locale.KeyThinking))
			spin.Start()
		}
		prog := newProgress(logger)
		err := session.Submit(ctx, question)
		if spin != nil {
			spin.Stop()
		}
		prog.done("answered", "server", client.Server())
		printAnswer(os.Stdout, session, opts)
		return err
	}

	ch := newChanges()
	session := c.newSession(client, true, ch.notify)
	session.Translit().Disable()

	restore, err := redirectLog(c.Logger, "")
	if err != nil {
		return err
	}
	defer restore()

	model := askModel{ctx: ctx, session: session, changes: ch, opts: opts, question: question}
	final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(os.Stdout)).Run()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	if m, ok := final.(askModel); ok {
		return m.err
	}
	return nil
}

// printAnswer writes every reply of the session, skipping the question.
func printAnswer(w io.Writer, s *chat.Session, opts termview.Options) {
	for _, m := range s.Messages() {
		if m.Role == chat.RoleUser {
			continue
		}
		fmt.Fprintln(w, renderMessage(m, opts))
	}
}

// =============================================================================
// askModel - Inline answer animation
// =============================================================================

type spinMsg struct{}

// askModel shows a spinner while the question is in flight, then the
// answer as it is typed out. It quits once the session is idle again.
type askModel struct {
	ctx      context.Context
	session  *chat.Session
	changes  changes
	opts     termview.Options
	question string

	frame int
	done  bool
	err   error
}

func (m askModel) Init() tea.Cmd {
	s, ctx, q := m.session, m.ctx, m.question
	return tea.Batch(
		m.changes.wait(),
		func() tea.Msg { return submitMsg{err: s.Submit(ctx, q)} },
		tickSpin(),
	)
}

func (m askModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		return m, m.changes.wait()
	case spinMsg:
		if m.done {
			return m, nil
		}
		m.frame++
		return m, tickSpin()
	case submitMsg:
		m.done, m.err = true, msg.err
		return m, tea.Quit
	case tea.WindowSizeMsg:
		if msg.Width > 0 && m.opts.Width > msg.Width {
			m.opts.Width = msg.Width
		}
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m askModel) View() string {
	var parts []string
	for _, msg := range m.session.Messages() {
		if msg.Role != chat.RoleUser {
			parts = append(parts, renderMessage(msg, m.opts))
		}
	}
	if !m.done && m.session.State() != chat.Rendering {
		frame := styleIconSpinner.Render(spinnerFrames[m.frame%len(spinnerFrames)])
		parts = append(parts, frame+" "+m.opts.Theme.Muted.Render(m.session.Text(locale.KeyThinking)))
	}
	return strings.Join(parts, "\n\n") + "\n"
}

func tickSpin() tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg { return spinMsg{} })
}
