package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fatwa/pkg/markdown"
	"github.com/matzehuels/fatwa/pkg/termview"
	"github.com/matzehuels/fatwa/pkg/typewriter"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	rtl       bool // Arabic-Indic list numbering and right alignment
	sources   bool // render as a sources block (no bullets)
	html      bool // print the final HTML instead of terminal text
	noAnimate bool
}

// renderCommand creates the command previewing local Markdown through the
// answer renderer.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Type out a local Markdown file the way answers are shown",
		Long: `Convert a Markdown file (or standard input with "-") to HTML and play
it through the same typewriter used for answers. Useful to check list
numbering, Arabic layout and wrapping without a backend.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			src, err := readSource(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), src, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.rtl, "rtl", false, "Arabic numbering and right-to-left layout")
	cmd.Flags().BoolVar(&opts.sources, "sources", false, "render as a sources block (no bullets)")
	cmd.Flags().BoolVar(&opts.html, "html", false, "print the rendered HTML")
	cmd.Flags().BoolVar(&opts.noAnimate, "no-animate", false, "print the result at once")
	return cmd
}

func readSource(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func (c *CLI) runRender(ctx context.Context, src string, opts renderOpts) error {
	html, err := markdown.ToHTML(src)
	if err != nil {
		c.Logger.Warn("markdown conversion failed, rendering as text", "err", err)
		html = markdown.Fallback(src)
	}

	view := c.viewOptions(c.outputWidth(os.Stdout))
	view.RTL = opts.rtl
	animate := !opts.noAnimate && !opts.html && isTerminal(os.Stdout)

	ch := newChanges()
	surface := &liveSurface{notify: ch.notify}
	target := typewriter.Target{Surface: surface, Name: "preview", RTL: opts.rtl, Sources: opts.sources}

	if !animate {
		r := c.newRenderer(false)
		if err := r.Render(ctx, target, html, nil); err != nil {
			c.Logger.Warn("render failed, showing full content", "err", err)
		}
		if opts.html {
			fmt.Println(surface.HTML())
			return nil
		}
		fmt.Println(termview.Render(surface.HTML(), view))
		return nil
	}

	r := c.newRenderer(true)
	model := previewModel{ctx: ctx, renderer: r, target: target, html: html, surface: surface, changes: ch, opts: view}
	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return ctx.Err()
}

// liveSurface stores the latest HTML and signals every change.
type liveSurface struct {
	mu     sync.Mutex
	html   string
	notify func()
}

func (s *liveSurface) SetHTML(html string) {
	s.mu.Lock()
	s.html = html
	s.mu.Unlock()
	if s.notify != nil {
		s.notify()
	}
}

func (s *liveSurface) HTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.html
}

type renderDoneMsg struct{}

// previewModel plays one render inline and quits when it completes.
type previewModel struct {
	ctx      context.Context
	renderer *typewriter.Renderer
	target   typewriter.Target
	html     string
	surface  *liveSurface
	changes  changes
	opts     termview.Options
}

func (m previewModel) Init() tea.Cmd {
	return tea.Batch(m.changes.wait(), func() tea.Msg {
		_ = m.renderer.Render(m.ctx, m.target, m.html, nil)
		return renderDoneMsg{}
	})
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		return m, m.changes.wait()
	case renderDoneMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m previewModel) View() string {
	return termview.Render(m.surface.HTML(), m.opts) + "\n"
}
