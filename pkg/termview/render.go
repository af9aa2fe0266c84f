package termview

import (
	"html"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/wrap"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Options controls Render.
type Options struct {
	// Width is the line width. Zero or less disables wrapping and
	// alignment.
	Width int

	// RTL right-aligns every line within Width.
	RTL bool

	Theme Theme

	// Hyperlinks emits links as OSC 8 sequences instead of "text (url)".
	Hyperlinks bool
}

const (
	osc8Open  = "\x1b]8;;"
	osc8ST    = "\x1b\\"
	osc8Close = osc8Open + osc8ST

	listIndent = 3
)

// Render lays out an HTML fragment (or any prefix of one) as terminal
// lines. Blank input renders as "".
func Render(src string, opts Options) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	l := &layout{opts: opts}
	body := &xhtml.Node{Type: xhtml.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := xhtml.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		l.add(segment{text: src, style: opts.Theme.Text})
	}
	for _, n := range nodes {
		l.walk(n)
	}
	l.flush()
	return strings.Join(l.lines, "\n")
}

// Text lays out plain text. Newlines are kept as line breaks.
func Text(s string, opts Options) string {
	escaped := strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
	return Render("<p>"+escaped+"</p>", opts)
}

type segment struct {
	text  string
	style lipgloss.Style
	href  string
}

type block struct {
	segs   []segment
	indent int
	quote  bool
	pre    bool
	gap    bool

	// pendingBreak defers the line break after a paragraph nested in a
	// list item until more content arrives.
	pendingBreak bool
}

type layout struct {
	opts  Options
	lines []string

	cur     *block
	styles  []lipgloss.Style
	href    string
	depth   int
	quote   int
	pre     int
	gapNext bool
}

func (l *layout) style() lipgloss.Style {
	if len(l.styles) == 0 {
		return l.opts.Theme.Text
	}
	return l.styles[len(l.styles)-1]
}

func (l *layout) push(s lipgloss.Style) {
	l.styles = append(l.styles, s.Inherit(l.style()))
}

func (l *layout) pop() {
	l.styles = l.styles[:len(l.styles)-1]
}

func (l *layout) children(n *xhtml.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		l.walk(c)
	}
}

func (l *layout) walk(n *xhtml.Node) {
	switch n.Type {
	case xhtml.TextNode:
		l.text(n.Data)
		return
	case xhtml.ElementNode:
	default:
		l.children(n)
		return
	}

	t := l.opts.Theme
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Head, atom.Title, atom.Template:
		return

	case atom.Br:
		l.add(segment{text: "\n"})

	case atom.Hr:
		l.open(true)
		width := l.opts.Width
		if width <= 0 {
			width = 3
		}
		l.add(segment{text: strings.Repeat("─", width), style: t.Muted})
		l.flush()

	case atom.Ul, atom.Ol:
		l.flush()
		if l.depth == 0 {
			l.gapNext = true
		}
		l.depth++
		l.children(n)
		l.flush()
		l.depth--
		if l.depth == 0 {
			l.gapNext = true
		}

	case atom.Li:
		l.open(false)
		l.children(n)
		l.flush()

	case atom.P, atom.Div:
		if l.depth > 0 && l.cur != nil {
			// Loose list items wrap their text in paragraphs.
			l.children(n)
			if l.cur != nil {
				l.cur.pendingBreak = true
			}
			return
		}
		l.open(true)
		l.children(n)
		l.flush()

	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		l.open(true)
		l.push(t.Heading)
		l.children(n)
		l.pop()
		l.flush()

	case atom.Pre:
		l.pre++
		l.open(true)
		l.push(t.Code)
		l.children(n)
		l.pop()
		l.flush()
		l.pre--

	case atom.Blockquote:
		l.flush()
		l.quote++
		l.gapNext = l.depth == 0
		l.push(t.Quote)
		l.children(n)
		l.pop()
		l.flush()
		l.quote--

	case atom.Table:
		l.flush()
		l.gapNext = l.depth == 0
		l.children(n)
		l.flush()

	case atom.Tr:
		l.open(false)
		l.children(n)
		l.flush()

	case atom.Td, atom.Th:
		if l.cur != nil && len(l.cur.segs) > 0 {
			l.add(segment{text: " │ ", style: t.Muted})
		}
		if n.DataAtom == atom.Th {
			l.push(t.Strong)
			defer l.pop()
		}
		l.children(n)

	case atom.A:
		l.link(n)

	case atom.Strong, atom.B:
		l.inline(n, t.Strong)
	case atom.Em, atom.I:
		l.inline(n, t.Emphasis)
	case atom.Del, atom.S, atom.Strike:
		l.inline(n, t.Strike)
	case atom.Code:
		l.inline(n, t.Code)
	case atom.U:
		l.inline(n, lipgloss.NewStyle().Underline(true))

	default:
		l.children(n)
	}
}

func (l *layout) inline(n *xhtml.Node, s lipgloss.Style) {
	l.push(s)
	l.children(n)
	l.pop()
}

func (l *layout) link(n *xhtml.Node) {
	var href string
	for _, a := range n.Attr {
		if a.Key == "href" {
			href = a.Val
		}
	}

	outer := l.href
	l.href = href
	l.push(l.opts.Theme.Link)
	if l.cur == nil {
		l.open(l.depth == 0)
	}
	start, from := l.cur, len(l.cur.segs)
	l.children(n)
	l.pop()
	l.href = outer

	if href == "" || l.opts.Hyperlinks || l.cur == nil {
		return
	}
	var label strings.Builder
	if l.cur == start {
		for _, s := range l.cur.segs[from:] {
			label.WriteString(s.text)
		}
	}
	if strings.TrimSpace(label.String()) != href {
		l.add(segment{text: " (" + href + ")", style: l.opts.Theme.Muted})
	}
}

func (l *layout) text(s string) {
	if l.pre == 0 {
		s = collapseSpace(s)
		if l.cur == nil && strings.TrimSpace(s) == "" {
			return
		}
	}
	if s == "" {
		return
	}
	l.add(segment{text: s, style: l.style(), href: l.href})
}

func (l *layout) add(seg segment) {
	if l.cur == nil {
		l.open(l.depth == 0)
	}
	if l.cur.pendingBreak && strings.TrimSpace(seg.text) != "" {
		l.cur.pendingBreak = false
		l.cur.segs = append(l.cur.segs, segment{text: "\n"})
	}
	l.cur.segs = append(l.cur.segs, seg)
}

// open flushes the current block and starts a new one.
func (l *layout) open(gap bool) {
	l.flush()
	indent := 0
	if l.depth > 1 {
		indent = (l.depth - 1) * listIndent
	}
	l.cur = &block{
		indent: indent,
		quote:  l.quote > 0,
		pre:    l.pre > 0,
		gap:    l.gapNext || (gap && l.depth == 0),
	}
	l.gapNext = false
}

func (l *layout) flush() {
	b := l.cur
	if b == nil {
		return
	}
	l.cur = nil
	if !b.pre {
		trimBlock(b)
	}
	if len(b.segs) == 0 {
		return
	}
	if b.gap && len(l.lines) > 0 {
		l.lines = append(l.lines, "")
	}
	l.lines = append(l.lines, l.render(b)...)
}

func (l *layout) render(b *block) []string {
	prefix, prefixWidth := "", 0
	if b.quote {
		prefix, prefixWidth = l.opts.Theme.Muted.Render("│"), 2
	}

	avail := 0
	if l.opts.Width > 0 {
		avail = max(l.opts.Width-b.indent-prefixWidth, 1)
	}

	rows := l.fit(b, avail)
	out := make([]string, len(rows))
	for i, r := range rows {
		indent := strings.Repeat(" ", b.indent)
		if !l.opts.RTL {
			if prefix != "" {
				out[i] = indent + prefix + " " + r.text
			} else {
				out[i] = indent + r.text
			}
			continue
		}
		line := r.text
		if prefix != "" {
			line += " " + prefix
		}
		pad := 0
		if l.opts.Width > 0 {
			pad = max(l.opts.Width-r.width-prefixWidth-b.indent, 0)
		}
		out[i] = strings.Repeat(" ", pad) + line + indent
	}
	return out
}

type row struct {
	text  string
	width int
}

// fit breaks a block into rows of at most avail cells (unbounded when
// avail is 0), breaking at spaces and splitting words that are wider than
// a whole row.
func (l *layout) fit(b *block, avail int) []row {
	var (
		rows    []row
		line    strings.Builder
		width   int
		spacing bool
	)
	emit := func() {
		rows = append(rows, row{text: line.String(), width: width})
		line.Reset()
		width, spacing = 0, false
	}

	for _, seg := range b.segs {
		for _, p := range pieces(seg.text, b.pre) {
			switch {
			case p == "\n":
				emit()
			case !b.pre && strings.TrimSpace(p) == "":
				spacing = width > 0
			default:
				w := ansi.PrintableRuneWidth(p)
				gap := 0
				if spacing {
					gap = 1
				}
				if avail > 0 && width > 0 && width+gap+w > avail {
					emit()
					gap = 0
				}
				if avail > 0 && !b.pre && w > avail {
					parts := strings.Split(wrap.String(p, avail), "\n")
					for i, part := range parts {
						if i > 0 {
							emit()
						}
						line.WriteString(l.word(part, seg))
						width = ansi.PrintableRuneWidth(part)
					}
					spacing = false
					continue
				}
				if gap > 0 {
					line.WriteByte(' ')
					width++
				}
				line.WriteString(l.word(p, seg))
				width += w
				spacing = false
			}
		}
	}
	if width > 0 || len(rows) == 0 {
		emit()
	}
	return rows
}

func (l *layout) word(text string, seg segment) string {
	s := seg.style.Render(text)
	if seg.href != "" && l.opts.Hyperlinks {
		s = osc8Open + seg.href + osc8ST + s + osc8Close
	}
	return s
}

// pieces splits text into words, runs of spaces and line breaks. In
// preformatted text only line breaks split.
func pieces(text string, pre bool) []string {
	var out []string
	start := 0
	kind := -1 // 0 word, 1 space
	for i, r := range text {
		if r == '\n' {
			if i > start {
				out = append(out, text[start:i])
			}
			out = append(out, "\n")
			start, kind = i+1, -1
			continue
		}
		if pre {
			continue
		}
		k := 0
		if unicode.IsSpace(r) {
			k = 1
		}
		if kind != -1 && k != kind && i > start {
			out = append(out, text[start:i])
			start = i
		}
		kind = k
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

// collapseSpace folds runs of whitespace into one space, the way a browser
// does outside of pre.
func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// trimBlock drops leading and trailing whitespace of a block.
func trimBlock(b *block) {
	for len(b.segs) > 0 {
		s := &b.segs[0]
		s.text = strings.TrimLeftFunc(s.text, unicode.IsSpace)
		if s.text != "" {
			break
		}
		b.segs = b.segs[1:]
	}
	for len(b.segs) > 0 {
		s := &b.segs[len(b.segs)-1]
		s.text = strings.TrimRightFunc(s.text, unicode.IsSpace)
		if s.text != "" {
			break
		}
		b.segs = b.segs[:len(b.segs)-1]
	}
}
