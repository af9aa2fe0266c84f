package markup

import (
	"strings"
	"unicode"

	"github.com/matzehuels/fatwa/pkg/locale"
)

// lookahead is how many bytes after '<' are inspected to classify list tags.
const lookahead = 10

// Options controls marker injection.
type Options struct {
	// RTL renders ordered markers with Arabic-indic digits ("٣ . ").
	RTL bool

	// Sources suppresses bullets on unordered items.
	Sources bool

	// FlatLists keeps a single list context instead of a stack, so an
	// inner list resets the outer one and closing any list leaves list
	// context entirely.
	FlatLists bool
}

type listKind uint8

const (
	listOrdered listKind = iota + 1
	listUnordered
)

type listFrame struct {
	kind    listKind
	counter int
}

type tokenizer struct {
	opts   Options
	stack  []listFrame
	tokens []Token
}

// Tokenize splits html into tag and text tokens and injects list markers
// after every bare <li> tag.
//
// Text inside a list has its leading whitespace trimmed. A '<' that is
// followed by another '<' before any '>' is emitted as text, and so is an
// unterminated tag at the end of the input.
func Tokenize(html string, opts Options) []Token {
	t := &tokenizer{opts: opts}
	i := 0
	for i < len(html) {
		if html[i] != '<' {
			end := strings.IndexByte(html[i:], '<')
			if end < 0 {
				end = len(html)
			} else {
				end += i
			}
			t.text(html[i:end])
			i = end
			continue
		}

		t.inspect(html[i:min(i+lookahead, len(html))])

		next := strings.IndexAny(html[i+1:], "<>")
		if next < 0 {
			t.emit(Text(html[i:]))
			break
		}
		next += i + 1
		if html[next] == '<' {
			t.emit(Text(html[i:next]))
			i = next
			continue
		}

		tag := html[i : next+1]
		t.emit(Tag(tag))
		if tag == "<li>" {
			if marker := t.marker(); marker != "" {
				t.emit(Token{Kind: KindText, Raw: marker, Injected: true})
			}
		}
		i = next + 1
	}
	return t.tokens
}

// inspect updates list context from the start of a tag.
func (t *tokenizer) inspect(head string) {
	switch {
	case strings.HasPrefix(head, "<ol"):
		t.open(listOrdered)
	case strings.HasPrefix(head, "<ul"):
		t.open(listUnordered)
	case strings.HasPrefix(head, "</ol>"), strings.HasPrefix(head, "</ul>"):
		t.close()
	}
}

func (t *tokenizer) open(kind listKind) {
	if t.opts.FlatLists {
		t.stack = t.stack[:0]
	}
	t.stack = append(t.stack, listFrame{kind: kind})
}

func (t *tokenizer) close() {
	if t.opts.FlatLists {
		t.stack = t.stack[:0]
		return
	}
	if n := len(t.stack); n > 0 {
		t.stack = t.stack[:n-1]
	}
}

// marker returns the text to inject after an <li>, or "".
func (t *tokenizer) marker() string {
	n := len(t.stack)
	if n == 0 {
		return ""
	}
	top := &t.stack[n-1]
	switch top.kind {
	case listOrdered:
		top.counter++
		return locale.ListMarker(top.counter, t.opts.RTL)
	case listUnordered:
		if !t.opts.Sources {
			return locale.Bullet
		}
	}
	return ""
}

func (t *tokenizer) text(s string) {
	if len(t.stack) > 0 {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
	}
	t.emit(Text(s))
}

func (t *tokenizer) emit(tok Token) {
	if tok.Raw == "" {
		return
	}
	t.tokens = append(t.tokens, tok)
}
