package typewriter

import (
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/fatwa/pkg/markup"
)

// StepKind says what a step did.
type StepKind uint8

const (
	// StepTag appended a whole tag. A frame yield follows.
	StepTag StepKind = iota + 1
	// StepRune appended one rune of text. A char delay follows.
	StepRune
	// StepAdvance finished a text run without touching the output. A frame
	// yield follows.
	StepAdvance
)

// String returns the step kind name.
func (k StepKind) String() string {
	switch k {
	case StepTag:
		return "tag"
	case StepRune:
		return "rune"
	case StepAdvance:
		return "advance"
	default:
		return "unknown"
	}
}

// Step is one unit of animation progress.
type Step struct {
	Kind StepKind

	// Output is the accumulated HTML after the step.
	Output string
}

// Mutates reports whether the step changed the output, meaning the surface
// has to be redrawn.
func (s Step) Mutates() bool { return s.Kind != StepAdvance }

// Animation is the cursor over a token sequence.
//
// It is not safe for concurrent use.
type Animation struct {
	tokens []markup.Token
	tok    int // current token
	off    int // byte offset inside the current text token
	out    strings.Builder
}

// NewAnimation starts an animation over tokens.
func NewAnimation(tokens []markup.Token) *Animation {
	return &Animation{tokens: tokens}
}

// Next performs one step. It returns false once all tokens are consumed.
func (a *Animation) Next() (Step, bool) {
	if a.tok >= len(a.tokens) {
		return Step{}, false
	}
	t := a.tokens[a.tok]
	if t.Kind == markup.KindTag {
		a.out.WriteString(t.Raw)
		a.tok++
		return Step{Kind: StepTag, Output: a.out.String()}, true
	}
	if a.off < len(t.Raw) {
		_, size := utf8.DecodeRuneInString(t.Raw[a.off:])
		a.out.WriteString(t.Raw[a.off : a.off+size])
		a.off += size
		return Step{Kind: StepRune, Output: a.out.String()}, true
	}
	a.tok++
	a.off = 0
	return Step{Kind: StepAdvance, Output: a.out.String()}, true
}

// Output returns the HTML revealed so far.
func (a *Animation) Output() string { return a.out.String() }

// Done reports whether all tokens were consumed.
func (a *Animation) Done() bool { return a.tok >= len(a.tokens) }

// Progress returns the number of consumed tokens and the total.
func (a *Animation) Progress() (done, total int) { return a.tok, len(a.tokens) }
