package markup

import "strings"

// Kind discriminates the two token variants.
type Kind uint8

const (
	// KindText is a run of characters between tags.
	KindText Kind = iota
	// KindTag is a complete start or end tag including the angle brackets.
	KindTag
)

// String returns "text" or "tag".
func (k Kind) String() string {
	if k == KindTag {
		return "tag"
	}
	return "text"
}

// Token is one unit of tokenized HTML.
type Token struct {
	Kind Kind
	Raw  string

	// Injected marks list-marker text that was not part of the input.
	Injected bool
}

// Text returns a text token.
func Text(raw string) Token { return Token{Kind: KindText, Raw: raw} }

// Tag returns a tag token.
func Tag(raw string) Token { return Token{Kind: KindTag, Raw: raw} }

// Materialize joins all tokens, markers included. This is what a completed
// animation shows.
func Materialize(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Raw)
	}
	return b.String()
}

// Source joins the tokens that came from the input, skipping injected
// markers.
func Source(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		if !t.Injected {
			b.WriteString(t.Raw)
		}
	}
	return b.String()
}
