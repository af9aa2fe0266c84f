// Package termview draws the HTML surfaces of a chat as styled terminal
// text.
//
// The typewriter writes partial HTML to its surfaces many times a second,
// so Render has to accept any prefix of a document: unclosed tags are
// closed implicitly by the HTML parser and a trailing partial tag never
// reaches it (the tokenizer appends tags atomically).
//
// Block elements (p, headings, li, pre, blockquote) become lines, wrapped
// to Options.Width. Inline elements map to lipgloss styles from a Theme.
// Links are emitted as OSC 8 hyperlinks when Options.Hyperlinks is set and
// as "text (url)" otherwise. RTL output is right-aligned.
package termview
