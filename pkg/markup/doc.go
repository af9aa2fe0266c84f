// Package markup splits rendered HTML into tag and text tokens for the
// typewriter animation.
//
// Tags are kept whole so a partially revealed answer never contains half a
// tag. Text runs are revealed rune by rune by package typewriter.
//
// While scanning, the tokenizer tracks list context and injects marker text
// after each <li> tag, because the terminal and the animated surfaces do not
// draw list markers themselves:
//
//	tokens := markup.Tokenize("<ol><li>A</li><li>B</li></ol>", markup.Options{})
//	markup.Materialize(tokens) // "<ol><li>1. A</li><li>2. B</li></ol>"
//
// With Options.RTL the ordered markers use Arabic-indic digits ("١ . ").
// With Options.Sources unordered items get no bullet, which keeps the source
// link list compact.
package markup
