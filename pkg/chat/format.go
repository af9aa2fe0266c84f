package chat

import (
	"html"
	"strings"

	"github.com/matzehuels/fatwa/pkg/backend"
	"github.com/matzehuels/fatwa/pkg/locale"
)

// StripAnswerPrefix removes the leading "Answer: " (or its Arabic form for
// RTL answers) that the backend puts in front of every answer.
func StripAnswerPrefix(answer string, dir locale.Direction) string {
	lang := locale.English
	if dir.IsRTL() {
		lang = locale.Arabic
	}
	return strings.TrimPrefix(answer, locale.Builtin(lang).Text(locale.KeyAnswerPrefix))
}

// SourcesHTML renders the sources block: a title paragraph followed by a
// list of links. It returns "" when there are no sources.
func SourcesHTML(sources []backend.Source, dir locale.Direction) string {
	if len(sources) == 0 {
		return ""
	}
	lang := locale.English
	if dir.IsRTL() {
		lang = locale.Arabic
	}

	var b strings.Builder
	b.WriteString("<p>")
	b.WriteString(html.EscapeString(locale.Builtin(lang).Text(locale.KeySourcesTitle)))
	b.WriteString("</p><ul>")
	for _, s := range sources {
		title := s.Title
		if title == "" {
			title = s.URL
		}
		b.WriteString(`<li><a href="`)
		b.WriteString(html.EscapeString(s.URL))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(title))
		b.WriteString("</a></li>")
	}
	b.WriteString("</ul>")
	return b.String()
}
