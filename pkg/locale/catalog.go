package locale

import (
	_ "embed"
	"fmt"
	"maps"

	"github.com/BurntSushi/toml"
)

// Catalog keys. The first group is served by the backend, the second only
// exists in the built-in catalog.
const (
	KeyPlaceholder     = "placeholder"
	KeyThinking        = "thinking"
	KeyTitle           = "title"
	KeySourcesTitle    = "sources_title"
	KeyErrorNoQuestion = "error_no_question"
	KeyErrorInternal   = "error_internal"
	KeyHistoryCleared  = "history_cleared"

	KeyWelcome      = "welcome"
	KeyDisclaimer   = "disclaimer"
	KeyAnswerPrefix = "answer_prefix"
)

//go:embed catalog.toml
var catalogTOML string

var builtin map[Lang]Catalog

func init() {
	var raw map[string]map[string]string
	if _, err := toml.Decode(catalogTOML, &raw); err != nil {
		panic(fmt.Sprintf("locale: embedded catalog: %v", err))
	}
	builtin = make(map[Lang]Catalog, len(raw))
	for lang, entries := range raw {
		builtin[Lang(lang)] = Catalog(entries)
	}
}

// Catalog maps UI string keys to localized text.
type Catalog map[string]string

// Builtin returns a copy of the embedded catalog for l, falling back to
// English for unknown languages.
func Builtin(l Lang) Catalog {
	c, ok := builtin[l]
	if !ok {
		c = builtin[English]
	}
	return maps.Clone(c)
}

// Text returns the string for key, or "" when the key is missing.
func (c Catalog) Text(key string) string {
	return c[key]
}

// Merge returns a new catalog with remote layered over c. Empty remote
// values do not replace existing ones.
func (c Catalog) Merge(remote map[string]string) Catalog {
	out := maps.Clone(c)
	if out == nil {
		out = make(Catalog, len(remote))
	}
	for k, v := range remote {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
