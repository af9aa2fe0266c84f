package locale

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"

	"github.com/matzehuels/fatwa/pkg/errors"
)

// Lang is a UI language code as used by the backend ("en" or "ar").
type Lang string

// Supported languages.
const (
	English Lang = "en"
	Arabic  Lang = "ar"
)

// Direction is the text direction of a language or a piece of text.
type Direction string

// Text directions.
const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// IsRTL reports whether d is right-to-left.
func (d Direction) IsRTL() bool { return d == RTL }

// String returns the language code.
func (l Lang) String() string { return string(l) }

// Direction returns the layout direction used for l.
func (l Lang) Direction() Direction {
	if l == Arabic {
		return RTL
	}
	return LTR
}

// Toggle returns the other supported language.
func (l Lang) Toggle() Lang {
	if l == Arabic {
		return English
	}
	return Arabic
}

// Valid reports whether l is a supported language.
func (l Lang) Valid() bool {
	return l == English || l == Arabic
}

var supported = []language.Tag{language.English, language.Arabic}

var matcher = language.NewMatcher(supported)

// Parse converts a language code or locale name ("ar", "AR", "ar_EG.UTF-8",
// "en-US") into a supported Lang.
func Parse(s string) (Lang, error) {
	tag, err := parseTag(s)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidLanguage, err, "invalid language %q", s)
	}
	base, _ := tag.Base()
	switch base.String() {
	case "en":
		return English, nil
	case "ar":
		return Arabic, nil
	}
	return "", errors.New(errors.ErrCodeInvalidLanguage, "unsupported language %q (want en or ar)", s)
}

// FromEnv picks the closest supported language from the POSIX locale
// variables (LC_ALL, LC_MESSAGES, LANG). It returns English when nothing
// matches.
func FromEnv() Lang {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		tag, err := parseTag(v)
		if err != nil {
			continue
		}
		_, idx, conf := matcher.Match(tag)
		if conf == language.No {
			return English
		}
		if supported[idx] == language.Arabic {
			return Arabic
		}
		return English
	}
	return English
}

func parseTag(s string) (language.Tag, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return language.Und, fmt.Errorf("empty language")
	}
	return language.Parse(strings.ReplaceAll(s, "_", "-"))
}
