// Package translit converts Arabizi (Arabic typed with Latin letters and
// digits) into Arabic script for the chat input.
//
// The rules follow common chat conventions: digits stand for letters with
// no Latin equivalent (2 ء, 3 ع, 5 خ, 6 ط, 7 ح, 8 ق, 9 ص), digraphs map to
// single letters (sh ش, kh خ, gh غ, th ث, dh ذ), and doubled vowels mark
// long vowels (aa ا, ee/ii ي, oo/uu و). A single vowel inside a word is a
// short vowel and is dropped, except i (ي) and o/u (و); a vowel at either
// end of a word is written as a letter.
//
//	translit.Word("salaam") // "سلام"
//	translit.Word("7abibi") // "حبيبي"
package translit

import (
	"strings"
	"sync"
	"unicode"
)

var digraphs = map[string]string{
	"sh": "ش",
	"kh": "خ",
	"gh": "غ",
	"th": "ث",
	"dh": "ذ",
	"aa": "ا",
	"ee": "ي",
	"ii": "ي",
	"oo": "و",
	"uu": "و",
	"ou": "و",
}

var letters = map[rune]string{
	'b': "ب", 'p': "ب", 't': "ت", 'j': "ج", 'g': "ج", 'd': "د",
	'r': "ر", 'z': "ز", 's': "س", 'f': "ف", 'v': "ف", 'q': "ق",
	'k': "ك", 'c': "ك", 'l': "ل", 'm': "م", 'n': "ن", 'h': "ه",
	'w': "و", 'y': "ي", 'x': "كس",
	'2': "ء", '3': "ع", '5': "خ", '6': "ط", '7': "ح", '8': "ق", '9': "ص",
	'\'': "ء",
}

func isVowel(r rune) bool {
	return strings.ContainsRune("aeiou", r)
}

// Word transliterates one Arabizi word. Words that contain anything other
// than ASCII letters, digits and apostrophes are returned unchanged, as are
// words made of digits only.
func Word(w string) string {
	if !IsArabizi(w) {
		return w
	}
	lower := strings.ToLower(w)
	rs := []rune(lower)

	var b strings.Builder
	for i := 0; i < len(rs); {
		if i+1 < len(rs) {
			if ar, ok := digraphs[string(rs[i:i+2])]; ok {
				b.WriteString(ar)
				i += 2
				continue
			}
		}
		r := rs[i]
		switch {
		case isVowel(r):
			b.WriteString(vowel(r, i == 0, i == len(rs)-1))
		default:
			b.WriteString(letters[r])
		}
		i++
	}
	return b.String()
}

func vowel(r rune, first, last bool) string {
	switch {
	case first && (r == 'i' || r == 'e'):
		return "إ"
	case first:
		return "ا"
	case r == 'i':
		return "ي"
	case r == 'o' || r == 'u':
		return "و"
	case last && r == 'a':
		return "ا"
	case last && r == 'e':
		return "ه"
	default:
		return ""
	}
}

// IsArabizi reports whether w looks like an Arabizi word: ASCII letters,
// digits and apostrophes with at least one letter.
func IsArabizi(w string) bool {
	hasLetter := false
	for _, r := range w {
		switch {
		case r > unicode.MaxASCII:
			return false
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r), r == '\'':
		default:
			return false
		}
	}
	return hasLetter
}

// Text transliterates every Arabizi word in s and keeps the rest,
// whitespace and punctuation included.
func Text(s string) string {
	var b strings.Builder
	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			b.WriteString(Word(word.String()))
			word.Reset()
		}
	}
	for _, r := range s {
		if r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'') {
			word.WriteRune(r)
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return b.String()
}

// Field is transliteration bound to one input. While enabled, completed
// words are converted as the user types.
type Field struct {
	mu      sync.Mutex
	enabled bool
}

// Enable turns transliteration on.
func (f *Field) Enable() {
	f.mu.Lock()
	f.enabled = true
	f.mu.Unlock()
}

// Disable turns transliteration off.
func (f *Field) Disable() {
	f.mu.Lock()
	f.enabled = false
	f.mu.Unlock()
}

// Enabled reports whether transliteration is on.
func (f *Field) Enabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled
}

// Complete converts the last word of value when value ends with a word
// separator, which is how a word is committed while typing. It returns
// value unchanged when disabled.
func (f *Field) Complete(value string) string {
	if !f.Enabled() || value == "" {
		return value
	}
	runes := []rune(value)
	last := runes[len(runes)-1]
	if !isSeparator(last) {
		return value
	}
	body := runes[:len(runes)-1]
	start := len(body)
	for start > 0 && !isSeparator(body[start-1]) {
		start--
	}
	return string(body[:start]) + Word(string(body[start:])) + string(last)
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '\'')
}

// Commit converts every remaining word of value. It is applied when the
// input is submitted.
func (f *Field) Commit(value string) string {
	if !f.Enabled() {
		return value
	}
	return Text(value)
}
