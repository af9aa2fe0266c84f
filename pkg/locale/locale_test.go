package locale

import (
	"testing"

	"github.com/matzehuels/fatwa/pkg/errors"
)

func TestDetectDirection(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Direction
	}{
		{"empty", "", LTR},
		{"blank", "   \n\t", LTR},
		{"latin", "What is zakat?", LTR},
		{"arabic", "ما حكم الصيام؟", RTL},
		{"leading space arabic", "  \nما حكم", RTL},
		{"arabic supplement", "ݐabc", RTL},
		{"extended a", "ࢠ", RTL},
		{"presentation forms a", "ﭐ", RTL},
		{"presentation forms b", "ﻼ", RTL},
		{"digit first", "1. ما", LTR},
		{"latin then arabic", "Q: ما", LTR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDirection(tt.text); got != tt.want {
				t.Errorf("DetectDirection(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectDirectionIdempotent(t *testing.T) {
	for _, text := range []string{"مرحبا", "hello", ""} {
		first := DetectDirection(text)
		if again := DetectDirection(text); again != first {
			t.Errorf("DetectDirection(%q) not stable: %s then %s", text, first, again)
		}
	}
}

func TestListMarker(t *testing.T) {
	tests := []struct {
		n    int
		rtl  bool
		want string
	}{
		{1, false, "1. "},
		{12, false, "12. "},
		{1, true, "١ . "},
		{2, true, "٢ . "},
		{10, true, "١٠ . "},
	}
	for _, tt := range tests {
		if got := ListMarker(tt.n, tt.rtl); got != tt.want {
			t.Errorf("ListMarker(%d, %v) = %q, want %q", tt.n, tt.rtl, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Lang
		wantErr bool
	}{
		{"en", English, false},
		{"ar", Arabic, false},
		{"AR", Arabic, false},
		{"ar_EG.UTF-8", Arabic, false},
		{"en-US", English, false},
		{"fr", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidLanguage) {
					t.Fatalf("Parse(%q) error = %v, want INVALID_LANGUAGE", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name  string
		lcAll string
		lcMsg string
		lang  string
		want  Lang
	}{
		{"nothing set", "", "", "", English},
		{"arabic lang", "", "", "ar_SA.UTF-8", Arabic},
		{"lc_all wins", "en_GB.UTF-8", "", "ar_EG.UTF-8", English},
		{"posix skipped", "C", "", "ar_EG.UTF-8", Arabic},
		{"unsupported", "", "", "de_DE.UTF-8", English},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LC_ALL", tt.lcAll)
			t.Setenv("LC_MESSAGES", tt.lcMsg)
			t.Setenv("LANG", tt.lang)
			if got := FromEnv(); got != tt.want {
				t.Errorf("FromEnv() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLangHelpers(t *testing.T) {
	if English.Toggle() != Arabic || Arabic.Toggle() != English {
		t.Error("Toggle should swap en and ar")
	}
	if !Arabic.Direction().IsRTL() {
		t.Error("Arabic should be RTL")
	}
	if English.Direction().IsRTL() {
		t.Error("English should be LTR")
	}
	if Lang("fr").Valid() {
		t.Error("fr should not be valid")
	}
}

func TestBuiltinCatalog(t *testing.T) {
	for _, l := range []Lang{English, Arabic} {
		c := Builtin(l)
		for _, key := range []string{KeyPlaceholder, KeyTitle, KeyThinking, KeyErrorInternal, KeyWelcome, KeySourcesTitle} {
			if c.Text(key) == "" {
				t.Errorf("Builtin(%s) missing %q", l, key)
			}
		}
	}
	if got := Builtin(Arabic).Text(KeySourcesTitle); got != "المصادر" {
		t.Errorf("ar sources_title = %q", got)
	}
	if got := Builtin("xx").Text(KeyTitle); got != "Fatwa" {
		t.Errorf("unknown language should fall back to English, got %q", got)
	}
}

func TestCatalogMerge(t *testing.T) {
	base := Builtin(English)
	merged := base.Merge(map[string]string{
		KeyTitle:    "Custom",
		KeyThinking: "",
		"extra":     "x",
	})

	if merged.Text(KeyTitle) != "Custom" {
		t.Errorf("remote title should override, got %q", merged.Text(KeyTitle))
	}
	if merged.Text(KeyThinking) != "Thinking" {
		t.Errorf("empty remote value should not override, got %q", merged.Text(KeyThinking))
	}
	if merged.Text("extra") != "x" {
		t.Error("remote-only keys should be kept")
	}
	if base.Text(KeyTitle) != "Fatwa" {
		t.Error("Merge must not modify the receiver")
	}

	var nilCatalog Catalog
	if got := nilCatalog.Merge(map[string]string{"a": "b"}).Text("a"); got != "b" {
		t.Errorf("Merge on nil catalog = %q", got)
	}
}
