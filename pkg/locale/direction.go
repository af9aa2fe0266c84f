package locale

import (
	"strings"
	"unicode/utf8"
)

// arabicRanges are the blocks that mark a text as right-to-left: Arabic,
// Arabic Supplement, Arabic Extended-A and the two presentation form blocks.
var arabicRanges = [...][2]rune{
	{0x0600, 0x06FF},
	{0x0750, 0x077F},
	{0x08A0, 0x08FF},
	{0xFB50, 0xFDFF},
	{0xFE70, 0xFEFF},
}

// IsArabic reports whether r belongs to one of the Arabic blocks.
func IsArabic(r rune) bool {
	for _, rg := range arabicRanges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}

// DetectDirection returns RTL when the first non-whitespace rune of text is
// Arabic and LTR otherwise, including for empty or blank text.
func DetectDirection(text string) Direction {
	text = strings.TrimSpace(text)
	if text == "" {
		return LTR
	}
	r, _ := utf8.DecodeRuneInString(text)
	if IsArabic(r) {
		return RTL
	}
	return LTR
}
