package locale

import (
	"strconv"
	"strings"
)

var arabicIndic = strings.NewReplacer(
	"0", "٠", "1", "١", "2", "٢", "3", "٣", "4", "٤",
	"5", "٥", "6", "٦", "7", "٧", "8", "٨", "9", "٩",
)

// ArabicIndic replaces the ASCII digits in s with Arabic-indic digits.
func ArabicIndic(s string) string {
	return arabicIndic.Replace(s)
}

// ListMarker returns the marker text placed in front of the n-th ordered
// list item: "3. " for left-to-right output and "٣ . " for right-to-left.
func ListMarker(n int, rtl bool) string {
	num := strconv.Itoa(n)
	if !rtl {
		return num + ". "
	}
	return ArabicIndic(num) + " . "
}

// Bullet is the marker placed in front of unordered list items.
const Bullet = "• "
