package termview

import (
	"os"
	"strconv"
	"strings"
)

// Hyperlink modes accepted by HyperlinksEnabled.
const (
	HyperlinksAuto = "auto"
	HyperlinksOn   = "on"
	HyperlinksOff  = "off"
)

// HyperlinksEnabled resolves a hyperlink mode. "auto" guesses from the
// environment which terminals understand OSC 8.
func HyperlinksEnabled(mode string) bool {
	switch mode {
	case HyperlinksOn:
		return true
	case HyperlinksOff:
		return false
	}
	return detectOSC8(os.Getenv)
}

func detectOSC8(getenv func(string) string) bool {
	if getenv("OSC8") == "0" {
		return false
	}
	if getenv("DOMTERM") != "" || getenv("WT_SESSION") != "" {
		return true
	}
	switch getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "vscode", "ghostty":
		return true
	}
	if strings.Contains(strings.ToLower(getenv("TERM")), "kitty") {
		return true
	}
	if n, err := strconv.Atoi(getenv("VTE_VERSION")); err == nil && n >= 5000 {
		return true
	}
	return false
}
