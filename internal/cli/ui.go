package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"
)

// Terminal palette for command output. The chat and answers use the
// termview themes instead.
var (
	colorCyan  = lipgloss.Color("36")  // teal, progress
	colorGreen = lipgloss.Color("35")  // success
	colorWhite = lipgloss.Color("255") // values
	colorGray  = lipgloss.Color("245") // labels
	colorDim   = lipgloss.Color("240") // details, borders
)

var (
	styleDim         = lipgloss.NewStyle().Foreground(colorDim)
	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

const (
	iconSuccess = "✓"
	iconInfo    = "›"

	// keyWidth is the label column of printKeyValue; the longest catalog
	// key is error_no_question.
	keyWidth = 18
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line under a status line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

// printKeyValue prints key padded to a fixed column, then value. Values in
// Arabic are printed as is; the terminal handles their direction.
func printKeyValue(w io.Writer, key, value string) {
	pad := max(keyWidth-ansi.PrintableRuneWidth(key), 1)
	fmt.Fprintf(w, "%s%*s%s\n", styleKey.Render(key), pad, "", styleValue.Render(value))
}
