// Package cli holds terminal helpers shared by the console log encoder and
// the intentctl command.
package cli

import (
	"fmt"
	"os"
)

const (
	ResetCode = "\033[0m"
	DimCode   = "\033[2m"
	Bold      = "\033[1m"
	Red       = "\033[31m"
	Green     = "\033[32m"
	Yellow    = "\033[33m"
	Blue      = "\033[34m"
	Purple    = "\033[35m"
	Cyan      = "\033[36m"
)

// disableColor is a cached check for the environment variable
var disableColor = checkNoColor()

func checkNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// Enabled reports whether ANSI colours should be emitted.
func Enabled() bool {
	return !disableColor
}

// SetEnabled overrides the NO_COLOR check, e.g. for a --no-color flag.
func SetEnabled(enabled bool) {
	disableColor = !enabled
}

// Style wraps text in a specific color code
func Style(text string, colorCode string) string {
	if disableColor {
		return text
	}
	return fmt.Sprintf("%s%s%s", colorCode, text, ResetCode)
}

// IntentColor picks a stable colour per intent name.
func IntentColor(name string) string {
	switch name {
	case "simple":
		return Green
	case "code_gen":
		return Cyan
	case "debug":
		return Red
	case "architecture":
		return Purple
	default:
		return DimCode
	}
}

func CheckMark() string {
	return Style("✔", Green)
}

func Arrow() string {
	return Style("➜", Blue)
}

func CrossMark() string {
	return Style("✘", Red)
}
