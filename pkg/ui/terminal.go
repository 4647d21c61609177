package ui

import (
	"fmt"
	"io"
	"os"
)

// ASCII logo for the application
const ASCIILogo = `
    ╔══════════════════════════════════════════════════╗
    ║ ██╗ ██████╗ ██████╗  █████╗ ████████╗ ██████╗██╗  ██╗ ║
    ║ ██║██╔════╝ ██╔══██╗██╔══██╗╚══██╔══╝██╔════╝██║  ██║ ║
    ║ ██║██║  ███╗██████╔╝███████║   ██║   ██║     ███████║ ║
    ║ ██║██║   ██║██╔══██╗██╔══██║   ██║   ██║     ██╔══██║ ║
    ║ ██║╚██████╔╝██████╔╝██║  ██║   ██║   ╚██████╗██║  ██║ ║
    ║ ╚═╝ ╚═════╝ ╚═════╝ ╚═╝  ╚═╝   ╚═╝    ╚═════╝╚═╝  ╚═╝ ║
    ║     ACCOUNTS / POSTS / FOLLOWER NETWORK EXPORT      ║
    ╚══════════════════════════════════════════════════╝
`

var (
	out          io.Writer = os.Stdout
	colorEnabled           = true
	quietMode              = false
)

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		if !colorEnabled {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// SetColorEnabled turns ANSI colors on or off
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// SetQuietMode suppresses the logo and informational output.
// Errors are still printed.
func SetQuietMode(quiet bool) {
	quietMode = quiet
}

// IsQuiet reports whether quiet mode is on
func IsQuiet() bool {
	return quietMode
}

// SetOutput redirects all terminal output and returns the previous writer
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	if quietMode {
		return
	}
	fmt.Fprint(out, Cyan(ASCIILogo))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(out, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(out, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	fmt.Fprintln(out, Green(msg))
}

// PrintInfo prints an info message in cyan
func PrintInfo(label string, value string) {
	if quietMode {
		return
	}
	fmt.Fprintf(out, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(out, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(out, Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	if quietMode {
		return
	}
	fmt.Fprintln(out, Magenta(msg))
}

// Println prints a plain line
func Println(msg string) {
	fmt.Fprintln(out, msg)
}
