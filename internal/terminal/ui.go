package terminal

import (
	"fmt"
	"io"
	"os"
)

// Colors for terminal output.
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Reverse = "\033[7m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
)

// Out is where the status helpers write.
var Out io.Writer = os.Stdout

// UI helper functions.

// Success prints a green success message.
func Success(msg string) {
	fmt.Fprintf(Out, "%s%s✓%s %s\n", Bold, Green, Reset, msg)
}

// Error prints a red error message.
func Error(msg string) {
	fmt.Fprintf(Out, "%s%s✗%s %s\n", Bold, Red, Reset, msg)
}

// Info prints a blue info message.
func Info(msg string) {
	fmt.Fprintf(Out, "%s%si%s %s\n", Bold, Blue, Reset, msg)
}

// Warning prints a yellow warning message.
func Warning(msg string) {
	fmt.Fprintf(Out, "%s%s!%s %s\n", Bold, Yellow, Reset, msg)
}

// Header prints a bold header.
func Header(msg string) {
	fmt.Fprintf(Out, "\n%s%s%s\n", Bold, msg, Reset)
}

// Detail prints an indented detail line.
func Detail(label, value string) {
	fmt.Fprintf(Out, "  %s%s:%s %s\n", Dim, label, Reset, value)
}
