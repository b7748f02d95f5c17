// Package console writes command results for people at a terminal. Results
// go out green and failures red when the terminal supports colour.
package console

import (
	"fmt"
	"io"

	"github.com/gookit/color"
)

// Success writes a formatted line in green.
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, color.Green.Sprintf(format, args...))
}

// Failure writes a formatted line in red.
func Failure(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, color.Red.Sprintf(format, args...))
}

// Blank writes an empty line to separate records.
func Blank(w io.Writer) {
	fmt.Fprintln(w)
}

// Field writes a label and value pair aligned with tabs.
func Field(w io.Writer, label string, value any) {
	Success(w, "%s:\t%v", label, value)
}

// Disable turns colour rendering off. Output captured in tests or piped to
// another program stays plain.
func Disable() {
	color.Disable()
}
