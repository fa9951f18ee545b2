package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Reporter formats *Error values against their originating source text,
// Rust-compiler style.
type Reporter struct {
	Source string // full source text the error's Pos refers to
	NoColor bool
}

func NewReporter(source string) *Reporter {
	return &Reporter{Source: source}
}

// Report renders err with a caret pointing at its Pos under the offending
// source line, colorized unless NoColor is set (callers disable color when
// output isn't a terminal).
func (r *Reporter) Report(err *Error) string {
	var b strings.Builder

	levelColor := color.New(color.FgRed, color.Bold)
	if r.NoColor {
		levelColor.DisableColor()
	}

	fmt.Fprintf(&b, "%s: %s\n", levelColor.Sprint("error"), err.Message)
	if err.Pos.Filename != "" {
		fmt.Fprintf(&b, "  --> %s\n", err.Pos)
	}

	lines := strings.Split(r.Source, "\n")
	if err.Pos.Line >= 1 && err.Pos.Line <= len(lines) {
		line := lines[err.Pos.Line-1]
		width := lineNumberWidth(err.Pos.Line)

		fmt.Fprintf(&b, "%*d | %s\n", width, err.Pos.Line, line)

		marker := color.New(color.FgRed, color.Bold)
		if r.NoColor {
			marker.DisableColor()
		}
		col := err.Pos.Column
		if col < 1 {
			col = 1
		}
		fmt.Fprintf(&b, "%s | %s%s\n", strings.Repeat(" ", width), strings.Repeat(" ", col-1), marker.Sprint("^"))
	}

	if err.Cause != nil {
		fmt.Fprintf(&b, "caused by: %v\n", err.Cause)
	}

	return b.String()
}

func lineNumberWidth(line int) int {
	w := 1
	for line >= 10 {
		line /= 10
		w++
	}
	return w
}
