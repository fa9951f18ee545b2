// Package repl is a read-eval-print loop over the parse-ground pipeline:
// each submitted program is parsed, grounded and printed in place, for
// interactive experimentation with small programs.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"aspgrounder/internal/ground"
	"aspgrounder/internal/parser"
)

const PROMPT = ">> "

// Start reads programs from in until EOF. Input accumulates across lines
// until a line ends with "." (statements may span lines); a blank line
// submits the buffer as one program.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	var buf strings.Builder

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			return
		}

		line := scanner.Text()
		buf.WriteString(line)
		buf.WriteString("\n")
		if trimmed := strings.TrimSpace(line); trimmed != "" && !strings.HasSuffix(trimmed, ".") {
			continue
		}

		src := buf.String()
		buf.Reset()
		if strings.TrimSpace(src) == "" {
			continue
		}

		program, err := parser.ParseProgram("repl", src)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		groundProgram, err := ground.Ground(context.Background(), program, ground.Options{})
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		fmt.Fprintln(out, groundProgram.String())
	}
}
