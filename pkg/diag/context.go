package diag

import (
	"fmt"
	"strconv"
	"strings"

	"pascals/pkg/source"
)

// Context renders the source lines within window lines of pos, marking the
// line of pos and putting a caret under its column:
//
//	  1 | program P;
//	> 2 | begin y := 1 end.
//	    |       ^
//
// It returns "" when src is empty or pos has no line.
func Context(src string, pos source.Position, window int) string {
	if src == "" || pos.Line < 1 {
		return ""
	}
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	if n := len(lines); n > 1 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	line := min(pos.Line, len(lines))
	first, last := max(1, line-window), min(len(lines), line+window)
	width := len(strconv.Itoa(last))

	var b strings.Builder
	for ln := first; ln <= last; ln++ {
		mark := " "
		if ln == line {
			mark = ">"
		}
		fmt.Fprintf(&b, "%s %*d | %s\n", mark, width, ln, lines[ln-1])
		if ln == line {
			fmt.Fprintf(&b, "  %*s | %s^\n", width, "", caretPad(lines[ln-1], pos.Column))
		}
	}
	return b.String()
}

// caretPad returns the blanks leading up to column col of line. Tabs are
// kept so the caret lines up with the text above it.
func caretPad(line string, col int) string {
	rs := []rune(line)
	var b strings.Builder
	for i := 0; i < col-1; i++ {
		if i < len(rs) && rs[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
