package parser

import "fmt"

// SyntaxError reports malformed source. Incomplete is set when the source
// ended inside a string or an open bracket, so more input could fix it.
type SyntaxError struct {
	Message    string
	Offset     int
	Line       int
	Column     int
	Incomplete bool
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Column, e.Message)
}

func newSyntaxError(src string, offset int, incomplete bool, format string, args ...any) *SyntaxError {
	line, col := 1, 1
	for i, r := range src {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &SyntaxError{
		Message:    fmt.Sprintf(format, args...),
		Offset:     offset,
		Line:       line,
		Column:     col,
		Incomplete: incomplete,
	}
}
