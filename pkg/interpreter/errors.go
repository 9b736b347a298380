package interpreter

import "fmt"

// HandlerError reports a construct the evaluating scope has no handler
// for, such as an operator on the name side of an assignment.
type HandlerError struct {
	Handler  string
	Operator string
	Offset   int
}

func (e *HandlerError) Error() string {
	if e.Operator != "" {
		return fmt.Sprintf("operator %q (%s) not allowed here", e.Operator, e.Handler)
	}
	return fmt.Sprintf("%s not allowed here", e.Handler)
}

// PatternError reports a name that cannot be defined.
type PatternError struct {
	Name string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid name %q", e.Name)
}
