package runtime

import (
	"errors"
	"fmt"
)

var (
	// ErrForeignContext is returned when an expression is evaluated in a
	// context that was not created by the evaluating interpreter.
	ErrForeignContext = errors.New("context does not descend from the interpreter root")
	// ErrMaxDepth is returned when nested function calls exceed the
	// configured limit.
	ErrMaxDepth = errors.New("maximum call depth exceeded")
)

// OperationError reports a binary operation with no implementation for the
// operand types.
type OperationError struct {
	Operation string
	Left      Kind
	Right     Kind
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s operation not defined between %s and %s", e.Operation, e.Left, e.Right)
}

// TypeError reports a unary operation or built-in applied to an unsupported
// type.
type TypeError struct {
	Operation string
	Got       Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s not defined for %s", e.Operation, e.Got)
}

// RaisedError is raised from swan code through the error built-in.
type RaisedError struct {
	Message string
}

func (e *RaisedError) Error() string {
	return e.Message
}

// MaxCollectionSize bounds the number of bytes or items an operation
// may build from a numeric count. Strings are measured in bytes.
const MaxCollectionSize = 1 << 24

// LimitError reports an operation whose result would exceed
// MaxCollectionSize.
type LimitError struct {
	Operation string
	Size      float64
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s result of %s items exceeds the limit of %d", e.Operation, FormatNumber(e.Size), MaxCollectionSize)
}
