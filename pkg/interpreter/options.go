package interpreter

import (
	"log/slog"

	"swan/interpreter-go/pkg/parser"
	"swan/interpreter-go/pkg/runtime"
)

// Option configures an Interpreter.
type Option func(*Interpreter, *parser.Grammar)

// WithLogger sets the structured logger. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter, _ *parser.Grammar) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithMaxDepth bounds nested function calls. Non-positive values keep the
// default.
func WithMaxDepth(depth int) Option {
	return func(i *Interpreter, _ *parser.Grammar) {
		if depth > 0 {
			i.maxDepth = depth
		}
	}
}

// WithGrammar replaces the operator table. Handler names the interpreter
// does not define fail at evaluation time unless registered with
// WithOperator.
func WithGrammar(g parser.Grammar) Option {
	return func(_ *Interpreter, grammar *parser.Grammar) {
		*grammar = g
	}
}

// WithOperator adds a binary operator to the grammar together with its
// handler.
func WithOperator(op parser.Operator, handler runtime.BinaryHandler) Option {
	return func(i *Interpreter, grammar *parser.Grammar) {
		grammar.Operators = append(grammar.Operators, op)
		i.extraOperators = append(i.extraOperators, extraOperator{op: op, handler: handler})
	}
}
