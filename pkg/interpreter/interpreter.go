package interpreter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"swan/interpreter-go/pkg/ast"
	"swan/interpreter-go/pkg/parser"
	"swan/interpreter-go/pkg/runtime"
)

// DefaultMaxDepth bounds nested function calls.
const DefaultMaxDepth = 10000

// Interpreter owns a canonical root context and the handlers every
// expression it parses is evaluated with.
type Interpreter struct {
	parser    *parser.Parser
	handlers  *runtime.HandlerSet
	patterns  *runtime.HandlerSet
	root      *runtime.Context
	globals   *runtime.Context
	logger    *slog.Logger
	maxDepth  int
	templates *templateCache

	extraOperators []extraOperator
}

type extraOperator struct {
	op      parser.Operator
	handler runtime.BinaryHandler
}

// New returns an interpreter with a fresh root holding TRUE, FALSE and the
// built-in functions.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		logger:    slog.New(slog.DiscardHandler),
		maxDepth:  DefaultMaxDepth,
		templates: newTemplateCache(),
	}
	grammar := parser.DefaultGrammar()
	for _, opt := range opts {
		opt(i, &grammar)
	}
	i.parser = parser.New(grammar)
	i.handlers = i.defaultHandlers()
	for _, extra := range i.extraOperators {
		i.handlers.DefineBinary(extra.op.Handler, extra.handler)
	}
	i.patterns = i.patternHandlers()

	i.root = runtime.NewRootContext(i.handlers)
	i.root.Define("TRUE", runtime.True)
	i.root.Define("FALSE", runtime.False)
	i.defineBuiltins(i.root)
	i.globals = runtime.NewContext(i.root)
	return i
}

// Root returns the canonical root context. It is never evaluated in
// directly.
func (i *Interpreter) Root() *runtime.Context {
	return i.root
}

// Logger returns the interpreter's structured logger.
func (i *Interpreter) Logger() *slog.Logger {
	return i.logger
}

// SetGlobal binds name in the globals layer shared by every context this
// interpreter creates, including contexts created earlier.
func (i *Interpreter) SetGlobal(name string, value runtime.Value) {
	i.globals.Define(name, value)
}

// NewContext chains the root, the globals layer and each namespace in
// order, then returns an empty context on top. Later namespaces shadow
// earlier ones.
func (i *Interpreter) NewContext(namespaces ...*runtime.NamespaceValue) *runtime.Context {
	scope := i.globals
	for _, ns := range namespaces {
		scope = scope.Extend(ns)
	}
	return runtime.NewContext(scope)
}

// Expression is a parsed swan expression bound to the interpreter that
// parsed it.
type Expression struct {
	interp *Interpreter
	source string
	node   ast.Node
	eval   runtime.Operand
}

// Parse compiles src into an Expression. Parsing reports syntax errors
// only; evaluation errors surface from Evaluate.
func (i *Interpreter) Parse(src string) (*Expression, error) {
	node, err := i.parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return &Expression{interp: i, source: src, node: node, eval: i.compile(node)}, nil
}

// Source returns the text the expression was parsed from.
func (e *Expression) Source() string { return e.source }

// Node returns the parsed operator tree.
func (e *Expression) Node() ast.Node { return e.node }

// Evaluate runs the expression in scope, which must descend from the
// interpreter's root. The result is normalized; Nothing is returned as nil.
func (e *Expression) Evaluate(ctx context.Context, scope *runtime.Context) (runtime.Value, error) {
	i := e.interp
	if scope == nil || scope == i.globals || !scope.DescendsFrom(i.root) {
		return nil, runtime.ErrForeignContext
	}
	v, err := e.eval(ctx, scope)
	if err != nil {
		i.logger.Debug("evaluation failed", "source", e.source, "error", err)
		return nil, err
	}
	v = runtime.Normalize(v)
	if runtime.IsNothing(v) {
		return nil, nil
	}
	return v, nil
}

// Eval parses and evaluates src in scope.
func (i *Interpreter) Eval(ctx context.Context, src string, scope *runtime.Context) (runtime.Value, error) {
	expr, err := i.Parse(src)
	if err != nil {
		return nil, err
	}
	return expr.Evaluate(ctx, scope)
}

// compile turns a node into an operand. Handlers are resolved through the
// scope at evaluation time so restricted scopes can narrow them.
func (i *Interpreter) compile(node ast.Node) runtime.Operand {
	switch n := node.(type) {
	case *ast.Literal:
		return func(ctx context.Context, scope *runtime.Context) (runtime.Value, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			h, ok := scope.Handlers().Literal(n.Handler)
			if !ok {
				return nil, &HandlerError{Handler: n.Handler, Offset: n.Offset}
			}
			return normalized(h(ctx, scope, n.Text))
		}
	case *ast.Group:
		items := make([]runtime.Operand, len(n.Items))
		for idx, item := range n.Items {
			items[idx] = i.compile(item)
		}
		return func(ctx context.Context, scope *runtime.Context) (runtime.Value, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			h, ok := scope.Handlers().Group(n.Handler)
			if !ok {
				return nil, &HandlerError{Handler: n.Handler, Offset: n.Offset}
			}
			return normalized(h(ctx, scope, items))
		}
	case *ast.Binary:
		left, right := i.compile(n.Left), i.compile(n.Right)
		return func(ctx context.Context, scope *runtime.Context) (runtime.Value, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			h, ok := scope.Handlers().Binary(n.Handler)
			if !ok {
				return nil, &HandlerError{Handler: n.Handler, Operator: n.Operator, Offset: n.Offset}
			}
			return normalized(h(ctx, scope, left, right))
		}
	default:
		return func(context.Context, *runtime.Context) (runtime.Value, error) {
			return nil, fmt.Errorf("unsupported node %T", node)
		}
	}
}

func normalized(v runtime.Value, err error) (runtime.Value, error) {
	if err != nil {
		return nil, err
	}
	return runtime.Normalize(v), nil
}

type depthKey struct{}

// enterCall increments the call depth carried by ctx.
func (i *Interpreter) enterCall(ctx context.Context) (context.Context, error) {
	depth, _ := ctx.Value(depthKey{}).(int)
	depth++
	if depth > i.maxDepth {
		i.logger.Debug("call depth exceeded", "limit", i.maxDepth)
		return nil, runtime.ErrMaxDepth
	}
	return context.WithValue(ctx, depthKey{}, depth), nil
}

var (
	defaultOnce   sync.Once
	defaultInterp *Interpreter
)

// Default returns the process-wide interpreter used by the package-level
// functions.
func Default() *Interpreter {
	defaultOnce.Do(func() {
		defaultInterp = New()
	})
	return defaultInterp
}

// Parse compiles src with the default interpreter.
func Parse(src string) (*Expression, error) {
	return Default().Parse(src)
}

// NewContext creates a context of the default interpreter.
func NewContext(namespaces ...*runtime.NamespaceValue) *runtime.Context {
	return Default().NewContext(namespaces...)
}

// SetGlobal binds a global of the default interpreter.
func SetGlobal(name string, value runtime.Value) {
	Default().SetGlobal(name, value)
}
