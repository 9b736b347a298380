package runtime

import "context"

// Operand is a compiled, not yet evaluated, sub-expression. Handlers decide
// whether and in which scope to evaluate their operands.
type Operand func(ctx context.Context, scope *Context) (Value, error)

type LiteralHandler func(ctx context.Context, scope *Context, text string) (Value, error)

type GroupHandler func(ctx context.Context, scope *Context, items []Operand) (Value, error)

type BinaryHandler func(ctx context.Context, scope *Context, left, right Operand) (Value, error)

// HandlerSet maps the handler names a grammar emits to their semantics.
type HandlerSet struct {
	literals map[string]LiteralHandler
	groups   map[string]GroupHandler
	binaries map[string]BinaryHandler
}

func NewHandlerSet() *HandlerSet {
	return &HandlerSet{
		literals: make(map[string]LiteralHandler),
		groups:   make(map[string]GroupHandler),
		binaries: make(map[string]BinaryHandler),
	}
}

func (h *HandlerSet) DefineLiteral(name string, fn LiteralHandler) { h.literals[name] = fn }

func (h *HandlerSet) DefineGroup(name string, fn GroupHandler) { h.groups[name] = fn }

func (h *HandlerSet) DefineBinary(name string, fn BinaryHandler) { h.binaries[name] = fn }

func (h *HandlerSet) Literal(name string) (LiteralHandler, bool) {
	if h == nil {
		return nil, false
	}
	fn, ok := h.literals[name]
	return fn, ok
}

func (h *HandlerSet) Group(name string) (GroupHandler, bool) {
	if h == nil {
		return nil, false
	}
	fn, ok := h.groups[name]
	return fn, ok
}

func (h *HandlerSet) Binary(name string) (BinaryHandler, bool) {
	if h == nil {
		return nil, false
	}
	fn, ok := h.binaries[name]
	return fn, ok
}
