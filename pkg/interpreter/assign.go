package interpreter

import (
	"context"

	"swan/interpreter-go/pkg/runtime"
)

// patternHandlers is the narrow handler set the name side of label, assign
// and define is evaluated with: names evaluate to themselves and pairs stay
// pairs. Every other construct is rejected.
func (i *Interpreter) patternHandlers() *runtime.HandlerSet {
	h := runtime.NewHandlerSet()
	h.DefineLiteral("void", voidLiteral)
	h.DefineLiteral("name", func(_ context.Context, _ *runtime.Context, name string) (runtime.Value, error) {
		if !runtime.IsVisibleName(name) {
			return nil, &PatternError{Name: name}
		}
		return runtime.String(name), nil
	})
	h.DefineBinary("pair", pairHandler)
	return h
}

// namePattern evaluates a name-side operand into the list of names it
// spells.
func (i *Interpreter) namePattern(ctx context.Context, scope *runtime.Context, operand runtime.Operand) ([]string, error) {
	v, err := operand(ctx, scope.WithHandlers(i.patterns))
	if err != nil {
		return nil, err
	}
	items := runtime.Items(v)
	names := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(runtime.StringValue)
		if !ok {
			return nil, &PatternError{Name: runtime.Inspect(item)}
		}
		names = append(names, s.Val)
	}
	return names, nil
}

// destructure binds names to the items of value in scope. Surplus items are
// collected into the last name; missing items bind Nothing.
func destructure(scope *runtime.Context, names []string, value runtime.Value) {
	items := runtime.Items(value)
	last := len(names) - 1
	for k, name := range names {
		switch {
		case k == last && len(items) > len(names):
			scope.Define(name, runtime.MakeTuple(items[k:]...))
		case k < len(items):
			scope.Define(name, items[k])
		default:
			scope.Define(name, runtime.Nothing)
		}
	}
}

// defineFunction implements `params -> body`. The parameter names are read
// once, when the function is defined; each call binds them in a fresh child
// of the defining scope.
func (i *Interpreter) defineFunction(ctx context.Context, scope *runtime.Context, left, right runtime.Operand) (runtime.Value, error) {
	names, err := i.namePattern(ctx, scope, left)
	if err != nil {
		return nil, err
	}
	return runtime.NewFunction("", func(ctx context.Context, args []runtime.Value) (runtime.Value, error) {
		ctx, err := i.enterCall(ctx)
		if err != nil {
			return nil, err
		}
		local := runtime.NewContext(scope)
		destructure(local, names, runtime.MakeTuple(args...))
		return right(ctx, local)
	}), nil
}
