package interpreter

import (
	"context"
	"fmt"
	"strconv"

	"swan/interpreter-go/pkg/operations"
	"swan/interpreter-go/pkg/runtime"
)

func (i *Interpreter) defaultHandlers() *runtime.HandlerSet {
	h := runtime.NewHandlerSet()

	h.DefineLiteral("void", voidLiteral)
	h.DefineLiteral("name", func(_ context.Context, scope *runtime.Context, name string) (runtime.Value, error) {
		if !runtime.IsVisibleName(name) {
			return runtime.Nothing, nil
		}
		if v, ok := scope.Lookup(name); ok {
			return v, nil
		}
		return runtime.Nothing, nil
	})
	h.DefineLiteral("number", func(_ context.Context, _ *runtime.Context, text string) (runtime.Value, error) {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", text, err)
		}
		return runtime.Number(f), nil
	})
	h.DefineLiteral("string", stringLiteral)
	h.DefineLiteral("rawString", stringLiteral)
	h.DefineLiteral("template", i.evaluateTemplate)

	h.DefineGroup("list", func(ctx context.Context, scope *runtime.Context, items []runtime.Operand) (runtime.Value, error) {
		list := runtime.NewList()
		for _, item := range items {
			v, err := item(ctx, scope)
			if err != nil {
				return nil, err
			}
			list = list.Append(v)
		}
		return list, nil
	})
	h.DefineGroup("namespace", func(ctx context.Context, scope *runtime.Context, items []runtime.Operand) (runtime.Value, error) {
		local := runtime.NewContext(scope)
		for _, item := range items {
			if _, err := item(ctx, local); err != nil {
				return nil, err
			}
		}
		return local.Own(), nil
	})

	h.DefineBinary("pair", pairHandler)
	h.DefineBinary("compose", dispatching(operations.Composition, false))
	h.DefineBinary("pipe", dispatching(operations.Composition, true))

	h.DefineBinary("label", func(ctx context.Context, scope *runtime.Context, left, right runtime.Operand) (runtime.Value, error) {
		names, err := i.namePattern(ctx, scope, left)
		if err != nil {
			return nil, err
		}
		value, err := right(ctx, scope)
		if err != nil {
			return nil, err
		}
		destructure(scope, names, value)
		return value, nil
	})
	h.DefineBinary("assign", func(ctx context.Context, scope *runtime.Context, left, right runtime.Operand) (runtime.Value, error) {
		names, err := i.namePattern(ctx, scope, left)
		if err != nil {
			return nil, err
		}
		value, err := right(ctx, scope)
		if err != nil {
			return nil, err
		}
		destructure(scope, names, value)
		return runtime.Nothing, nil
	})
	h.DefineBinary("define", i.defineFunction)

	h.DefineBinary("else", func(ctx context.Context, scope *runtime.Context, left, right runtime.Operand) (runtime.Value, error) {
		l, err := left(ctx, scope)
		if err != nil {
			return nil, err
		}
		if runtime.IsNothing(l) {
			return right(ctx, scope)
		}
		return l, nil
	})
	h.DefineBinary("if", func(ctx context.Context, scope *runtime.Context, left, right runtime.Operand) (runtime.Value, error) {
		l, err := left(ctx, scope)
		if err != nil {
			return nil, err
		}
		if operations.Truthy(l) {
			return right(ctx, scope)
		}
		return runtime.Nothing, nil
	})
	h.DefineBinary("or", func(ctx context.Context, scope *runtime.Context, left, right runtime.Operand) (runtime.Value, error) {
		l, err := left(ctx, scope)
		if err != nil {
			return nil, err
		}
		if operations.Truthy(l) {
			return l, nil
		}
		return right(ctx, scope)
	})
	h.DefineBinary("and", func(ctx context.Context, scope *runtime.Context, left, right runtime.Operand) (runtime.Value, error) {
		l, err := left(ctx, scope)
		if err != nil {
			return nil, err
		}
		if !operations.Truthy(l) {
			return l, nil
		}
		return right(ctx, scope)
	})

	h.DefineBinary("eq", equality(false))
	h.DefineBinary("ne", equality(true))
	h.DefineBinary("lt", ordering(func(c int) bool { return c < 0 }))
	h.DefineBinary("le", ordering(func(c int) bool { return c <= 0 }))
	h.DefineBinary("gt", ordering(func(c int) bool { return c > 0 }))
	h.DefineBinary("ge", ordering(func(c int) bool { return c >= 0 }))

	h.DefineBinary("sum", dispatching(operations.Sum, false))
	h.DefineBinary("sub", dispatching(operations.Subtraction, false))
	h.DefineBinary("mul", dispatching(operations.Product, false))
	h.DefineBinary("div", dispatching(operations.Division, false))
	h.DefineBinary("mod", dispatching(operations.Modulo, false))
	h.DefineBinary("pow", dispatching(operations.Power, false))
	h.DefineBinary("apply", dispatching(operations.Apply, false))

	h.DefineBinary("subcontext", func(ctx context.Context, scope *runtime.Context, left, right runtime.Operand) (runtime.Value, error) {
		l, err := left(ctx, scope)
		if err != nil {
			return nil, err
		}
		ns, ok := l.(*runtime.NamespaceValue)
		if !ok {
			return nil, &runtime.TypeError{Operation: "Sub-context", Got: runtime.Classify(l)}
		}
		return right(ctx, scope.Extend(ns))
	})
	return h
}

func voidLiteral(context.Context, *runtime.Context, string) (runtime.Value, error) {
	return runtime.Nothing, nil
}

func stringLiteral(_ context.Context, _ *runtime.Context, text string) (runtime.Value, error) {
	return runtime.String(text), nil
}

func pairHandler(ctx context.Context, scope *runtime.Context, left, right runtime.Operand) (runtime.Value, error) {
	l, r, err := both(ctx, scope, left, right)
	if err != nil {
		return nil, err
	}
	return runtime.MakeTuple(l, r), nil
}

// both evaluates left then right.
func both(ctx context.Context, scope *runtime.Context, left, right runtime.Operand) (runtime.Value, runtime.Value, error) {
	l, err := left(ctx, scope)
	if err != nil {
		return nil, nil, err
	}
	r, err := right(ctx, scope)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

// dispatching evaluates both operands and resolves them through table.
// swapped passes the operands in reverse order, as pipe does.
func dispatching(table *operations.Table, swapped bool) runtime.BinaryHandler {
	return func(ctx context.Context, scope *runtime.Context, left, right runtime.Operand) (runtime.Value, error) {
		l, r, err := both(ctx, scope, left, right)
		if err != nil {
			return nil, err
		}
		if swapped {
			l, r = r, l
		}
		return table.Dispatch(ctx, l, r)
	}
}

func equality(negate bool) runtime.BinaryHandler {
	return func(ctx context.Context, scope *runtime.Context, left, right runtime.Operand) (runtime.Value, error) {
		l, r, err := both(ctx, scope, left, right)
		if err != nil {
			return nil, err
		}
		return runtime.Bool(operations.Equal(l, r) != negate), nil
	}
}

func ordering(accept func(int) bool) runtime.BinaryHandler {
	return func(ctx context.Context, scope *runtime.Context, left, right runtime.Operand) (runtime.Value, error) {
		l, r, err := both(ctx, scope, left, right)
		if err != nil {
			return nil, err
		}
		c, err := operations.Compare(ctx, l, r)
		if err != nil {
			return nil, err
		}
		return runtime.Bool(accept(c)), nil
	}
}
