package operations

import (
	"context"
	"math"

	"swan/interpreter-go/pkg/runtime"
)

var (
	Apply       = newApplyTable()
	Composition = newCompositionTable()
)

func newApplyTable() *Table {
	t := NewTable("Apply").withBroadcast()
	// (Function, Anything) is probed before (Anything, Tuple), so a function
	// receives every item of a tuple argument instead of being broadcast.
	t.Define(function, Anything, func(ctx context.Context, l, r runtime.Value) (runtime.Value, error) {
		return l.(*runtime.FunctionValue).Call(ctx, r)
	}).
		Define(namespace, str, func(ctx context.Context, l, r runtime.Value) (runtime.Value, error) {
			return l.(*runtime.NamespaceValue).Lookup(ctx, r.(runtime.StringValue).Val)
		}).
		Define(str, number, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			chars := []rune(l.(runtime.StringValue).Val)
			i, ok := position(len(chars), r.(runtime.NumberValue))
			if !ok {
				return runtime.String(""), nil
			}
			return runtime.String(string(chars[i])), nil
		}).
		Define(list, number, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			items := l.(runtime.ListValue)
			i, ok := position(items.Len(), r.(runtime.NumberValue))
			if !ok {
				return runtime.Nothing, nil
			}
			el, _ := items.At(i)
			return el, nil
		})
	return t
}

// position maps a possibly negative index onto [0, n).
func position(n int, index runtime.NumberValue) (int, bool) {
	if math.IsInf(index.Val, 0) {
		return 0, false
	}
	i := int(math.Trunc(index.Val))
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

func newCompositionTable() *Table {
	t := NewTable("Composition")
	t.Define(function, function, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
		return Compose(l.(*runtime.FunctionValue), r.(*runtime.FunctionValue)), nil
	})
	return t
}

// Compose returns the function x -> f(g(x)).
func Compose(f, g *runtime.FunctionValue) *runtime.FunctionValue {
	return runtime.NewFunction("", func(ctx context.Context, args []runtime.Value) (runtime.Value, error) {
		inner, err := g.Call(ctx, runtime.MakeTuple(args...))
		if err != nil {
			return nil, err
		}
		return f.Call(ctx, inner)
	})
}
