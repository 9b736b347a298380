package operations

import (
	"cmp"
	"context"
	"strings"

	"swan/interpreter-go/pkg/runtime"
)

// Equality and Comparison recurse into themselves for lists and tuples, so
// they are built in init rather than in their declarations.
var (
	Equality   *Table
	Comparison *Table
)

func init() {
	Equality = newEqualityTable()
	Comparison = newComparisonTable()
}

func newEqualityTable() *Table {
	t := NewTable("Equality")
	t.Define(nothing, nothing, constant(runtime.True)).
		Define(boolean, boolean, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			return runtime.Bool(l.(runtime.BoolValue).Val == r.(runtime.BoolValue).Val), nil
		}).
		Define(number, number, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			return runtime.Bool(l.(runtime.NumberValue).Val == r.(runtime.NumberValue).Val), nil
		}).
		Define(str, str, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			return runtime.Bool(l.(runtime.StringValue).Val == r.(runtime.StringValue).Val), nil
		}).
		Define(list, list, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			return runtime.Bool(sequencesEqual(l.(runtime.ListValue).Elements(), r.(runtime.ListValue).Elements())), nil
		}).
		Define(namespace, namespace, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			return runtime.Bool(namespacesEqual(l.(*runtime.NamespaceValue), r.(*runtime.NamespaceValue))), nil
		}).
		Define(function, function, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			return runtime.Bool(l.(*runtime.FunctionValue) == r.(*runtime.FunctionValue)), nil
		}).
		Define(tuple, tuple, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			return runtime.Bool(sequencesEqual(runtime.Items(l), runtime.Items(r))), nil
		}).
		Define(Anything, Anything, constant(runtime.False))
	return t
}

// Equal reports deep equality. Values of different types are never equal;
// functions are equal only to themselves.
func Equal(a, b runtime.Value) bool {
	h, _ := Equality.Lookup(runtime.Classify(a), runtime.Classify(b))
	v, err := h(context.Background(), a, b)
	if err != nil {
		return false
	}
	eq, ok := v.(runtime.BoolValue)
	return ok && eq.Val
}

func sequencesEqual(a, b []runtime.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func namespacesEqual(a, b *runtime.NamespaceValue) bool {
	keys := a.Keys()
	if len(keys) != b.Len() {
		return false
	}
	for _, k := range keys {
		av, _ := a.Get(k)
		bv, ok := b.Get(k)
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}

func newComparisonTable() *Table {
	t := NewTable("Comparison")
	t.Define(nothing, nothing, ordering(0)).
		Define(nothing, Anything, ordering(-1)).
		Define(Anything, nothing, ordering(1)).
		Define(boolean, boolean, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			return runtime.Number(float64(compareBools(l.(runtime.BoolValue).Val, r.(runtime.BoolValue).Val))), nil
		}).
		Define(number, number, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			return runtime.Number(float64(cmp.Compare(l.(runtime.NumberValue).Val, r.(runtime.NumberValue).Val))), nil
		}).
		Define(str, str, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			return runtime.Number(float64(strings.Compare(l.(runtime.StringValue).Val, r.(runtime.StringValue).Val))), nil
		}).
		Define(list, list, func(ctx context.Context, l, r runtime.Value) (runtime.Value, error) {
			return compareSequences(ctx, l.(runtime.ListValue).Elements(), r.(runtime.ListValue).Elements())
		})
	lexicographic := func(ctx context.Context, l, r runtime.Value) (runtime.Value, error) {
		return compareSequences(ctx, runtime.Items(l), runtime.Items(r))
	}
	t.Define(tuple, Anything, lexicographic).
		Define(Anything, tuple, lexicographic)
	return t
}

// Compare orders a against b, returning -1, 0 or 1. Nothing sorts before
// every other value; sequences compare lexicographically with a missing
// item sorting before a present one.
func Compare(ctx context.Context, a, b runtime.Value) (int, error) {
	v, err := Comparison.Dispatch(ctx, a, b)
	if err != nil {
		return 0, err
	}
	return int(v.(runtime.NumberValue).Val), nil
}

func compareSequences(ctx context.Context, a, b []runtime.Value) (runtime.Value, error) {
	for i := 0; i < len(a) && i < len(b); i++ {
		c, err := Compare(ctx, a[i], b[i])
		if err != nil {
			return nil, err
		}
		if c != 0 {
			return runtime.Number(float64(c)), nil
		}
	}
	return runtime.Number(float64(cmp.Compare(len(a), len(b)))), nil
}

func ordering(c int) Handler {
	return constant(runtime.Number(float64(c)))
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
