package operations

import (
	"context"
	"math"
	"strings"

	"swan/interpreter-go/pkg/runtime"
)

const (
	nothing   = runtime.KindNothing
	boolean   = runtime.KindBool
	number    = runtime.KindNumber
	str       = runtime.KindString
	list      = runtime.KindList
	namespace = runtime.KindNamespace
	function  = runtime.KindFunction
	tuple     = runtime.KindTuple
)

var (
	Sum         = newSumTable()
	Subtraction = newSubtractionTable()
	Product     = newProductTable()
	Division    = numericTable("Division", func(a, b float64) float64 { return a / b })
	Modulo      = numericTable("Modulo", math.Mod)
	Power       = numericTable("Power", math.Pow)
)

func newSumTable() *Table {
	t := NewTable("Sum").withBroadcast()
	t.Define(nothing, Anything, right).
		Define(Anything, nothing, left).
		Define(boolean, boolean, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			return runtime.Bool(l.(runtime.BoolValue).Val || r.(runtime.BoolValue).Val), nil
		}).
		Define(number, number, numeric(func(a, b float64) float64 { return a + b })).
		Define(str, str, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			return runtime.String(l.(runtime.StringValue).Val + r.(runtime.StringValue).Val), nil
		}).
		Define(list, list, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			return l.(runtime.ListValue).Concat(r.(runtime.ListValue)), nil
		}).
		Define(namespace, namespace, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			return MergeNamespaces(l.(*runtime.NamespaceValue), r.(*runtime.NamespaceValue)), nil
		})
	return t
}

// MergeNamespaces returns a new namespace with the visible entries of a
// followed by those of b; b wins on collision.
func MergeNamespaces(a, b *runtime.NamespaceValue) *runtime.NamespaceValue {
	out := a.Visible()
	for _, k := range b.Keys() {
		v, _ := b.Get(k)
		out.Set(k, v)
	}
	return out
}

func newSubtractionTable() *Table {
	t := NewTable("Subtraction").withBroadcast()
	t.Define(Anything, nothing, left).
		Define(nothing, number, func(_ context.Context, _, r runtime.Value) (runtime.Value, error) {
			return runtime.Number(-r.(runtime.NumberValue).Val), nil
		}).
		Define(number, number, numeric(func(a, b float64) float64 { return a - b }))
	return t
}

func newProductTable() *Table {
	t := NewTable("Product").withBroadcast()
	t.Define(nothing, Anything, constant(runtime.Nothing)).
		Define(Anything, nothing, constant(runtime.Nothing)).
		Define(boolean, boolean, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			return runtime.Bool(l.(runtime.BoolValue).Val && r.(runtime.BoolValue).Val), nil
		}).
		Define(number, number, numeric(func(a, b float64) float64 { return a * b })).
		Define(str, number, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			return repeatString(l.(runtime.StringValue), r.(runtime.NumberValue))
		}).
		Define(number, str, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			return repeatString(r.(runtime.StringValue), l.(runtime.NumberValue))
		}).
		Define(list, number, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			return repeatList(l.(runtime.ListValue), r.(runtime.NumberValue))
		}).
		Define(number, list, func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
			return repeatList(r.(runtime.ListValue), l.(runtime.NumberValue))
		})
	return t
}

// numericTable builds a numbers-only table where Nothing on either side
// yields Nothing.
func numericTable(name string, op func(a, b float64) float64) *Table {
	t := NewTable(name).withBroadcast()
	t.Define(nothing, Anything, constant(runtime.Nothing)).
		Define(Anything, nothing, constant(runtime.Nothing)).
		Define(number, number, numeric(op))
	return t
}

func numeric(op func(a, b float64) float64) Handler {
	return func(_ context.Context, l, r runtime.Value) (runtime.Value, error) {
		return runtime.Number(op(l.(runtime.NumberValue).Val, r.(runtime.NumberValue).Val)), nil
	}
}

// repeatCount truncates n to a repetition count for a unit of the given size.
// Non-positive and infinite counts repeat zero times.
func repeatCount(unit int, n runtime.NumberValue) (int, error) {
	if unit == 0 || math.IsInf(n.Val, 0) || !(n.Val >= 1) {
		return 0, nil
	}
	count := math.Trunc(n.Val)
	if size := float64(unit) * count; size > runtime.MaxCollectionSize {
		return 0, &runtime.LimitError{Operation: "Product", Size: size}
	}
	return int(count), nil
}

func repeatString(s runtime.StringValue, n runtime.NumberValue) (runtime.Value, error) {
	count, err := repeatCount(len(s.Val), n)
	if err != nil {
		return nil, err
	}
	return runtime.String(strings.Repeat(s.Val, count)), nil
}

func repeatList(l runtime.ListValue, n runtime.NumberValue) (runtime.Value, error) {
	count, err := repeatCount(l.Len(), n)
	if err != nil {
		return nil, err
	}
	elements := l.Elements()
	items := make([]runtime.Value, 0, len(elements)*count)
	for ; count > 0; count-- {
		items = append(items, elements...)
	}
	return runtime.NewList(items...), nil
}
