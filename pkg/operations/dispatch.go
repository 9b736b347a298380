package operations

import (
	"context"

	"swan/interpreter-go/pkg/runtime"
)

// Anything is the wildcard kind used in table keys.
const Anything runtime.Kind = -1

// Handler implements one entry of an operation table.
type Handler func(ctx context.Context, left, right runtime.Value) (runtime.Value, error)

type tableKey struct {
	left, right runtime.Kind
}

// Table resolves a binary operation by the type pair of its operands.
type Table struct {
	Name    string
	entries map[tableKey]Handler
}

func NewTable(name string) *Table {
	return &Table{Name: name, entries: make(map[tableKey]Handler)}
}

// Define registers h for the (left, right) pair. Either side may be
// Anything. Define returns the table so definitions can be chained.
func (t *Table) Define(left, right runtime.Kind, h Handler) *Table {
	t.entries[tableKey{left, right}] = h
	return t
}

// Lookup probes the exact pair, then (left, Anything), then
// (Anything, right), then (Anything, Anything).
func (t *Table) Lookup(left, right runtime.Kind) (Handler, bool) {
	probes := [...]tableKey{
		{left, right},
		{left, Anything},
		{Anything, right},
		{Anything, Anything},
	}
	for _, key := range probes {
		if h, ok := t.entries[key]; ok {
			return h, true
		}
	}
	return nil, false
}

// Dispatch classifies both operands, runs the resolved handler and
// normalizes its result. A pair with no entry is an OperationError.
func (t *Table) Dispatch(ctx context.Context, left, right runtime.Value) (runtime.Value, error) {
	h, ok := t.Lookup(runtime.Classify(left), runtime.Classify(right))
	if !ok {
		return nil, t.fail(left, right)
	}
	result, err := h(ctx, left, right)
	if err != nil {
		return nil, err
	}
	return runtime.Normalize(result), nil
}

func (t *Table) fail(left, right runtime.Value) error {
	return &runtime.OperationError{
		Operation: t.Name,
		Left:      runtime.Classify(left),
		Right:     runtime.Classify(right),
	}
}

// Fail is a handler that always reports the operation as undefined for its
// operands.
func (t *Table) Fail(_ context.Context, left, right runtime.Value) (runtime.Value, error) {
	return nil, t.fail(left, right)
}

// Broadcast applies the table item by item. A non-tuple operand is recycled
// against every item of the other side; between two tuples the shorter one
// is padded with Nothing.
func (t *Table) Broadcast(ctx context.Context, left, right runtime.Value) (runtime.Value, error) {
	lt := runtime.Classify(left) == runtime.KindTuple
	rt := runtime.Classify(right) == runtime.KindTuple
	var li, ri []runtime.Value
	switch {
	case lt && rt:
		li, ri = runtime.Items(left), runtime.Items(right)
	case lt:
		li = runtime.Items(left)
		ri = recycle(right, len(li))
	default:
		ri = runtime.Items(right)
		li = recycle(left, len(ri))
	}
	n := max(len(li), len(ri))
	results := make([]runtime.Value, 0, n)
	for i := 0; i < n; i++ {
		v, err := t.Dispatch(ctx, itemAt(li, i), itemAt(ri, i))
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return runtime.MakeTuple(results...), nil
}

// withBroadcast registers Broadcast for tuples on either side.
func (t *Table) withBroadcast() *Table {
	return t.Define(runtime.KindTuple, Anything, t.Broadcast).
		Define(Anything, runtime.KindTuple, t.Broadcast)
}

func recycle(v runtime.Value, n int) []runtime.Value {
	out := make([]runtime.Value, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func itemAt(items []runtime.Value, i int) runtime.Value {
	if i < len(items) {
		return items[i]
	}
	return runtime.Nothing
}

func left(_ context.Context, l, _ runtime.Value) (runtime.Value, error) { return l, nil }

func right(_ context.Context, _, r runtime.Value) (runtime.Value, error) { return r, nil }

func constant(v runtime.Value) Handler {
	return func(context.Context, runtime.Value, runtime.Value) (runtime.Value, error) {
		return v, nil
	}
}
