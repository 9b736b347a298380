package operations

import (
	"context"
	"errors"
	"math"
	"testing"

	"swan/interpreter-go/pkg/runtime"
)

func mustDispatch(t *testing.T, table *Table, l, r runtime.Value) runtime.Value {
	t.Helper()
	v, err := table.Dispatch(context.Background(), l, r)
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", table.Name, err)
	}
	return v
}

func TestSum(t *testing.T) {
	n := runtime.Number
	cases := []struct {
		l, r runtime.Value
		want string
	}{
		{n(1), n(2), "3"},
		{runtime.Nothing, n(2), "2"},
		{n(2), runtime.Nothing, "2"},
		{runtime.True, runtime.False, "TRUE"},
		{runtime.String("ab"), runtime.String("cd"), `"abcd"`},
		{runtime.NewList(n(1)), runtime.NewList(n(2), n(3)), "[1, 2, 3]"},
		{
			runtime.NamespaceFrom("a", n(1), "b", n(2)),
			runtime.NamespaceFrom("b", n(20), "c", n(30)),
			"{a = 1, b = 20, c = 30}",
		},
	}
	for _, tc := range cases {
		if got := runtime.Inspect(mustDispatch(t, Sum, tc.l, tc.r)); got != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, got)
		}
	}
}

func TestSumDoesNotMutateOperands(t *testing.T) {
	a := runtime.NamespaceFrom("a", runtime.Number(1))
	b := runtime.NamespaceFrom("b", runtime.Number(2))
	mustDispatch(t, Sum, a, b)
	if a.Len() != 1 || b.Len() != 1 {
		t.Fatalf("expected operands untouched, got %s and %s", runtime.Inspect(a), runtime.Inspect(b))
	}
}

func TestProductRepeats(t *testing.T) {
	cases := []struct {
		l, r runtime.Value
		want string
	}{
		{runtime.String("ab"), runtime.Number(3), `"ababab"`},
		{runtime.Number(2.9), runtime.String("x"), `"xx"`},
		{runtime.String("x"), runtime.Number(-1), `""`},
		{runtime.NewList(runtime.Number(1)), runtime.Number(2), "[1, 1]"},
		{runtime.False, runtime.True, "FALSE"},
		{runtime.Nothing, runtime.Number(3), "()"},
	}
	for _, tc := range cases {
		if got := runtime.Inspect(mustDispatch(t, Product, tc.l, tc.r)); got != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, got)
		}
	}
}

func TestProductRejectsOversizedRepeats(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		l, r runtime.Value
	}{
		{runtime.String("a"), runtime.Number(1e19)},
		{runtime.Number(1e300), runtime.String("ab")},
		{runtime.NewList(runtime.Number(1)), runtime.Number(1e9)},
		{runtime.String("abcd"), runtime.Number(runtime.MaxCollectionSize/2)},
	}
	for _, tc := range cases {
		_, err := Product.Dispatch(ctx, tc.l, tc.r)
		var limit *runtime.LimitError
		if !errors.As(err, &limit) {
			t.Fatalf("expected limit error for %s * %s, got %v", runtime.Inspect(tc.l), runtime.Inspect(tc.r), err)
		}
	}
	if got := runtime.Inspect(mustDispatch(t, Product, runtime.String(""), runtime.Number(1e300))); got != `""` {
		t.Fatalf("expected empty string, got %s", got)
	}
	if got := runtime.Inspect(mustDispatch(t, Product, runtime.NewList(), runtime.Number(1e300))); got != "[]" {
		t.Fatalf("expected empty list, got %s", got)
	}
	if v := mustDispatch(t, Product, runtime.String("a"), runtime.Number(runtime.MaxCollectionSize)).(runtime.StringValue); len(v.Val) != runtime.MaxCollectionSize {
		t.Fatalf("expected %d bytes, got %d", runtime.MaxCollectionSize, len(v.Val))
	}
}

func TestNumericSemantics(t *testing.T) {
	n := runtime.Number
	if v := mustDispatch(t, Division, n(1), n(0)).(runtime.NumberValue); !math.IsInf(v.Val, 1) {
		t.Fatalf("expected +Inf, got %#v", v)
	}
	if v := mustDispatch(t, Division, n(-1), n(0)).(runtime.NumberValue); !math.IsInf(v.Val, -1) {
		t.Fatalf("expected -Inf, got %#v", v)
	}
	if v := mustDispatch(t, Modulo, n(-7), n(3)).(runtime.NumberValue); v.Val != -1 {
		t.Fatalf("expected remainder to follow dividend, got %#v", v)
	}
	if v := mustDispatch(t, Power, n(4), n(0.5)).(runtime.NumberValue); v.Val != 2 {
		t.Fatalf("expected 2, got %#v", v)
	}
	if v := mustDispatch(t, Power, n(2), n(-1)).(runtime.NumberValue); v.Val != 0.5 {
		t.Fatalf("expected 0.5, got %#v", v)
	}
	if v := mustDispatch(t, Division, n(0), n(0)); runtime.Classify(v) != runtime.KindNothing {
		t.Fatalf("expected NaN to normalize to Nothing, got %#v", v)
	}
	if v := mustDispatch(t, Subtraction, runtime.Nothing, n(4)).(runtime.NumberValue); v.Val != -4 {
		t.Fatalf("expected -4, got %#v", v)
	}
}

func TestSubtractionRejectsStrings(t *testing.T) {
	_, err := Subtraction.Dispatch(context.Background(), runtime.String("a"), runtime.String("b"))
	if err == nil {
		t.Fatalf("expected subtraction of strings to fail")
	}
}
