package runtime

import (
	"math"
	"testing"
)

func TestMakeTupleFlattensAndDropsNothing(t *testing.T) {
	inner := MakeTuple(Number(2), Number(3))
	tuple := MakeTuple(Number(1), Nothing, inner, MakeTuple(), String("x"))
	if tuple.Len() != 4 {
		t.Fatalf("expected 4 items, got %d", tuple.Len())
	}
	items := Items(tuple)
	for _, item := range items {
		if item.Kind() == KindTuple {
			t.Fatalf("expected flat items, got nested tuple %#v", item)
		}
	}
	if got := Inspect(tuple); got != `(1, 2, 3, "x")` {
		t.Fatalf("unexpected rendering %s", got)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(MakeTuple()); Classify(got) != KindNothing {
		t.Fatalf("expected Nothing, got %#v", got)
	}
	single := Normalize(MakeTuple(Number(7)))
	if n, ok := single.(NumberValue); !ok || n.Val != 7 {
		t.Fatalf("expected single item to collapse to 7, got %#v", single)
	}
	if got := Normalize(MakeTuple(Number(1), Number(2))); Classify(got) != KindTuple {
		t.Fatalf("expected tuple, got %#v", got)
	}
	if got := Normalize(nil); !IsNothing(got) {
		t.Fatalf("expected nil to normalize to Nothing, got %#v", got)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		value Value
		kind  Kind
	}{
		{nil, KindNothing},
		{Nothing, KindNothing},
		{Number(math.NaN()), KindNothing},
		{True, KindBool},
		{Number(1), KindNumber},
		{String(""), KindString},
		{NewList(), KindList},
		{NewNamespace(), KindNamespace},
		{NewFunction("f", nil), KindFunction},
		{MakeTuple(Number(1), Number(2)), KindTuple},
	}
	for _, tc := range cases {
		if got := Classify(tc.value); got != tc.kind {
			t.Fatalf("expected %s for %#v, got %s", tc.kind, tc.value, got)
		}
	}
}

func TestItemsOfNaNIsEmpty(t *testing.T) {
	if got := Items(Number(math.NaN())); len(got) != 0 {
		t.Fatalf("expected no items, got %#v", got)
	}
}

func TestEnumerate(t *testing.T) {
	ns := NewNamespace()
	ns.Set("a", Number(1))
	ns.Set("__hidden", Number(2))
	ns.Set("b", Number(3))
	got := Enumerate(MakeTuple(String("ab"), NewList(Number(1)), ns, Number(9)))
	if rendered := Inspect(MakeTuple(got...)); rendered != `("a", "b", 1, "a", "b", 9)` {
		t.Fatalf("unexpected enumeration %s", rendered)
	}
}

func TestListIsPersistent(t *testing.T) {
	base := NewList(Number(1), Number(2))
	grown := base.Append(Number(3))
	if base.Len() != 2 || grown.Len() != 3 {
		t.Fatalf("expected lengths 2 and 3, got %d and %d", base.Len(), grown.Len())
	}
	joined := base.Concat(grown)
	if got := Inspect(joined); got != "[1, 2, 1, 2, 3]" {
		t.Fatalf("unexpected concat %s", got)
	}
	if _, ok := base.At(5); ok {
		t.Fatalf("expected out of range lookup to fail")
	}
	var zero ListValue
	if zero.Len() != 0 || len(zero.Elements()) != 0 {
		t.Fatalf("expected zero list to be empty")
	}
}

func TestNothingForms(t *testing.T) {
	forms := map[string]Value{
		"Nothing":           Nothing,
		"empty tuple":       MakeTuple(),
		"flattened Nothing": Normalize(MakeTuple(Nothing, Nothing)),
		"normalized nil":    Normalize(nil),
		"zero TupleValue":   TupleValue{},
	}
	for name, v := range forms {
		if !IsNothing(v) {
			t.Fatalf("expected %s to be Nothing, got %#v", name, v)
		}
	}
	if IsNothing(MakeTuple(Number(0))) {
		t.Fatalf("expected a one-item tuple not to be Nothing")
	}
}
