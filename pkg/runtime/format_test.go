package runtime

import (
	"math"
	"testing"
)

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{
		0:            "0",
		3:            "3",
		-2.5:         "-2.5",
		0.1:          "0.1",
		1e21:         "1e+21",
		1e-7:         "1e-7",
		123456789:    "123456789",
		math.Inf(1):  "Infinity",
		math.Inf(-1): "-Infinity",
	}
	for in, want := range cases {
		if got := FormatNumber(in); got != want {
			t.Fatalf("FormatNumber(%v): expected %q, got %q", in, want, got)
		}
	}
}

func TestInspect(t *testing.T) {
	ns := NamespaceFrom("a", NewList(Number(1), String("s")), "b", True)
	if got := Inspect(ns); got != `{a = [1, "s"], b = TRUE}` {
		t.Fatalf("unexpected rendering %s", got)
	}
	if got := Inspect(Nothing); got != "()" {
		t.Fatalf("unexpected rendering %s", got)
	}
}
