package interpreter

import (
	"context"
	"testing"

	"swan/interpreter-go/pkg/runtime"
)

func evalIn(t *testing.T, interp *Interpreter, scope *runtime.Context, src string) runtime.Value {
	t.Helper()
	v, err := interp.Eval(context.Background(), src, scope)
	if err != nil {
		t.Fatalf("eval %q: unexpected error: %v", src, err)
	}
	return v
}

// expectEval evaluates src in a fresh context and compares the rendered
// result.
func expectEval(t *testing.T, src, want string) {
	t.Helper()
	interp := New()
	got := runtime.Inspect(evalIn(t, interp, interp.NewContext(), src))
	if got != want {
		t.Fatalf("eval %q: expected %s, got %s", src, want, got)
	}
}

func evalErr(t *testing.T, src string) error {
	t.Helper()
	interp := New()
	_, err := interp.Eval(context.Background(), src, interp.NewContext())
	if err == nil {
		t.Fatalf("eval %q: expected an error", src)
	}
	return err
}
