package driver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"swan/interpreter-go/pkg/interpreter"
	"swan/interpreter-go/pkg/runtime"
)

func writeModule(t *testing.T, dir, name, contents string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newLoaderInterp(t *testing.T, paths ...string) (*interpreter.Interpreter, *Loader) {
	t.Helper()
	interp := interpreter.New()
	loader := NewLoader(paths...)
	interp.SetGlobal("require", loader.Function(interp))
	return interp, loader
}

func evalString(t *testing.T, interp *interpreter.Interpreter, src string) string {
	t.Helper()
	v, err := interp.Eval(t.Context(), src, interp.NewContext())
	if err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}
	return runtime.Inspect(v)
}

func TestRequireExportsBindings(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "util.swan", "double = x -> x * 2, half = x -> x / 2")
	interp, _ := newLoaderInterp(t, dir)

	if got := evalString(t, interp, "util = require 'util', util.double 4"); got != "8" {
		t.Fatalf("expected 8, got %s", got)
	}
	if got := evalString(t, interp, "size (require 'util')"); got != "2" {
		t.Fatalf("expected 2 exports, got %s", got)
	}
}

func TestRequireExportsValue(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "answer.swan", "x = 40, x + 2")
	interp, _ := newLoaderInterp(t, dir)
	if got := evalString(t, interp, "require 'answer'"); got != "42" {
		t.Fatalf("expected 42, got %s", got)
	}
}

func TestRequireYAMLModule(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "config.yml", "port: 8080\nhosts: [a, b]\n")
	interp, _ := newLoaderInterp(t, dir)
	if got := evalString(t, interp, "(require 'config').port"); got != "8080" {
		t.Fatalf("expected 8080, got %s", got)
	}
}

func TestRequireCachesModules(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "box.swan", "{}")
	interp, loader := newLoaderInterp(t, dir)

	first, err := loader.Require(t.Context(), interp, "box")
	if err != nil {
		t.Fatalf("Require returned error: %v", err)
	}
	second, err := loader.Require(t.Context(), interp, "box")
	if err != nil {
		t.Fatalf("Require returned error: %v", err)
	}
	if first != second {
		t.Fatalf("expected cached namespace to be reused")
	}
}

func TestRequireSearchOrder(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeModule(t, second, "m.swan", "'second'")
	writeModule(t, first, "m.yaml", "first")
	writeModule(t, second, "only.swan", "'only'")
	interp, _ := newLoaderInterp(t, first, second)

	if got := evalString(t, interp, "require 'm'"); got != `"first"` {
		t.Fatalf("expected first path to win, got %s", got)
	}
	if got := evalString(t, interp, "require 'only'"); got != `"only"` {
		t.Fatalf("expected fallback to second path, got %s", got)
	}
}

func TestRequirePackages(t *testing.T) {
	pkgDir := t.TempDir()
	writeModule(t, pkgDir, "index.swan", "name = 'colors'")
	writeModule(t, pkgDir, "palette.swan", "['red', 'green']")
	interp, loader := newLoaderInterp(t)
	loader.AddPackage("colors", pkgDir)

	if got := evalString(t, interp, "(require 'colors').name"); got != `"colors"` {
		t.Fatalf("expected package index, got %s", got)
	}
	if got := evalString(t, interp, "require 'colors/palette'"); got != `["red", "green"]` {
		t.Fatalf("expected package submodule, got %s", got)
	}
}

func TestRequireMissing(t *testing.T) {
	interp, loader := newLoaderInterp(t, t.TempDir())
	if _, err := loader.Require(t.Context(), interp, "nope"); !errors.Is(err, ErrModuleNotFound) {
		t.Fatalf("expected ErrModuleNotFound, got %v", err)
	}
	if _, err := loader.Require(t.Context(), interp, "../escape"); err == nil {
		t.Fatalf("expected invalid module name error")
	}
}

func TestRequireCycle(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "a.swan", "require 'b'")
	writeModule(t, dir, "b.swan", "require 'a'")
	interp, loader := newLoaderInterp(t, dir)

	if _, err := loader.Require(t.Context(), interp, "a"); !errors.Is(err, ErrImportCycle) {
		t.Fatalf("expected ErrImportCycle, got %v", err)
	}
}

func TestRequireRejectsNonString(t *testing.T) {
	interp, _ := newLoaderInterp(t, t.TempDir())
	_, err := interp.Eval(t.Context(), "require 3", interp.NewContext())
	var typeErr *runtime.TypeError
	if !errors.As(err, &typeErr) || typeErr.Operation != "require" {
		t.Fatalf("expected require TypeError, got %v", err)
	}
}
