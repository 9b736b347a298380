package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"swan/interpreter-go/pkg/interpreter"
	"swan/interpreter-go/pkg/runtime"
)

var (
	// ErrModuleNotFound is returned when no search path holds the module.
	ErrModuleNotFound = errors.New("module not found")
	// ErrImportCycle is returned when a module requires itself, directly
	// or through other modules.
	ErrImportCycle = errors.New("import cycle")
)

// ModuleExtensions are tried in order when resolving a module name.
var ModuleExtensions = []string{".swan", ".yml", ".yaml"}

// Loader resolves module names against search paths and installed packages,
// evaluates each module once and caches the exported value.
type Loader struct {
	Paths    []string
	Packages map[string]string
	Logger   *slog.Logger

	mu    sync.Mutex
	cache map[string]runtime.Value
}

// NewLoader returns a loader searching paths in order.
func NewLoader(paths ...string) *Loader {
	return &Loader{
		Paths:    paths,
		Packages: make(map[string]string),
		Logger:   slog.New(slog.DiscardHandler),
		cache:    make(map[string]runtime.Value),
	}
}

// AddPackage makes the installed package in dir requirable as name.
func (l *Loader) AddPackage(name, dir string) {
	if l.Packages == nil {
		l.Packages = make(map[string]string)
	}
	l.Packages[name] = dir
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.Logger
}

// Resolve maps a module name onto a file. A name whose first segment is an
// installed package resolves inside that package: "pkg" is pkg/index.swan
// and "pkg/x" is pkg/x.swan.
func (l *Loader) Resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || filepath.IsAbs(name) || strings.Contains(name, "..") {
		return "", fmt.Errorf("require %q: invalid module name", name)
	}
	head, rest, _ := strings.Cut(name, "/")
	if dir, ok := l.Packages[head]; ok {
		if rest == "" {
			rest = "index"
		}
		if path, ok := firstExisting(filepath.Join(dir, filepath.FromSlash(rest))); ok {
			return path, nil
		}
	}
	for _, base := range l.Paths {
		if path, ok := firstExisting(filepath.Join(base, filepath.FromSlash(name))); ok {
			return path, nil
		}
	}
	return "", fmt.Errorf("require %q: %w", name, ErrModuleNotFound)
}

func firstExisting(stem string) (string, bool) {
	for _, ext := range ModuleExtensions {
		candidate := stem + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return candidate, true
			}
			return abs, true
		}
	}
	return "", false
}

type loadingKey struct{}

// Require loads the named module and returns its exported value. A swan
// module exports the value of its expression, or its top-level bindings
// when the expression yields Nothing. A YAML module exports its data.
func (l *Loader) Require(ctx context.Context, interp *interpreter.Interpreter, name string) (runtime.Value, error) {
	path, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}

	chain, _ := ctx.Value(loadingKey{}).([]string)
	for _, loading := range chain {
		if loading == path {
			return nil, fmt.Errorf("require %q: %w: %s", name, ErrImportCycle, strings.Join(append(chain, path), " -> "))
		}
	}

	l.mu.Lock()
	if l.cache == nil {
		l.cache = make(map[string]runtime.Value)
	}
	if v, ok := l.cache[path]; ok {
		l.mu.Unlock()
		l.logger().Debug("module cache hit", "module", name, "path", path)
		return v, nil
	}
	l.mu.Unlock()

	l.logger().Debug("loading module", "module", name, "path", path)
	next := make([]string, len(chain), len(chain)+1)
	copy(next, chain)
	ctx = context.WithValue(ctx, loadingKey{}, append(next, path))

	v, err := l.load(ctx, interp, path)
	if err != nil {
		return nil, fmt.Errorf("require %q: %w", name, err)
	}

	l.mu.Lock()
	if cached, ok := l.cache[path]; ok {
		v = cached
	} else {
		l.cache[path] = v
	}
	l.mu.Unlock()
	return v, nil
}

func (l *Loader) load(ctx context.Context, interp *interpreter.Interpreter, path string) (runtime.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".swan") {
		scope := interp.NewContext()
		v, err := interp.Eval(ctx, string(data), scope)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return scope.Own(), nil
		}
		return v, nil
	}
	return DecodeYAML(data)
}

// Function exposes the loader as the require built-in of interp. Each
// argument names a module; several names yield a tuple.
func (l *Loader) Function(interp *interpreter.Interpreter) *runtime.FunctionValue {
	return runtime.NewFunction("require", func(ctx context.Context, args []runtime.Value) (runtime.Value, error) {
		out := make([]runtime.Value, 0, len(args))
		for _, arg := range args {
			name, ok := arg.(runtime.StringValue)
			if !ok {
				return nil, &runtime.TypeError{Operation: "require", Got: runtime.Classify(arg)}
			}
			v, err := l.Require(ctx, interp, name.Val)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return runtime.MakeTuple(out...), nil
	})
}
