package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"

	"swan/interpreter-go/pkg/driver"
	"swan/interpreter-go/pkg/interpreter"
	"swan/interpreter-go/pkg/runtime"
)

const cliToolVersion = "swan 0.1.0-dev"

const usage = `swan

Usage:
  swan [-v] repl
  swan [-v] deps install
  swan [-v] [-d DATA] [--yaml] -e EXPRESSION
  swan [-v] [-d DATA] [--yaml] [FILE]
  swan -h | --help
  swan --version

Arguments:
  FILE  Swan source file. Read from stdin when omitted and stdin is not a TTY.

Options:
  -e, --eval=EXPRESSION  Evaluate EXPRESSION.
  -d, --data=DATA        YAML file whose mapping is visible to the program.
  --yaml                 Print the result as YAML.
  -v, --verbose          Log debug output to stderr.
  -h, --help             Show this help.
  --version              Print the swan version.

With no FILE on a terminal, swan starts the REPL.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}
	parser := &docopt.Parser{HelpHandler: docopt.NoHelpHandler, SkipHelpFlags: true}
	opts, err := parser.ParseArgs(usage, args, "")
	if err != nil {
		fmt.Fprint(stderr, usage)
		return 2
	}
	if help, _ := opts.Bool("--help"); help {
		fmt.Fprint(stdout, usage)
		return 0
	}
	if version, _ := opts.Bool("--version"); version {
		fmt.Fprintln(stdout, cliToolVersion)
		return 0
	}

	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr, logger: slog.New(slog.DiscardHandler)}
	if verbose, _ := opts.Bool("--verbose"); verbose {
		c.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	if deps, _ := opts.Bool("deps"); deps {
		return c.runDepsInstall()
	}
	if repl, _ := opts.Bool("repl"); repl {
		return c.runRepl(ctx)
	}

	expr, _ := opts.String("--eval")
	file, _ := opts.String("FILE")
	data, _ := opts.String("--data")
	asYAML, _ := opts.Bool("--yaml")

	if expr == "" && file == "" && isTerminal(stdin) {
		return c.runRepl(ctx)
	}

	src := expr
	var extraPaths []string
	if expr == "" {
		var content []byte
		if file == "" {
			content, err = io.ReadAll(stdin)
		} else {
			content, err = os.ReadFile(file)
			extraPaths = append(extraPaths, filepath.Dir(file))
		}
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		src = string(content)
	}

	sess, err := c.newSession(extraPaths...)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	scope, err := sess.scope(data)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	result, err := sess.interp.Eval(ctx, src, scope)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if err := c.print(result, asYAML); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func (c *cli) print(v runtime.Value, asYAML bool) error {
	if asYAML {
		out, err := driver.EncodeYAML(v)
		if err != nil {
			return err
		}
		_, err = c.stdout.Write(out)
		return err
	}
	if v == nil {
		return nil
	}
	_, err := fmt.Fprintln(c.stdout, runtime.Inspect(v))
	return err
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// session is an interpreter wired to the project around the working
// directory: its manifest globals, search paths and installed packages.
type session struct {
	interp   *interpreter.Interpreter
	loader   *driver.Loader
	manifest *driver.Manifest
}

func (c *cli) newSession(extraPaths ...string) (*session, error) {
	manifest, err := findProjectManifest()
	if err != nil {
		return nil, err
	}

	interp := interpreter.New(interpreter.WithLogger(c.logger))
	var paths []string
	paths = append(paths, extraPaths...)
	if manifest != nil {
		paths = append(paths, manifest.SearchPaths()...)
	} else if wd, err := os.Getwd(); err == nil {
		paths = append(paths, wd)
	}
	paths = append(paths, swanPath()...)

	loader := driver.NewLoader(paths...)
	loader.Logger = c.logger
	if manifest != nil {
		if err := addLockedPackages(loader, manifest); err != nil {
			return nil, err
		}
		for _, key := range manifest.Globals.Keys() {
			v, _ := manifest.Globals.Get(key)
			interp.SetGlobal(key, v)
		}
	}
	interp.SetGlobal("require", loader.Function(interp))
	c.logger.Debug("session ready", "paths", paths, "packages", len(loader.Packages))
	return &session{interp: interp, loader: loader, manifest: manifest}, nil
}

// scope returns a fresh evaluation context, layering the YAML mapping in
// dataPath when given.
func (s *session) scope(dataPath string) (*runtime.Context, error) {
	if dataPath == "" {
		return s.interp.NewContext(), nil
	}
	content, err := os.ReadFile(dataPath)
	if err != nil {
		return nil, err
	}
	v, err := driver.DecodeYAML(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dataPath, err)
	}
	if runtime.IsNothing(v) {
		return s.interp.NewContext(), nil
	}
	ns, ok := v.(*runtime.NamespaceValue)
	if !ok {
		return nil, fmt.Errorf("%s: data must be a mapping, got %s", dataPath, runtime.Classify(v))
	}
	return s.interp.NewContext(ns), nil
}

func findProjectManifest() (*driver.Manifest, error) {
	path, err := driver.FindManifest(".")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return driver.LoadManifest(path)
}

func swanPath() []string {
	var out []string
	for _, p := range filepath.SplitList(os.Getenv("SWAN_PATH")) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func swanHome() string {
	if home := os.Getenv("SWAN_HOME"); home != "" {
		return home
	}
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".swan")
	}
	return ".swan"
}
