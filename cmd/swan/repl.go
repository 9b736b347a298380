package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"swan/interpreter-go/pkg/parser"
	"swan/interpreter-go/pkg/runtime"
)

const (
	primaryPrompt      = "swan> "
	continuationPrompt = "....> "
)

// replState keeps one scope for the whole session so bindings persist
// between lines.
type replState struct {
	sess    *session
	scope   *runtime.Context
	pending strings.Builder
}

func newReplState(sess *session) *replState {
	return &replState{sess: sess, scope: sess.interp.NewContext()}
}

// feed adds a line of input. When the buffered source is an unfinished
// construct it returns more=true and waits for the next line; otherwise it
// evaluates the buffer and returns the text to display.
func (r *replState) feed(ctx context.Context, line string) (output string, more bool) {
	if r.pending.Len() > 0 {
		r.pending.WriteByte('\n')
	}
	r.pending.WriteString(line)
	src := r.pending.String()
	if strings.TrimSpace(src) == "" {
		r.pending.Reset()
		return "", false
	}

	expr, err := r.sess.interp.Parse(src)
	if err != nil {
		var syntaxErr *parser.SyntaxError
		if errors.As(err, &syntaxErr) && syntaxErr.Incomplete {
			return "", true
		}
		r.pending.Reset()
		return "error: " + err.Error(), false
	}
	r.pending.Reset()

	v, err := expr.Evaluate(ctx, r.scope)
	if err != nil {
		return "error: " + err.Error(), false
	}
	if v == nil {
		return "", false
	}
	return runtime.Inspect(v), false
}

func (r *replState) reset() {
	r.pending.Reset()
}

// complete offers the names visible from the session scope that extend the
// identifier ending at pos.
func (r *replState) complete(line string, pos int) (head string, completions []string, tail string) {
	if pos > len(line) {
		pos = len(line)
	}
	start := pos
	for start > 0 && isNameByte(line[start-1]) {
		start--
	}
	prefix := line[start:pos]
	seen := make(map[string]bool)
	for scope := r.scope; scope != nil; scope = scope.Parent() {
		for _, name := range scope.Own().Keys() {
			if strings.HasPrefix(name, prefix) && !seen[name] {
				seen[name] = true
				completions = append(completions, name)
			}
		}
	}
	sort.Strings(completions)
	return line[:start], completions, line[pos:]
}

func isNameByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func (c *cli) runRepl(ctx context.Context) int {
	sess, err := c.newSession()
	if err != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return 1
	}
	state := newReplState(sess)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetMultiLineMode(true)
	line.SetWordCompleter(state.complete)

	historyPath := filepath.Join(swanHome(), "history")
	if f, err := os.Open(historyPath); err == nil {
		if _, err := line.ReadHistory(f); err != nil {
			c.logger.Debug("reading history failed", "path", historyPath, "error", err)
		}
		f.Close()
	}

	prompt := primaryPrompt
	var entry strings.Builder
	for {
		input, err := line.Prompt(prompt)
		switch {
		case err == nil:
		case errors.Is(err, liner.ErrPromptAborted):
			state.reset()
			entry.Reset()
			prompt = primaryPrompt
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(c.stdout)
			c.saveHistory(line, historyPath)
			return 0
		default:
			fmt.Fprintf(c.stderr, "error: %v\n", err)
			c.saveHistory(line, historyPath)
			return 1
		}

		if entry.Len() > 0 {
			entry.WriteByte('\n')
		}
		entry.WriteString(input)

		out, more := state.feed(ctx, input)
		if more {
			prompt = continuationPrompt
			continue
		}
		prompt = primaryPrompt
		if strings.TrimSpace(entry.String()) != "" {
			line.AppendHistory(entry.String())
		}
		entry.Reset()
		if out != "" {
			fmt.Fprintln(c.stdout, out)
		}
	}
}

func (c *cli) saveHistory(line *liner.State, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		c.logger.Debug("history directory unavailable", "path", path, "error", err)
		return
	}
	f, err := os.Create(path)
	if err != nil {
		c.logger.Debug("writing history failed", "path", path, "error", err)
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		c.logger.Debug("writing history failed", "path", path, "error", err)
	}
}
