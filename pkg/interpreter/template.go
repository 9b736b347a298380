package interpreter

import (
	"context"
	"strings"
	"sync"

	"swan/interpreter-go/pkg/operations"
	"swan/interpreter-go/pkg/parser"
	"swan/interpreter-go/pkg/runtime"
)

type templatePart struct {
	text string
	expr runtime.Operand
}

type compiledTemplate struct {
	parts []templatePart
}

// templateCache holds compiled templates keyed by their literal text. It
// is shared by every evaluation of the interpreter.
type templateCache struct {
	mu      sync.Mutex
	entries map[string]*compiledTemplate
}

func newTemplateCache() *templateCache {
	return &templateCache{entries: make(map[string]*compiledTemplate)}
}

func (c *templateCache) lookup(text string) (*compiledTemplate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tmpl, ok := c.entries[text]
	return tmpl, ok
}

func (c *templateCache) store(text string, tmpl *compiledTemplate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[text] = tmpl
}

func (c *templateCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evaluateTemplate substitutes every ${...} span of text with the string
// form of its value. Spans are evaluated left to right in a child of scope,
// so names they define do not leak.
func (i *Interpreter) evaluateTemplate(ctx context.Context, scope *runtime.Context, text string) (runtime.Value, error) {
	tmpl, err := i.template(text)
	if err != nil {
		return nil, err
	}
	local := scope.Extend(nil)
	var b strings.Builder
	for _, part := range tmpl.parts {
		if part.expr == nil {
			b.WriteString(part.text)
			continue
		}
		v, err := part.expr(ctx, local)
		if err != nil {
			return nil, err
		}
		b.WriteString(operations.Str(v))
	}
	return runtime.String(b.String()), nil
}

func (i *Interpreter) template(text string) (*compiledTemplate, error) {
	if tmpl, ok := i.templates.lookup(text); ok {
		return tmpl, nil
	}
	tmpl := &compiledTemplate{}
	rest := text
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			break
		}
		end := parser.InterpolationEnd(rest, start+2)
		if end < 0 {
			break
		}
		if start > 0 {
			tmpl.parts = append(tmpl.parts, templatePart{text: rest[:start]})
		}
		node, err := i.parser.Parse(rest[start+2 : end])
		if err != nil {
			return nil, err
		}
		tmpl.parts = append(tmpl.parts, templatePart{expr: i.compile(node)})
		rest = rest[end+1:]
	}
	if rest != "" {
		tmpl.parts = append(tmpl.parts, templatePart{text: rest})
	}
	i.logger.Debug("compiled template", "text", text, "parts", len(tmpl.parts))
	i.templates.store(text, tmpl)
	return tmpl, nil
}
