package runtime

import "sync"

// Context provides lexical scoping for swan evaluation. Each context owns its
// bindings and delegates lookups of unbound names to its parent.
type Context struct {
	mu       sync.RWMutex
	bindings *NamespaceValue
	parent   *Context
	handlers *HandlerSet
}

// NewContext creates a new context, optionally nested under a parent.
func NewContext(parent *Context) *Context {
	return &Context{
		bindings: NewNamespace(),
		parent:   parent,
	}
}

// NewRootContext creates a parentless context that carries the handler set
// every descendant evaluates with.
func NewRootContext(handlers *HandlerSet) *Context {
	ctx := NewContext(nil)
	ctx.handlers = handlers
	return ctx
}

// Parent exposes the lexical parent (nil for a root).
func (c *Context) Parent() *Context {
	return c.parent
}

// Define inserts or shadows a binding in the current context. Parents are
// never written.
func (c *Context) Define(name string, value Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings.Set(name, Normalize(value))
}

// Lookup retrieves a binding, searching outward through the context chain.
func (c *Context) Lookup(name string) (Value, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		v, ok := cur.bindings.Get(name)
		cur.mu.RUnlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

// Own returns a snapshot of the visible bindings defined directly in this
// context. Later definitions do not affect the snapshot.
func (c *Context) Own() *NamespaceValue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bindings.Visible()
}

// Extend creates a child context pre-populated with the visible entries of
// ns. A nil namespace yields an empty child.
func (c *Context) Extend(ns *NamespaceValue) *Context {
	child := NewContext(c)
	if ns != nil {
		for _, k := range ns.Keys() {
			v, _ := ns.Get(k)
			child.bindings.Set(k, v)
		}
	}
	return child
}

// WithHandlers creates an empty child context evaluating with handlers
// instead of the inherited set.
func (c *Context) WithHandlers(handlers *HandlerSet) *Context {
	child := NewContext(c)
	child.handlers = handlers
	return child
}

// Handlers returns the handler set of the nearest context that carries one.
func (c *Context) Handlers() *HandlerSet {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.handlers != nil {
			return cur.handlers
		}
	}
	return nil
}

// DescendsFrom reports whether ancestor appears on c's parent chain. A
// context does not descend from itself.
func (c *Context) DescendsFrom(ancestor *Context) bool {
	if c == nil || ancestor == nil {
		return false
	}
	for cur := c.parent; cur != nil; cur = cur.parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}
