package runtime

import (
	"context"
	"regexp"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether name is a valid swan identifier.
func IsIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// IsHidden reports whether name is a hidden key. Hidden keys are stored but
// never enumerated, counted or resolved by name.
func IsHidden(name string) bool {
	return len(name) >= 2 && name[0] == '_' && name[1] == '_'
}

// IsVisibleName reports whether name can be looked up from swan code.
func IsVisibleName(name string) bool {
	return IsIdentifier(name) && !IsHidden(name)
}

// NamespaceValue is an insertion-ordered mapping from names to values.
type NamespaceValue struct {
	keys    []string
	entries map[string]Value

	// Resolver, when set, answers lookups for keys the namespace does not
	// hold. Host code uses it to expose lazily computed members.
	Resolver func(ctx context.Context, key string) (Value, error)
}

func (v *NamespaceValue) Kind() Kind { return KindNamespace }

func NewNamespace() *NamespaceValue {
	return &NamespaceValue{entries: make(map[string]Value)}
}

// NamespaceFrom builds a namespace from alternating key/value pairs.
func NamespaceFrom(pairs ...any) *NamespaceValue {
	ns := NewNamespace()
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		val, _ := pairs[i+1].(Value)
		ns.Set(key, val)
	}
	return ns
}

// Set binds key to val. Rebinding an existing key keeps its position.
func (v *NamespaceValue) Set(key string, val Value) {
	if v.entries == nil {
		v.entries = make(map[string]Value)
	}
	if val == nil {
		val = Nothing
	}
	if _, ok := v.entries[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.entries[key] = val
}

// Get returns the value bound to key, hidden keys included.
func (v *NamespaceValue) Get(key string) (Value, bool) {
	if v == nil || v.entries == nil {
		return nil, false
	}
	val, ok := v.entries[key]
	return val, ok
}

// Has reports whether key is bound, hidden keys included.
func (v *NamespaceValue) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Keys returns the visible keys in insertion order.
func (v *NamespaceValue) Keys() []string {
	if v == nil {
		return nil
	}
	out := make([]string, 0, len(v.keys))
	for _, k := range v.keys {
		if IsVisibleName(k) {
			out = append(out, k)
		}
	}
	return out
}

// AllKeys returns every key in insertion order, hidden keys included.
func (v *NamespaceValue) AllKeys() []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v.keys...)
}

// Len counts visible keys.
func (v *NamespaceValue) Len() int {
	return len(v.Keys())
}

// Clone copies the namespace, resolver included.
func (v *NamespaceValue) Clone() *NamespaceValue {
	out := NewNamespace()
	if v == nil {
		return out
	}
	for _, k := range v.keys {
		out.Set(k, v.entries[k])
	}
	out.Resolver = v.Resolver
	return out
}

// Visible copies only the visible entries.
func (v *NamespaceValue) Visible() *NamespaceValue {
	out := NewNamespace()
	for _, k := range v.Keys() {
		out.Set(k, v.entries[k])
	}
	return out
}

// Lookup resolves a visible key, consulting the Resolver for keys the
// namespace does not hold. Missing keys yield Nothing.
func (v *NamespaceValue) Lookup(ctx context.Context, key string) (Value, error) {
	if v == nil || !IsVisibleName(key) {
		return Nothing, nil
	}
	if val, ok := v.entries[key]; ok {
		return val, nil
	}
	if v.Resolver != nil {
		val, err := v.Resolver(ctx, key)
		if err != nil {
			return nil, err
		}
		return Normalize(val), nil
	}
	return Nothing, nil
}
