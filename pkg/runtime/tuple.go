package runtime

// Classify returns the type tag of v. A nil value, an empty tuple and a NaN
// number are all Nothing.
func Classify(v Value) Kind {
	if v == nil {
		return KindNothing
	}
	return v.Kind()
}

// IsNothing reports whether v classifies as Nothing.
func IsNothing(v Value) bool {
	return Classify(v) == KindNothing
}

// MakeTuple flattens operands into a single tuple: tuple operands contribute
// their items, Nothing operands vanish.
func MakeTuple(operands ...Value) TupleValue {
	items := make([]Value, 0, len(operands))
	for _, op := range operands {
		items = appendItems(items, op)
	}
	return TupleValue{items: items}
}

func appendItems(dst []Value, v Value) []Value {
	switch Classify(v) {
	case KindNothing:
		return dst
	case KindTuple:
		for _, item := range v.(TupleValue).items {
			dst = appendItems(dst, item)
		}
		return dst
	default:
		return append(dst, v)
	}
}

// Normalize collapses a value about to be observed: zero items become
// Nothing and a single item becomes that item.
func Normalize(v Value) Value {
	items := Items(v)
	switch len(items) {
	case 0:
		return Nothing
	case 1:
		return items[0]
	default:
		if t, ok := v.(TupleValue); ok && len(t.items) == len(items) {
			return t
		}
		return TupleValue{items: items}
	}
}

// Items iterates any value as a sequence of items: Nothing yields none, a
// tuple yields its flat items and every other value yields itself.
func Items(v Value) []Value {
	switch Classify(v) {
	case KindNothing:
		return nil
	case KindTuple:
		return appendItems(nil, v)
	default:
		return []Value{v}
	}
}

// Enumerate is the narrower iteration used by the enum built-in: strings
// yield one item per character, lists one item per element and namespaces
// one item per visible key. Tuples are enumerated item by item.
func Enumerate(v Value) []Value {
	switch Classify(v) {
	case KindString:
		s := v.(StringValue).Val
		out := make([]Value, 0, len(s))
		for _, r := range s {
			out = append(out, StringValue{Val: string(r)})
		}
		return out
	case KindList:
		return v.(ListValue).Elements()
	case KindNamespace:
		keys := v.(*NamespaceValue).Keys()
		out := make([]Value, 0, len(keys))
		for _, k := range keys {
			out = append(out, StringValue{Val: k})
		}
		return out
	case KindTuple:
		var out []Value
		for _, item := range Items(v) {
			out = append(out, Enumerate(item)...)
		}
		return out
	default:
		return Items(v)
	}
}
