package runtime

import (
	"context"
	"fmt"
	"math"

	"src.elv.sh/pkg/persistent/vector"
)

// Kind identifies the runtime type tag of a value.
type Kind int

const (
	KindNothing Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindNamespace
	KindFunction
	KindTuple
)

func (k Kind) String() string {
	switch k {
	case KindNothing:
		return "Nothing"
	case KindBool:
		return "Boolean"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindNamespace:
		return "Namespace"
	case KindFunction:
		return "Function"
	case KindTuple:
		return "Tuple"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values. Kind is computed
// from the value on every call; nothing is cached.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

// NumberValue holds a float64. NaN classifies as Nothing.
type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind {
	if math.IsNaN(v.Val) {
		return KindNothing
	}
	return KindNumber
}

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

var (
	True  = BoolValue{Val: true}
	False = BoolValue{Val: false}
)

func Bool(b bool) BoolValue { return BoolValue{Val: b} }

func Number(f float64) NumberValue { return NumberValue{Val: f} }

func String(s string) StringValue { return StringValue{Val: s} }

//-----------------------------------------------------------------------------
// Lists
//-----------------------------------------------------------------------------

// ListValue is an immutable, 0-indexed sequence backed by a persistent
// vector. Operations that change a list return a new ListValue.
type ListValue struct {
	elements vector.Vector
}

func (v ListValue) Kind() Kind { return KindList }

// NewList builds a list holding elements in order.
func NewList(elements ...Value) ListValue {
	vec := vector.Empty
	for _, el := range elements {
		vec = vec.Conj(el)
	}
	return ListValue{elements: vec}
}

func (v ListValue) vec() vector.Vector {
	if v.elements == nil {
		return vector.Empty
	}
	return v.elements
}

// Len returns the number of elements.
func (v ListValue) Len() int {
	return v.vec().Len()
}

// At returns the element at index i; ok is false when i is out of range.
func (v ListValue) At(i int) (Value, bool) {
	el, ok := v.vec().Index(i)
	if !ok {
		return nil, false
	}
	return el.(Value), true
}

// Elements copies the list into a slice.
func (v ListValue) Elements() []Value {
	out := make([]Value, 0, v.Len())
	for it := v.vec().Iterator(); it.HasElem(); it.Next() {
		out = append(out, it.Elem().(Value))
	}
	return out
}

// Append returns a new list with el added at the end.
func (v ListValue) Append(el Value) ListValue {
	return ListValue{elements: v.vec().Conj(el)}
}

// Concat returns a new list holding v's elements followed by other's.
func (v ListValue) Concat(other ListValue) ListValue {
	vec := v.vec()
	for it := other.vec().Iterator(); it.HasElem(); it.Next() {
		vec = vec.Conj(it.Elem())
	}
	return ListValue{elements: vec}
}

// Slice returns the elements in [from, to).
func (v ListValue) Slice(from, to int) ListValue {
	return ListValue{elements: v.vec().SubVector(from, to)}
}

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

// NativeFunc receives the flattened items of the argument tuple.
type NativeFunc func(ctx context.Context, args []Value) (Value, error)

// FunctionValue is an opaque callable. Two function values are equal only
// when they are the same pointer.
type FunctionValue struct {
	Name string
	Impl NativeFunc
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// NewFunction wraps impl as a named function value.
func NewFunction(name string, impl NativeFunc) *FunctionValue {
	return &FunctionValue{Name: name, Impl: impl}
}

// Call invokes the function with the items of args and normalizes the result.
func (v *FunctionValue) Call(ctx context.Context, args Value) (Value, error) {
	if v == nil || v.Impl == nil {
		return Nothing, nil
	}
	result, err := v.Impl(ctx, Items(args))
	if err != nil {
		return nil, err
	}
	return Normalize(result), nil
}

//-----------------------------------------------------------------------------
// Tuples
//-----------------------------------------------------------------------------

// TupleValue is a flat sequence of items. The empty tuple is Nothing.
// Build tuples with MakeTuple so items never nest.
type TupleValue struct {
	items []Value
}

func (v TupleValue) Kind() Kind {
	if len(v.items) == 0 {
		return KindNothing
	}
	return KindTuple
}

// Len returns the number of items.
func (v TupleValue) Len() int { return len(v.items) }

// Nothing is the canonical empty tuple. TupleValue holds a slice, so values
// must not be compared against Nothing with ==; use IsNothing or Classify.
var Nothing Value = TupleValue{}
