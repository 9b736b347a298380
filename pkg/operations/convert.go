package operations

import (
	"fmt"
	"strings"

	"swan/interpreter-go/pkg/runtime"
)

// Truthy booleanizes a value. A tuple is true when any of its items is.
func Truthy(v runtime.Value) bool {
	switch runtime.Classify(v) {
	case nothing:
		return false
	case boolean:
		return v.(runtime.BoolValue).Val
	case number:
		return v.(runtime.NumberValue).Val != 0
	case str:
		return v.(runtime.StringValue).Val != ""
	case list:
		return v.(runtime.ListValue).Len() > 0
	case namespace:
		return v.(*runtime.NamespaceValue).Len() > 0
	case function:
		return true
	case tuple:
		for _, item := range runtime.Items(v) {
			if Truthy(item) {
				return true
			}
		}
	}
	return false
}

// Str converts a value to its string form. Tuples concatenate the strings
// of their items.
func Str(v runtime.Value) string {
	switch runtime.Classify(v) {
	case boolean:
		if v.(runtime.BoolValue).Val {
			return "TRUE"
		}
		return "FALSE"
	case number:
		return runtime.FormatNumber(v.(runtime.NumberValue).Val)
	case str:
		return v.(runtime.StringValue).Val
	case list:
		return fmt.Sprintf("[[List of %d items]]", v.(runtime.ListValue).Len())
	case namespace:
		return fmt.Sprintf("[[Namespace of %d items]]", v.(*runtime.NamespaceValue).Len())
	case function:
		return "[[Function]]"
	case tuple:
		var b strings.Builder
		for _, item := range runtime.Items(v) {
			b.WriteString(Str(item))
		}
		return b.String()
	default:
		return ""
	}
}

// Size counts characters, elements or visible keys. Tuples map item by item.
func Size(v runtime.Value) (runtime.Value, error) {
	switch runtime.Classify(v) {
	case nothing:
		return runtime.Number(0), nil
	case str:
		return runtime.Number(float64(len([]rune(v.(runtime.StringValue).Val)))), nil
	case list:
		return runtime.Number(float64(v.(runtime.ListValue).Len())), nil
	case namespace:
		return runtime.Number(float64(v.(*runtime.NamespaceValue).Len())), nil
	case tuple:
		items := runtime.Items(v)
		sizes := make([]runtime.Value, 0, len(items))
		for _, item := range items {
			s, err := Size(item)
			if err != nil {
				return nil, err
			}
			sizes = append(sizes, s)
		}
		return runtime.MakeTuple(sizes...), nil
	default:
		return nil, &runtime.TypeError{Operation: "Size", Got: runtime.Classify(v)}
	}
}

// TypeName returns the type tag name. Tuples map item by item.
func TypeName(v runtime.Value) runtime.Value {
	if runtime.Classify(v) == tuple {
		items := runtime.Items(v)
		names := make([]runtime.Value, 0, len(items))
		for _, item := range items {
			names = append(names, TypeName(item))
		}
		return runtime.MakeTuple(names...)
	}
	return runtime.String(runtime.Classify(v).String())
}
