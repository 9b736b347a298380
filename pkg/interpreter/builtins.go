package interpreter

import (
	"context"
	"math"

	"swan/interpreter-go/pkg/operations"
	"swan/interpreter-go/pkg/runtime"
)

// builtinImpl maps the kind of a built-in's first argument to its
// implementation. The Anything key is the fallback.
type builtinImpl map[runtime.Kind]func(ctx context.Context, arg runtime.Value) (runtime.Value, error)

// builtin adapts impl to a function value. Its arguments are combined into
// one normalized value, so f(a, b) and f((a, b)) behave alike.
func builtin(name string, impl builtinImpl) *runtime.FunctionValue {
	return runtime.NewFunction(name, func(ctx context.Context, args []runtime.Value) (runtime.Value, error) {
		arg := runtime.Normalize(runtime.MakeTuple(args...))
		kind := runtime.KindNothing
		if items := runtime.Items(arg); len(items) > 0 {
			kind = runtime.Classify(items[0])
		}
		fn, ok := impl[kind]
		if !ok {
			fn, ok = impl[operations.Anything]
		}
		if !ok {
			return nil, &runtime.TypeError{Operation: name, Got: kind}
		}
		return fn(ctx, arg)
	})
}

func (i *Interpreter) defineBuiltins(scope *runtime.Context) {
	for name, fn := range builtinFunctions() {
		scope.Define(name, fn)
	}
}

func builtinFunctions() map[string]*runtime.FunctionValue {
	sized := func(_ context.Context, arg runtime.Value) (runtime.Value, error) {
		return operations.Size(arg)
	}
	return map[string]*runtime.FunctionValue{
		"bool": builtin("bool", builtinImpl{
			operations.Anything: func(_ context.Context, arg runtime.Value) (runtime.Value, error) {
				return runtime.Bool(operations.Truthy(arg)), nil
			},
		}),
		"not": builtin("not", builtinImpl{
			operations.Anything: func(_ context.Context, arg runtime.Value) (runtime.Value, error) {
				return runtime.Bool(!operations.Truthy(arg)), nil
			},
		}),
		"str": builtin("str", builtinImpl{
			operations.Anything: func(_ context.Context, arg runtime.Value) (runtime.Value, error) {
				return runtime.String(operations.Str(arg)), nil
			},
		}),
		"type": builtin("type", builtinImpl{
			operations.Anything: func(_ context.Context, arg runtime.Value) (runtime.Value, error) {
				return operations.TypeName(arg), nil
			},
		}),
		"size": builtin("size", builtinImpl{
			runtime.KindNothing:   sized,
			runtime.KindString:    sized,
			runtime.KindList:      sized,
			runtime.KindNamespace: sized,
		}),
		"enum": builtin("enum", builtinImpl{
			operations.Anything: func(_ context.Context, arg runtime.Value) (runtime.Value, error) {
				return runtime.MakeTuple(runtime.Enumerate(arg)...), nil
			},
		}),
		"range": builtin("range", builtinImpl{
			runtime.KindNothing: func(context.Context, runtime.Value) (runtime.Value, error) {
				return runtime.Nothing, nil
			},
			runtime.KindNumber: func(_ context.Context, arg runtime.Value) (runtime.Value, error) {
				n := runtime.Items(arg)[0].(runtime.NumberValue).Val
				if math.IsInf(n, 0) {
					return nil, &runtime.TypeError{Operation: "range", Got: runtime.KindNumber}
				}
				if n > runtime.MaxCollectionSize {
					return nil, &runtime.LimitError{Operation: "range", Size: math.Trunc(n)}
				}
				count := int(math.Trunc(n))
				items := make([]runtime.Value, 0, max(count, 0))
				for k := 0; k < count; k++ {
					items = append(items, runtime.Number(float64(k)))
				}
				return runtime.MakeTuple(items...), nil
			},
		}),
		"map": builtin("map", builtinImpl{
			runtime.KindFunction: curried("map", mapCollection),
		}),
		"filter": builtin("filter", builtinImpl{
			runtime.KindFunction: curried("filter", filterCollection),
		}),
		"reduce": builtin("reduce", builtinImpl{
			runtime.KindFunction: curried("reduce", reduceCollection),
		}),
		"error": builtin("error", builtinImpl{
			runtime.KindString: func(_ context.Context, arg runtime.Value) (runtime.Value, error) {
				return nil, &runtime.RaisedError{Message: operations.Str(arg)}
			},
		}),
	}
}

// curried builds the function-first form of map, filter and reduce: the
// first item is the function, and the returned function takes the
// collection. Items after the function are passed on at once.
func curried(name string, over func(ctx context.Context, fn *runtime.FunctionValue, coll runtime.Value) (runtime.Value, error)) func(context.Context, runtime.Value) (runtime.Value, error) {
	return func(ctx context.Context, arg runtime.Value) (runtime.Value, error) {
		items := runtime.Items(arg)
		fn := items[0].(*runtime.FunctionValue)
		partial := runtime.NewFunction(name, func(ctx context.Context, args []runtime.Value) (runtime.Value, error) {
			return over(ctx, fn, runtime.Normalize(runtime.MakeTuple(args...)))
		})
		if len(items) == 1 {
			return partial, nil
		}
		return partial.Call(ctx, runtime.MakeTuple(items[1:]...))
	}
}

func mapCollection(ctx context.Context, fn *runtime.FunctionValue, coll runtime.Value) (runtime.Value, error) {
	switch c := coll.(type) {
	case runtime.ListValue:
		out := runtime.NewList()
		for _, el := range c.Elements() {
			v, err := fn.Call(ctx, el)
			if err != nil {
				return nil, err
			}
			out = out.Append(v)
		}
		return out, nil
	case *runtime.NamespaceValue:
		out := runtime.NewNamespace()
		for _, k := range c.Keys() {
			el, _ := c.Get(k)
			v, err := fn.Call(ctx, el)
			if err != nil {
				return nil, err
			}
			out.Set(k, v)
		}
		return out, nil
	}
	items := runtime.Items(coll)
	results := make([]runtime.Value, 0, len(items))
	for _, item := range items {
		v, err := fn.Call(ctx, item)
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return runtime.MakeTuple(results...), nil
}

func filterCollection(ctx context.Context, fn *runtime.FunctionValue, coll runtime.Value) (runtime.Value, error) {
	keep := func(v runtime.Value) (bool, error) {
		r, err := fn.Call(ctx, v)
		if err != nil {
			return false, err
		}
		return operations.Truthy(r), nil
	}
	switch c := coll.(type) {
	case runtime.ListValue:
		out := runtime.NewList()
		for _, el := range c.Elements() {
			ok, err := keep(el)
			if err != nil {
				return nil, err
			}
			if ok {
				out = out.Append(el)
			}
		}
		return out, nil
	case *runtime.NamespaceValue:
		out := runtime.NewNamespace()
		for _, k := range c.Keys() {
			el, _ := c.Get(k)
			ok, err := keep(el)
			if err != nil {
				return nil, err
			}
			if ok {
				out.Set(k, el)
			}
		}
		return out, nil
	}
	var results []runtime.Value
	for _, item := range runtime.Items(coll) {
		ok, err := keep(item)
		if err != nil {
			return nil, err
		}
		if ok {
			results = append(results, item)
		}
	}
	return runtime.MakeTuple(results...), nil
}

// reduceCollection folds list elements, or the items of any other value,
// from the left seeded with the first one.
func reduceCollection(ctx context.Context, fn *runtime.FunctionValue, coll runtime.Value) (runtime.Value, error) {
	var values []runtime.Value
	if list, ok := coll.(runtime.ListValue); ok {
		values = list.Elements()
	} else {
		values = runtime.Items(coll)
	}
	if len(values) == 0 {
		return runtime.Nothing, nil
	}
	acc := values[0]
	for _, v := range values[1:] {
		next, err := fn.Call(ctx, runtime.MakeTuple(acc, v))
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}
