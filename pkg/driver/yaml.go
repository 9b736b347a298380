package driver

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"swan/interpreter-go/pkg/runtime"
)

// DecodeYAML parses a YAML document into a swan value. Mappings keep their
// key order.
func DecodeYAML(data []byte) (runtime.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	if doc.Kind == 0 {
		return runtime.Nothing, nil
	}
	return ValueFromYAML(&doc)
}

// EncodeYAML renders v as a YAML document.
func EncodeYAML(v runtime.Value) ([]byte, error) {
	node, err := ValueToYAML(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// ValueFromYAML converts a YAML node: mappings become namespaces, sequences
// become lists and null becomes Nothing.
func ValueFromYAML(node *yaml.Node) (runtime.Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return runtime.Nothing, nil
		}
		return ValueFromYAML(node.Content[0])
	case yaml.AliasNode:
		return ValueFromYAML(node.Alias)
	case yaml.MappingNode:
		ns := runtime.NewNamespace()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("yaml: line %d: mapping keys must be scalars", key.Line)
			}
			v, err := ValueFromYAML(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			ns.Set(key.Value, v)
		}
		return ns, nil
	case yaml.SequenceNode:
		elements := make([]runtime.Value, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := ValueFromYAML(item)
			if err != nil {
				return nil, err
			}
			elements = append(elements, v)
		}
		return runtime.NewList(elements...), nil
	case yaml.ScalarNode:
		return scalarFromYAML(node)
	default:
		return nil, fmt.Errorf("yaml: line %d: unsupported node", node.Line)
	}
}

func scalarFromYAML(node *yaml.Node) (runtime.Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return runtime.Nothing, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return runtime.Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		return runtime.Number(f), nil
	default:
		return runtime.String(node.Value), nil
	}
}

// ValueToYAML converts a swan value into a YAML node. Functions have no
// representation; tuples become sequences and Nothing becomes null.
func ValueToYAML(v runtime.Value) (*yaml.Node, error) {
	switch runtime.Classify(v) {
	case runtime.KindNothing:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case runtime.KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.(runtime.BoolValue).Val)}, nil
	case runtime.KindNumber:
		return numberToYAML(v.(runtime.NumberValue).Val), nil
	case runtime.KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.(runtime.StringValue).Val}, nil
	case runtime.KindList:
		return sequenceToYAML(v.(runtime.ListValue).Elements())
	case runtime.KindTuple:
		return sequenceToYAML(runtime.Items(v))
	case runtime.KindNamespace:
		ns := v.(*runtime.NamespaceValue)
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range ns.Keys() {
			val, _ := ns.Get(key)
			child, err := ValueToYAML(val)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			out.Content = append(out.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, child)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("yaml: %s values cannot be serialized", runtime.Classify(v))
	}
}

func sequenceToYAML(items []runtime.Value) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for idx, item := range items {
		child, err := ValueToYAML(item)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", idx, err)
		}
		out.Content = append(out.Content, child)
	}
	return out, nil
}

func numberToYAML(f float64) *yaml.Node {
	switch {
	case math.IsInf(f, 1):
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: ".inf"}
	case math.IsInf(f, -1):
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: "-.inf"}
	}
	text := runtime.FormatNumber(f)
	if f == math.Trunc(f) && !strings.ContainsAny(text, "e") {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: text}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: text}
}
