// File: yaml.go
// Title: Ordered YAML Codec
// Description: Decodes YAML mappings into property maps through the yaml.v3
//              node tree so document order survives, and encodes maps back
//              as ordered mapping nodes.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package codec

import (
	"fmt"

	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/utils/objx"
)

// DecodeYAML decodes a YAML document whose root is a mapping. An empty
// document decodes to an empty object.
func DecodeYAML(data []byte) (*objx.Object, error) {
	const op = "codec.DecodeYAML"

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, mdwerror.Wrap(err, "invalid YAML").
			WithCode(mdwerror.CodeParseError).
			WithOperation(op)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return objx.NewObject(), nil
	}

	value, err := yamlValue(doc.Content[0])
	if err != nil {
		return nil, mdwerror.Wrap(err, "invalid YAML").
			WithCode(mdwerror.CodeParseError).
			WithOperation(op)
	}

	obj, ok := value.(*objx.Object)
	if !ok {
		return nil, mdwerror.New("top-level YAML value must be a mapping").
			WithCode(mdwerror.CodeInvalidFormat).
			WithOperation(op)
	}
	return obj, nil
}

func yamlValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return yamlValue(node.Content[0])
	case yaml.AliasNode:
		return yamlValue(node.Alias)
	case yaml.MappingNode:
		obj := objx.NewWithCapacity[any](len(node.Content) / 2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			value, err := yamlValue(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(keyNode.Value, value)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := yamlValue(child)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		return arr, nil
	case yaml.ScalarNode:
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return FromNative(value), nil
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %d", node.Line, node.Kind)
	}
}

// EncodeYAML encodes subject as a YAML mapping in key order
func EncodeYAML(subject *objx.Object) ([]byte, error) {
	const op = "codec.EncodeYAML"

	node, err := yamlNode(subject)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode YAML").
			WithCode(mdwerror.CodeInvalidFormat).
			WithOperation(op)
	}

	data, err := yaml.Marshal(node)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode YAML").
			WithCode(mdwerror.CodeInvalidFormat).
			WithOperation(op)
	}
	return data, nil
}

func yamlNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *objx.Object:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		var encErr error
		objx.ForEachPair(t, func(key string, value any) objx.Step {
			child, err := yamlNode(value)
			if err != nil {
				encErr = err
				return objx.Stop
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				child,
			)
			return objx.Continue
		})
		return node, encErr
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range t {
			child, err := yamlNode(e)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, err
		}
		return node, nil
	}
}
