// File: toml.go
// Title: Ordered TOML Codec
// Description: Decodes TOML documents into property maps following the key
//              order reported by the decoder metadata.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package codec

import (
	"bytes"

	"github.com/BurntSushi/toml"

	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/utils/objx"
)

// DecodeTOML decodes a TOML document. Keys follow document order; entries
// the metadata does not list, such as fields inside arrays of tables, are
// appended in sorted order.
func DecodeTOML(data []byte) (*objx.Object, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, mdwerror.Wrap(err, "invalid TOML").
			WithCode(mdwerror.CodeParseError).
			WithOperation("codec.DecodeTOML")
	}

	root := objx.NewObject()
	for _, key := range md.Keys() {
		insertTOMLKey(root, raw, key)
	}
	fillMissing(root, raw)
	return root, nil
}

// insertTOMLKey places the value at key, creating tables along the way.
// Paths that run through a non-table value are covered by that value.
func insertTOMLKey(root *objx.Object, raw map[string]any, key toml.Key) {
	node, src := root, raw
	for i, seg := range key {
		value, ok := src[seg]
		if !ok {
			return
		}

		if table, isTable := value.(map[string]any); isTable {
			existing, _ := node.GetOwn(seg)
			child, isObj := existing.(*objx.Object)
			if !isObj {
				child = objx.NewObject()
				node.Set(seg, child)
			}
			node, src = child, table
			continue
		}

		if i == len(key)-1 && !node.HasOwn(seg) {
			node.Set(seg, FromNative(value))
		}
		return
	}
}

func fillMissing(obj *objx.Object, raw map[string]any) {
	sorted := FromNative(raw).(*objx.Object)
	objx.ForEachPair(sorted, func(key string, value any) objx.Step {
		existing, ok := obj.GetOwn(key)
		if !ok {
			obj.Set(key, value)
			return objx.Continue
		}
		if child, isObj := existing.(*objx.Object); isObj {
			if table, isTable := raw[key].(map[string]any); isTable {
				fillMissing(child, table)
			}
		}
		return objx.Continue
	})
}

// EncodeTOML encodes subject as TOML. Table keys come out sorted.
func EncodeTOML(subject *objx.Object) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(ToNative(subject)); err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode TOML").
			WithCode(mdwerror.CodeInvalidFormat).
			WithOperation("codec.EncodeTOML")
	}
	return buf.Bytes(), nil
}
