// File: codec.go
// Title: Property Map Codecs
// Description: Format detection, dispatch and native value conversion for
//              decoding documents into ordered property maps and encoding
//              them back.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package codec

import (
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/utils/objx"
)

// Format identifies a document encoding
type Format int

const (
	// FormatJSON is the default when nothing else matches
	FormatJSON Format = iota
	FormatYAML
	FormatTOML
)

// String returns the lower-case format name
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "json"
	}
}

// ParseFormat parses a format name as used on the command line
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return FormatJSON, mdwerror.Newf("unknown format %q", name).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("codec.ParseFormat")
	}
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Decode decodes a document whose top level is a mapping
func Decode(data []byte, format Format) (*objx.Object, error) {
	switch format {
	case FormatYAML:
		return DecodeYAML(data)
	case FormatTOML:
		return DecodeTOML(data)
	default:
		return DecodeJSON(data)
	}
}

// Encode encodes subject in the given format. JSON and YAML keep key order;
// TOML tables are written with sorted keys.
func Encode(subject *objx.Object, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return EncodeYAML(subject)
	case FormatTOML:
		return EncodeTOML(subject)
	default:
		return EncodeJSON(subject, true)
	}
}

// ReadFile decodes the file at path using the format of its extension
func ReadFile(path string) (*objx.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to read document").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("codec.ReadFile").
			WithDetail("path", path)
	}

	obj, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to decode "+filepath.Base(path)).
			WithDetail("path", path)
	}
	return obj, nil
}

// FromNative converts decoded Go values into the property map model.
// Nested map[string]any become objects with sorted keys, since Go maps carry
// no order, and integral numbers become int.
func FromNative(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := objx.NewWithCapacity[any](len(keys))
		for _, k := range keys {
			obj.Set(k, FromNative(t[k]))
		}
		return obj
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = FromNative(m)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = FromNative(e)
		}
		return out
	case int64:
		if t >= math.MinInt && t <= math.MaxInt {
			return int(t)
		}
		return t
	case float64:
		return normalizeFloat(t)
	default:
		return v
	}
}

// ToNative converts nested objects to map[string]any, dropping key order
func ToNative(v any) any {
	switch t := v.(type) {
	case *objx.Object:
		out := make(map[string]any, objx.Count(t))
		objx.ForEachPair(t, func(key string, value any) objx.Step {
			out[key] = ToNative(value)
			return objx.Continue
		})
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = ToNative(e)
		}
		return out
	default:
		return v
	}
}

// normalizeFloat returns integral floats as int so arithmetic such as
// modulo works on values that came from untyped number encodings
func normalizeFloat(f float64) any {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 && !math.IsInf(f, 0) {
		return int(f)
	}
	return f
}
