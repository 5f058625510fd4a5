// File: proto.go
// Title: Protobuf Struct Conversion
// Description: Converts property maps to and from google.protobuf.Struct for
//              transport over gRPC.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: Ordered Struct form

package codec

import (
	"sort"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/utils/objx"
)

// Struct fields are a map, so an object travels as a Struct with two list
// fields: "keys" holds the own keys in order and "values" the matching
// values. FromStruct also accepts a plain Struct and then orders its keys by
// name.
const (
	fieldKeys   = "keys"
	fieldValues = "values"
)

// ToStruct converts subject into its ordered protobuf Struct form
func ToStruct(subject *objx.Object) (*structpb.Struct, error) {
	n := objx.Count(subject)
	keys := &structpb.ListValue{Values: make([]*structpb.Value, 0, n)}
	values := &structpb.ListValue{Values: make([]*structpb.Value, 0, n)}

	var convErr error
	objx.ForEachPair(subject, func(key string, value any) objx.Step {
		pv, err := ToValue(value)
		if err != nil {
			convErr = mdwerror.Wrap(err, "failed to convert key "+key).
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("codec.ToStruct").
				WithDetail("key", key)
			return objx.Stop
		}
		keys.Values = append(keys.Values, structpb.NewStringValue(key))
		values.Values = append(values.Values, pv)
		return objx.Continue
	})
	if convErr != nil {
		return nil, convErr
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldKeys:   structpb.NewListValue(keys),
		fieldValues: structpb.NewListValue(values),
	}}, nil
}

// ToValue converts a single property value into a protobuf Value
func ToValue(v any) (*structpb.Value, error) {
	switch t := v.(type) {
	case *objx.Object:
		s, err := ToStruct(t)
		if err != nil {
			return nil, err
		}
		return structpb.NewStructValue(s), nil
	case []any:
		list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(t))}
		for _, e := range t {
			pv, err := ToValue(e)
			if err != nil {
				return nil, err
			}
			list.Values = append(list.Values, pv)
		}
		return structpb.NewListValue(list), nil
	case time.Time:
		return structpb.NewStringValue(t.Format(time.RFC3339Nano)), nil
	default:
		return structpb.NewValue(v)
	}
}

// FromStruct converts a protobuf Struct into an object. The ordered form
// written by ToStruct keeps its key order; any other Struct gets its keys
// sorted.
func FromStruct(s *structpb.Struct) *objx.Object {
	if keys, values, ok := orderedFields(s); ok {
		obj := objx.NewWithCapacity[any](len(keys))
		for i, k := range keys {
			obj.Set(k, FromValue(values[i]))
		}
		return obj
	}

	fields := s.GetFields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	obj := objx.NewWithCapacity[any](len(keys))
	for _, k := range keys {
		obj.Set(k, FromValue(fields[k]))
	}
	return obj
}

func orderedFields(s *structpb.Struct) ([]string, []*structpb.Value, bool) {
	fields := s.GetFields()
	if len(fields) != 2 {
		return nil, nil, false
	}
	keyList := fields[fieldKeys].GetListValue()
	valueList := fields[fieldValues].GetListValue()
	if keyList == nil || valueList == nil || len(keyList.GetValues()) != len(valueList.GetValues()) {
		return nil, nil, false
	}

	keys := make([]string, len(keyList.GetValues()))
	for i, k := range keyList.GetValues() {
		str, ok := k.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, nil, false
		}
		keys[i] = str.StringValue
	}
	return keys, valueList.GetValues(), true
}

// FromValue converts a protobuf Value into the property map model
func FromValue(v *structpb.Value) any {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StructValue:
		return FromStruct(k.StructValue)
	case *structpb.Value_ListValue:
		values := k.ListValue.GetValues()
		out := make([]any, len(values))
		for i, e := range values {
			out[i] = FromValue(e)
		}
		return out
	case *structpb.Value_NumberValue:
		return normalizeFloat(k.NumberValue)
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_BoolValue:
		return k.BoolValue
	default:
		return nil
	}
}
