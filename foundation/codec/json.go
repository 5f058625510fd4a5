// File: json.go
// Title: Ordered JSON Codec
// Description: Decodes JSON objects into property maps in document order
//              using the token stream of encoding/json.
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
	"encoding/json"
	"errors"
	"io"
	"math"

	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/utils/objx"
)

// DecodeJSON decodes a JSON object. Duplicate keys keep their first position
// and their last value.
func DecodeJSON(data []byte) (*objx.Object, error) {
	const op = "codec.DecodeJSON"

	value, err := DecodeJSONValue(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	obj, ok := value.(*objx.Object)
	if !ok {
		return nil, mdwerror.New("top-level JSON value must be an object").
			WithCode(mdwerror.CodeInvalidFormat).
			WithOperation(op)
	}
	return obj, nil
}

// DecodeJSONValue decodes exactly one JSON value of any kind from r
func DecodeJSONValue(r io.Reader) (any, error) {
	const op = "codec.DecodeJSONValue"

	dec := json.NewDecoder(r)
	dec.UseNumber()

	value, err := decodeJSONValue(dec)
	if err != nil {
		return nil, mdwerror.Wrap(err, "invalid JSON").
			WithCode(mdwerror.CodeParseError).
			WithOperation(op).
			WithDetail("offset", dec.InputOffset())
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, mdwerror.New("unexpected data after JSON value").
			WithCode(mdwerror.CodeParseError).
			WithOperation(op).
			WithDetail("offset", dec.InputOffset())
	}
	return value, nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := objx.NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				value, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(keyTok.(string), value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := []any{}
			for dec.More() {
				value, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		default:
			return nil, errors.New("unexpected delimiter " + t.String())
		}
	case json.Number:
		return jsonNumber(t)
	default:
		return t, nil
	}
}

func jsonNumber(n json.Number) (any, error) {
	if i, err := n.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, err
	}
	return normalizeFloat(f), nil
}

// EncodeJSON encodes subject with keys in order, indented when pretty is set
func EncodeJSON(subject *objx.Object, pretty bool) ([]byte, error) {
	data, err := subject.MarshalJSON()
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode JSON").
			WithCode(mdwerror.CodeInvalidFormat).
			WithOperation("codec.EncodeJSON")
	}
	if !pretty {
		return data, nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, mdwerror.Wrap(err, "failed to indent JSON").
			WithCode(mdwerror.CodeInternal).
			WithOperation("codec.EncodeJSON")
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
