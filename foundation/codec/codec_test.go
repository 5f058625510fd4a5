// File: codec_test.go
// Title: Codec Tests
// Description: Tests for ordered decoding, encoding and protobuf conversion.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package codec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/types/known/structpb"

	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/utils/objx"
)

func nested(t *testing.T, obj *objx.Object, key string) *objx.Object {
	t.Helper()
	v, ok := obj.GetOwn(key)
	if !ok {
		t.Fatalf("key %q missing", key)
	}
	child, ok := v.(*objx.Object)
	if !ok {
		t.Fatalf("key %q is %T, want *objx.Object", key, v)
	}
	return child
}

func TestDecodePreservesOrder(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		doc    string
	}{
		{"json", FormatJSON, `{"zeta": 1, "alpha": {"y": true, "x": null}, "mid": [1, 2.5, "s"]}`},
		{"yaml", FormatYAML, "zeta: 1\nalpha:\n  y: true\n  x: null\nmid: [1, 2.5, s]\n"},
		{"toml", FormatTOML, "zeta = 1\nmid = [1, 2.5, \"s\"]\n\n[alpha]\ny = true\nx = \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := Decode([]byte(tt.doc), tt.format)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			want := []string{"zeta", "alpha", "mid"}
			if tt.format == FormatTOML {
				want = []string{"zeta", "mid", "alpha"}
			}
			if diff := cmp.Diff(want, objx.Keys(obj)); diff != "" {
				t.Errorf("top-level keys (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"y", "x"}, objx.Keys(nested(t, obj, "alpha"))); diff != "" {
				t.Errorf("nested keys (-want +got):\n%s", diff)
			}

			zeta, _ := obj.GetOwn("zeta")
			if zeta != 1 {
				t.Errorf("zeta = %#v, want int 1", zeta)
			}
			mid, _ := obj.GetOwn("mid")
			if diff := cmp.Diff([]any{1, 2.5, "s"}, mid); diff != "" {
				t.Errorf("mid (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeJSONDuplicateKeys(t *testing.T) {
	obj, err := DecodeJSON([]byte(`{"a": 1, "b": 2, "a": 3}`))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if got := obj.String(); got != "{a: 3, b: 2}" {
		t.Errorf("DecodeJSON() = %s, want {a: 3, b: 2}", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		doc    string
		code   mdwerror.Code
	}{
		{"json syntax", FormatJSON, `{"a": }`, mdwerror.CodeParseError},
		{"json trailing", FormatJSON, `{"a": 1} {}`, mdwerror.CodeParseError},
		{"json array root", FormatJSON, `[1, 2]`, mdwerror.CodeInvalidFormat},
		{"yaml scalar root", FormatYAML, `just text`, mdwerror.CodeInvalidFormat},
		{"yaml syntax", FormatYAML, "a: [1, 2", mdwerror.CodeParseError},
		{"toml syntax", FormatTOML, "a = ", mdwerror.CodeParseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc), tt.format)
			if !mdwerror.HasCode(err, tt.code) {
				t.Errorf("Decode() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestDecodeEmptyYAML(t *testing.T) {
	obj, err := DecodeYAML(nil)
	if err != nil {
		t.Fatalf("DecodeYAML(nil) error = %v", err)
	}
	if objx.Count(obj) != 0 {
		t.Errorf("Count() = %d, want 0", objx.Count(obj))
	}
}

func TestDecodeTOMLArrayOfTables(t *testing.T) {
	doc := "title = \"t\"\n\n[[items]]\nname = \"b\"\nid = 2\n\n[[items]]\nname = \"a\"\nid = 1\n"
	obj, err := DecodeTOML([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeTOML() error = %v", err)
	}

	items, _ := obj.GetOwn("items")
	list, ok := items.([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("items = %#v, want two tables", items)
	}
	first := list[0].(*objx.Object)
	if diff := cmp.Diff([]string{"id", "name"}, objx.Keys(first)); diff != "" {
		t.Errorf("table keys (-want +got):\n%s", diff)
	}
}

func TestEncodeKeepsOrder(t *testing.T) {
	obj := objx.NewObject().
		Set("zeta", 1).
		Set("alpha", objx.NewObject().Set("y", true).Set("x", "s"))

	jsonOut, err := EncodeJSON(obj, false)
	if err != nil {
		t.Fatalf("EncodeJSON() error = %v", err)
	}
	if got := string(jsonOut); got != `{"zeta":1,"alpha":{"y":true,"x":"s"}}` {
		t.Errorf("EncodeJSON() = %s", got)
	}

	yamlOut, err := EncodeYAML(obj)
	if err != nil {
		t.Fatalf("EncodeYAML() error = %v", err)
	}
	if got := string(yamlOut); got != "zeta: 1\nalpha:\n    y: true\n    x: s\n" {
		t.Errorf("EncodeYAML() = %q", got)
	}

	back, err := DecodeYAML(yamlOut)
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}
	if !back.Equal(obj) {
		t.Errorf("YAML round trip = %s, want %s", back, obj)
	}
}

func TestEncodeTOML(t *testing.T) {
	obj := objx.NewObject().Set("name", "x").Set("server", objx.NewObject().Set("port", 8080))

	out, err := EncodeTOML(obj)
	if err != nil {
		t.Fatalf("EncodeTOML() error = %v", err)
	}
	back, err := DecodeTOML(out)
	if err != nil {
		t.Fatalf("DecodeTOML() error = %v\n%s", err, out)
	}
	if !back.Equal(obj) {
		t.Errorf("TOML round trip = %s, want %s", back, obj)
	}
}

func TestStructConversion(t *testing.T) {
	obj := objx.NewObject().
		Set("b", 2).
		Set("a", objx.NewObject().Set("list", []any{1, "two", nil})).
		Set("c", 1.5)

	s, err := ToStruct(obj)
	if err != nil {
		t.Fatalf("ToStruct() error = %v", err)
	}

	back := FromStruct(s)
	if diff := cmp.Diff([]string{"b", "a", "c"}, objx.Keys(back)); diff != "" {
		t.Errorf("FromStruct() keys (-want +got):\n%s", diff)
	}
	if !back.Equal(obj) {
		t.Errorf("FromStruct(ToStruct()) = %s, want %s", back, obj)
	}

	if _, err := ToStruct(objx.NewObject().Set("ch", make(chan int))); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("ToStruct(chan) error = %v, want INVALID_INPUT", err)
	}
}

func TestStructConversion_KeepsOrder(t *testing.T) {
	obj := objx.NewObject().
		Set("z", 2).
		Set("a", 3).
		Set("nested", objx.NewObject().Set("y", 1).Set("x", 2)).
		Set("list", []any{objx.NewObject().Set("q", 1).Set("p", 2)})

	s, err := ToStruct(obj)
	if err != nil {
		t.Fatalf("ToStruct() error = %v", err)
	}
	back := FromStruct(s)

	if diff := cmp.Diff([]string{"z", "a", "nested", "list"}, objx.Keys(back)); diff != "" {
		t.Errorf("top-level keys (-want +got):\n%s", diff)
	}
	nested, _ := back.GetOwn("nested")
	if diff := cmp.Diff([]string{"y", "x"}, objx.Keys(nested.(*objx.Object))); diff != "" {
		t.Errorf("nested keys (-want +got):\n%s", diff)
	}
	list, _ := back.GetOwn("list")
	inList := list.([]any)[0].(*objx.Object)
	if diff := cmp.Diff([]string{"q", "p"}, objx.Keys(inList)); diff != "" {
		t.Errorf("keys of object in list (-want +got):\n%s", diff)
	}
}

func TestStructConversion_UserKeysNamedLikeTheWireForm(t *testing.T) {
	obj := objx.NewObject().
		Set("values", []any{1}).
		Set("keys", []any{"k"})

	s, err := ToStruct(obj)
	if err != nil {
		t.Fatalf("ToStruct() error = %v", err)
	}
	back := FromStruct(s)
	if diff := cmp.Diff([]string{"values", "keys"}, objx.Keys(back)); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	if !back.Equal(obj) {
		t.Errorf("FromStruct(ToStruct()) = %s, want %s", back, obj)
	}
}

func TestFromStruct_PlainStructSorted(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{"b": 1.0, "a": "x"})
	if err != nil {
		t.Fatalf("NewStruct() error = %v", err)
	}
	back := FromStruct(s)
	if diff := cmp.Diff([]string{"a", "b"}, objx.Keys(back)); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	if v, _ := back.GetOwn("b"); v != 1 {
		t.Errorf("b = %v (%T), want int 1", v, v)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yml")
	if err := os.WriteFile(path, []byte("b: 1\na: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	obj, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got := strings.Join(objx.Keys(obj), ","); got != "b,a" {
		t.Errorf("keys = %s, want b,a", got)
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.json")); !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("ReadFile(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.json": FormatJSON,
		"a.YAML": FormatYAML,
		"a.yml":  FormatYAML,
		"a.toml": FormatTOML,
		"a":      FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %v, want %v", path, got, want)
		}
	}
}
