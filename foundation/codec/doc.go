// File: doc.go
// Title: Package Documentation for codec
// Description: Package codec converts documents and protobuf messages into
//              ordered property maps and back.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial documentation

// Package codec converts JSON, YAML and TOML documents into ordered
// *objx.Object values and encodes them back.
//
// Decoders keep the key order of the source document. Nested mappings
// become nested objects, sequences become []any and integral numbers
// become int, so decoded values behave the same regardless of the source
// format.
//
// ToStruct and FromStruct bridge to google.protobuf.Struct. Protobuf maps
// are unordered, so FromStruct sorts keys.
package codec
