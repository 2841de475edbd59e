package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 canonical JSON bytes for a single
// Value, for use in deterministic ordering of multi-valued results (see
// SortByCanonical).
//
// Key differences from plain json.Marshal:
//  1. Strings are NFC normalized before encoding.
//  2. No HTML escaping (<, >, & are left as-is).
//  3. Float is rejected: two floats that print identically need not
//     compare bit-equal, so no encoding is given for them.
//  4. Nil is rejected: an unasserted slot has no canonical form.
func MarshalCanonical(v Value) ([]byte, error) {
	switch val := v.(type) {
	case Nil:
		return nil, fmt.Errorf("ir: nil is forbidden in canonical encoding")
	case Node:
		return marshalCanonicalString(val.String())
	case Keyword:
		return marshalCanonicalString(":" + val.String())
	case String:
		return marshalCanonicalString(string(val))
	case Int:
		return []byte(fmt.Sprintf("%d", int64(val))), nil
	case Bool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case Time:
		return []byte(fmt.Sprintf("%d", int64(val))), nil
	case Float:
		return nil, fmt.Errorf("ir: float is forbidden in canonical encoding: %v", float64(val))
	default:
		return nil, fmt.Errorf("ir: unsupported value type for canonical encoding: %T", v)
	}
}

// MarshalCanonicalTriple encodes a triple as a canonical 3-element JSON
// array "[s,p,o]".
func MarshalCanonicalTriple(t Triple) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range []Value{t.S, t.P, t.O} {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := MarshalCanonical(v)
		if err != nil {
			return nil, fmt.Errorf("triple[%d]: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// marshalCanonicalString produces a canonical JSON string with NFC
// normalization.
//
// CRITICAL: RFC 8785 compliance:
//   - No HTML escaping (<, >, & are NOT escaped).
//   - U+2028 (LINE SEPARATOR) and U+2029 (PARAGRAPH SEPARATOR) are NOT
//     escaped.
//   - Only control characters (U+0000-U+001F), backslash, and quote are
//     escaped.
func marshalCanonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // CRITICAL: <, >, & must NOT be escaped
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}

	result = unescapeU2028U2029(result)

	return result, nil
}

// unescapeU2028U2029 converts   and   escape sequences to literal
// characters per RFC 8785, preserving \\u2028/\\u2029 (an escaped backslash
// followed by the literal text "u2028"/"u2029").
func unescapeU2028U2029(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	var result []byte
	i := 0
	for i < len(data) {
		if i+6 <= len(data) && data[i] == '\\' && data[i+1] == 'u' && data[i+2] == '2' && data[i+3] == '0' && data[i+4] == '2' {
			if data[i+5] == '8' || data[i+5] == '9' {
				actualBackslashes := 0
				if result == nil {
					for j := i - 1; j >= 0 && data[j] == '\\'; j-- {
						actualBackslashes++
					}
				} else {
					for j := len(result) - 1; j >= 0 && result[j] == '\\'; j-- {
						actualBackslashes++
					}
				}

				if actualBackslashes%2 == 0 {
					if result == nil {
						result = make([]byte, 0, len(data))
						result = append(result, data[:i]...)
					}
					if data[i+5] == '8' {
						result = append(result, "\u2028"...)
					} else {
						result = append(result, "\u2029"...)
					}
					i += 6
					continue
				}
			}
		}

		if result != nil {
			result = append(result, data[i])
		}
		i++
	}

	if result == nil {
		return data
	}
	return result
}

// SortByCanonical returns a copy of vs ordered by their canonical encoding
// (RFC 8785 UTF-16 code-unit ordering of the encoded bytes interpreted as a
// string). Used to give deterministic output order to otherwise-unordered
// multi-valued results (e.g. entity materialization of a cardinality-many
// attribute), without claiming any domain meaning for the order.
//
// Values that fail to canonicalize (Nil, Float) sort last, in input order,
// since they carry no canonical byte form to compare by.
func SortByCanonical(vs []Value) []Value {
	type keyed struct {
		v   Value
		key []uint16
		ok  bool
	}
	ks := make([]keyed, len(vs))
	for i, v := range vs {
		b, err := MarshalCanonical(v)
		if err != nil {
			ks[i] = keyed{v: v, ok: false}
			continue
		}
		ks[i] = keyed{v: v, key: utf16.Encode([]rune(string(b))), ok: true}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].ok != ks[j].ok {
			return ks[i].ok // ok entries sort before not-ok
		}
		if !ks[i].ok {
			return false
		}
		return compareUTF16(ks[i].key, ks[j].key) < 0
	})
	out := make([]Value, len(ks))
	for i, k := range ks {
		out[i] = k.v
	}
	return out
}

// compareUTF16 compares two UTF-16 code-unit sequences lexicographically,
// per RFC 8785 §3.2.3's key-ordering rule.
func compareUTF16(a, b []uint16) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
