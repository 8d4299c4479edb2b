package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// PhotoEvidenceKey is the only metadata key with a known structure.
const PhotoEvidenceKey = "photoEvidence"

// Metadata is an ordered JSON object whose values are kept as raw JSON.
//
// Values are never decoded except for PhotoEvidenceKey, so numbers, nested
// objects and unknown fields survive storage without coercion. Keys keep the
// order they were first seen in.
type Metadata struct {
	keys   []string
	values map[string]json.RawMessage
}

// Len returns the number of keys.
func (m Metadata) Len() int {
	return len(m.keys)
}

// Keys returns the keys in document order.
func (m Metadata) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Get returns the raw value for key.
func (m Metadata) Get(key string) (json.RawMessage, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores raw under key. An existing key keeps its position.
func (m *Metadata) Set(key string, raw json.RawMessage) error {
	if !json.Valid(raw) {
		return fmt.Errorf("metadata %q: invalid JSON value", key)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return fmt.Errorf("metadata %q: %w", key, err)
	}
	if m.values == nil {
		m.values = make(map[string]json.RawMessage)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = json.RawMessage(buf.Bytes())
	return nil
}

// SetValue marshals v and stores it under key. Strings are written without
// HTML escaping, the same bytes a decoded document carries.
func (m *Metadata) SetValue(key string, v any) error {
	raw, err := EncodeJSON(v)
	if err != nil {
		return fmt.Errorf("metadata %q: %w", key, err)
	}
	return m.Set(key, raw)
}

// EncodeJSON marshals v like json.Marshal but leaves <, > and & unescaped, so
// raw metadata values are written back exactly as they were read.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// CheckNumbers rejects numbers whose value changes when read as an IEEE 754
// double, the number model of the canonical form anchored on the ledger.
func (m Metadata) CheckNumbers() error {
	for _, k := range m.keys {
		dec := json.NewDecoder(bytes.NewReader(m.values[k]))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("metadata %q: %w", k, err)
		}
		if err := checkNumbers(k, v); err != nil {
			return err
		}
	}
	return nil
}

func checkNumbers(path string, v any) error {
	switch t := v.(type) {
	case json.Number:
		if !exactDouble(string(t)) {
			return fmt.Errorf("metadata %s: number %s cannot be represented exactly", path, t)
		}
	case map[string]any:
		for k, child := range t {
			if err := checkNumbers(path+"."+k, child); err != nil {
				return err
			}
		}
	case []any:
		for i, child := range t {
			if err := checkNumbers(fmt.Sprintf("%s[%d]", path, i), child); err != nil {
				return err
			}
		}
	}
	return nil
}

// exactDouble reports whether the literal and its shortest double rendering
// denote the same decimal value.
func exactDouble(lit string) bool {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsInf(f, 0) {
		return false
	}
	if f == 0 {
		mantissa, _, _ := strings.Cut(strings.ToLower(lit), "e")
		return strings.Trim(mantissa, "-+0.") == ""
	}
	want, ok := new(big.Rat).SetString(lit)
	if !ok {
		return false
	}
	got, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'g', -1, 64))
	return ok && want.Cmp(got) == 0
}

// Clone returns a deep copy.
func (m Metadata) Clone() Metadata {
	out := Metadata{
		keys:   append([]string(nil), m.keys...),
		values: make(map[string]json.RawMessage, len(m.values)),
	}
	for k, v := range m.values {
		out.values[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// Equal reports structural equality: same key set and identical values.
// Key order is ignored.
func (m Metadata) Equal(other Metadata) bool {
	if len(m.keys) != len(other.keys) {
		return false
	}
	for k, v := range m.values {
		ov, ok := other.values[k]
		if !ok || !bytes.Equal(v, ov) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the object in key order.
func (m Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(m.values[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping key order and raw values.
// A JSON null yields an empty document.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	*m = Metadata{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("metadata must be a JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("metadata key must be a string")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("metadata %q: %w", key, err)
		}
		if err := m.Set(key, raw); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// PhotoEvidence decodes the reserved photoEvidence key. ok is false when the
// key is absent.
func (m Metadata) PhotoEvidence() (evidence []PhotoEvidence, ok bool, err error) {
	raw, ok := m.values[PhotoEvidenceKey]
	if !ok {
		return nil, false, nil
	}
	if bytes.Equal(raw, []byte("null")) {
		return nil, true, fmt.Errorf("%s must be an array", PhotoEvidenceKey)
	}
	if err := json.Unmarshal(raw, &evidence); err != nil {
		return nil, true, fmt.Errorf("%s must be an array of evidence objects: %w", PhotoEvidenceKey, err)
	}
	for i, e := range evidence {
		if e.NID == "" {
			return nil, true, fmt.Errorf("%s[%d].nid is required", PhotoEvidenceKey, i)
		}
	}
	return evidence, true, nil
}

// WithPhotoEvidence returns a copy whose photoEvidence holds any existing
// entries followed by extra. Existing raw entries are kept verbatim.
func (m Metadata) WithPhotoEvidence(extra []PhotoEvidence) (Metadata, error) {
	out := m.Clone()
	if len(extra) == 0 {
		return out, nil
	}

	var entries []json.RawMessage
	if raw, ok := m.values[PhotoEvidenceKey]; ok {
		if err := json.Unmarshal(raw, &entries); err != nil {
			return Metadata{}, fmt.Errorf("%s must be an array: %w", PhotoEvidenceKey, err)
		}
	}
	for _, e := range extra {
		raw, err := json.Marshal(e)
		if err != nil {
			return Metadata{}, err
		}
		entries = append(entries, raw)
	}
	if err := out.SetValue(PhotoEvidenceKey, entries); err != nil {
		return Metadata{}, err
	}
	return out, nil
}
