package model

import (
	"bytes"
	"encoding/json"
)

// Record is an insertion-ordered mapping from field name to field value.
// Refusal pages do not share a fixed schema: field names are whatever header
// labels appear on the source page, so a dynamic container is used instead
// of a struct.
//
// Design decision: We keep insertion order rather than using a plain map
// because:
//  1. Report output (CSV columns, JSON keys) must be deterministic
//  2. The order of fields on the source page is meaningful to readers
//  3. Positional pairing in charge tables depends on a stable key order
type Record struct {
	// keys holds field names in first-insertion order.
	keys []string

	// values maps field names to their values.
	values map[string]string
}

// NewRecord creates an empty Record.
func NewRecord() *Record {
	return &Record{
		keys:   make([]string, 0),
		values: make(map[string]string),
	}
}

// Set inserts or overwrites a field. On overwrite the field keeps its
// original position; the last value wins.
func (r *Record) Set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key and whether the key is present.
func (r *Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether the key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns the field names in insertion order.
// The returned slice is a copy; mutating it does not affect the Record.
func (r *Record) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.keys)
}

// MarshalJSON serializes the record as a JSON object with keys in
// insertion order. encoding/json's map marshaling sorts keys, which would
// destroy the source-page field order, so we build the object by hand.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores a record from a JSON object. Key order follows
// the order of appearance in the JSON document.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	// Opening brace
	if _, err := dec.Token(); err != nil {
		return err
	}

	r.keys = r.keys[:0]
	if r.values == nil {
		r.values = make(map[string]string)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var value string
		if err := dec.Decode(&value); err != nil {
			return err
		}
		r.Set(key, value)
	}

	// Closing brace
	_, err := dec.Token()
	return err
}
