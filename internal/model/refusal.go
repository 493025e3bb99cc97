package model

import (
	"bytes"
	"encoding/json"
)

// ChargesKey is the reserved field name under which a refusal's charges
// are stored. It always exists in a serialized RefusalRecord, even when
// the charge list is empty.
const ChargesKey = "charges"

// RefusalRecord is one import-refusal record extracted from a detail page.
// It pairs the page's dynamically discovered fields with the charges parsed
// from the embedded charges sub-table.
//
// All charges extracted from the same detail page share one key set: the
// header row of the charges table.
type RefusalRecord struct {
	// SourceURL is the URL of the detail page the record came from.
	SourceURL string

	// Fields holds the refusal's field name/value pairs in page order.
	Fields *Record

	// Charges holds one Record per charge row, in row order.
	Charges []*Record
}

// NewRefusalRecord creates an empty RefusalRecord for the given page URL.
// Charges is non-nil so that the reserved key serializes as an empty list
// rather than null.
func NewRefusalRecord(sourceURL string) *RefusalRecord {
	return &RefusalRecord{
		SourceURL: sourceURL,
		Fields:    NewRecord(),
		Charges:   make([]*Record, 0),
	}
}

// MarshalJSON serializes the refusal as a single JSON object: the fields in
// page order followed by the reserved "charges" key.
func (r *RefusalRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, key := range r.Fields.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.Fields.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	if r.Fields.Len() > 0 {
		buf.WriteByte(',')
	}

	charges := r.Charges
	if charges == nil {
		charges = make([]*Record, 0)
	}
	c, err := json.Marshal(charges)
	if err != nil {
		return nil, err
	}
	k, err := json.Marshal(ChargesKey)
	if err != nil {
		return nil, err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(c)

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
