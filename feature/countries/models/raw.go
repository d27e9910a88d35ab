package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RawName is the nested name object of an API record.
type RawName struct {
	Common   *string `json:"common"`
	Official *string `json:"official"`
}

// RawCountry is one record of the REST countries feed. Every field is
// optional: a nil pointer or nil slice means the key was absent, null or of
// the wrong type. Null list elements are dropped, except in Latlng where a
// nil entry keeps its position.
type RawCountry struct {
	CCA3       *string        `json:"cca3"`
	Name       *RawName       `json:"name"`
	Region     *string        `json:"region"`
	Subregion  *string        `json:"subregion"`
	Capital    []string       `json:"capital"`
	Population *int64         `json:"population"`
	Area       *float64       `json:"area"`
	Latlng     []*float64     `json:"latlng"`
	Timezones  []string       `json:"timezones"`
	Currencies *OrderedObject `json:"currencies"`
	Languages  *OrderedObject `json:"languages"`
}

// RawWebRow is one scraped table row: trimmed cell texts in column order.
// Cell 0 is the country, cell 1 the capital. A nil cell was null in the
// snapshot.
type RawWebRow []*string

// NewRawWebRow builds a row from cell texts.
func NewRawWebRow(cells ...string) RawWebRow {
	row := make(RawWebRow, len(cells))
	for i := range cells {
		row[i] = &cells[i]
	}
	return row
}

// Cell returns a copy of cell i, or nil when the cell is null or missing.
func (r RawWebRow) Cell(i int) *string {
	if i < 0 || i >= len(r) || r[i] == nil {
		return nil
	}
	v := *r[i]
	return &v
}

// Clone returns a deep copy of the row.
func (r RawWebRow) Clone() RawWebRow {
	out := make(RawWebRow, len(r))
	for i := range r {
		out[i] = r.Cell(i)
	}
	return out
}

// OrderedObject is a JSON object that remembers its key order.
// A repeated key keeps its first position and its last value.
type OrderedObject struct {
	Keys   []string
	Values []json.RawMessage
}

// Len returns the number of members.
func (o *OrderedObject) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Keys)
}

// StringValues returns the members whose value is a JSON string, in order.
func (o *OrderedObject) StringValues() []string {
	if o == nil {
		return nil
	}
	out := make([]string, 0, len(o.Values))
	for _, raw := range o.Values {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OrderedObject) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	pos := make(map[string]int)
	keys := make([]string, 0)
	values := make([]json.RawMessage, 0)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("member %q: %w", key, err)
		}

		if i, seen := pos[key]; seen {
			values[i] = raw
			continue
		}
		pos[key] = len(keys)
		keys = append(keys, key)
		values = append(values, raw)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	o.Keys = keys
	o.Values = values
	return nil
}

// MarshalJSON implements json.Marshaler, keeping the key order.
func (o OrderedObject) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range o.Keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		if i >= len(o.Values) || len(o.Values[i]) == 0 {
			b.WriteString("null")
			continue
		}
		b.Write(o.Values[i])
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
