package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrNotObject is returned when an API record is not a JSON object.
	ErrNotObject = errors.New("models: record is not a JSON object")
	// ErrNotArray is returned when a web row is not a JSON array.
	ErrNotArray = errors.New("models: row is not a JSON array")
	// ErrFieldType marks a member whose value does not fit its field.
	ErrFieldType = errors.New("models: unexpected field type")
)

// FieldError is a member that was null-filled because of its type.
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("field %s: %v", e.Field, e.Err)
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// DecodeRawCountry decodes one API record. Only a value that is not an
// object fails; a member of the wrong type becomes nil and is reported.
// A bare string where a list is expected is read as a one-element list.
func DecodeRawCountry(data []byte) (RawCountry, []FieldError, error) {
	var rc RawCountry
	if kind(data) != "object" {
		return rc, nil, fmt.Errorf("%w: got %s", ErrNotObject, kind(data))
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return rc, nil, fmt.Errorf("%w: %v", ErrNotObject, err)
	}

	d := &fieldDecoder{}
	rc.CCA3 = d.str("cca3", members["cca3"])
	rc.Name = d.name(members["name"])
	rc.Region = d.str("region", members["region"])
	rc.Subregion = d.str("subregion", members["subregion"])
	rc.Capital = d.strList("capital", members["capital"])
	rc.Population = d.integer("population", members["population"])
	rc.Area = d.float("area", members["area"])
	rc.Latlng = d.floatList("latlng", members["latlng"])
	rc.Timezones = d.strList("timezones", members["timezones"])
	rc.Currencies = d.object("currencies", members["currencies"])
	rc.Languages = d.object("languages", members["languages"])

	return rc, d.errs, nil
}

// UnmarshalJSON implements json.Unmarshaler with the DecodeRawCountry rules.
func (rc *RawCountry) UnmarshalJSON(data []byte) error {
	if isNullJSON(data) {
		return nil
	}
	v, _, err := DecodeRawCountry(data)
	if err != nil {
		return err
	}
	*rc = v
	return nil
}

// DecodeRawWebRow decodes one web row. Only a value that is not an array
// fails; a null cell stays nil and a non-string cell becomes nil and is
// reported.
func DecodeRawWebRow(data []byte) (RawWebRow, []FieldError, error) {
	if kind(data) != "array" {
		return nil, nil, fmt.Errorf("%w: got %s", ErrNotArray, kind(data))
	}

	var cells []json.RawMessage
	if err := json.Unmarshal(data, &cells); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNotArray, err)
	}

	d := &fieldDecoder{}
	row := make(RawWebRow, len(cells))
	for i, c := range cells {
		row[i] = d.str("cell["+strconv.Itoa(i)+"]", c)
	}
	return row, d.errs, nil
}

// UnmarshalJSON implements json.Unmarshaler with the DecodeRawWebRow rules.
func (r *RawWebRow) UnmarshalJSON(data []byte) error {
	if isNullJSON(data) {
		*r = nil
		return nil
	}
	v, _, err := DecodeRawWebRow(data)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// fieldDecoder converts single members and collects what it null-filled.
type fieldDecoder struct {
	errs []FieldError
}

func (d *fieldDecoder) fail(field string, raw json.RawMessage) {
	d.errs = append(d.errs, FieldError{
		Field: field,
		Err:   fmt.Errorf("%w: got %s", ErrFieldType, kind(raw)),
	})
}

func (d *fieldDecoder) str(field string, raw json.RawMessage) *string {
	switch kind(raw) {
	case "null":
		return nil
	case "string":
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return &s
		}
	}
	d.fail(field, raw)
	return nil
}

func (d *fieldDecoder) strList(field string, raw json.RawMessage) []string {
	switch kind(raw) {
	case "null":
		return nil
	case "string":
		d.fail(field, raw)
		if s := d.str(field, raw); s != nil {
			return []string{*s}
		}
		return nil
	case "array":
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			break
		}
		out := make([]string, 0, len(elems))
		for i, e := range elems {
			if kind(e) == "null" {
				continue
			}
			if s := d.str(field+"["+strconv.Itoa(i)+"]", e); s != nil {
				out = append(out, *s)
			}
		}
		return out
	}
	d.fail(field, raw)
	return nil
}

func (d *fieldDecoder) float(field string, raw json.RawMessage) *float64 {
	switch kind(raw) {
	case "null":
		return nil
	case "number":
		if f, err := strconv.ParseFloat(string(bytes.TrimSpace(raw)), 64); err == nil {
			return &f
		}
	}
	d.fail(field, raw)
	return nil
}

// integer accepts any number with an integral value, so 8.3e7 reads as
// 83000000.
func (d *fieldDecoder) integer(field string, raw json.RawMessage) *int64 {
	if kind(raw) == "null" {
		return nil
	}
	if kind(raw) == "number" {
		text := string(bytes.TrimSpace(raw))
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return &n
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil && f == math.Trunc(f) && math.Abs(f) < 1<<63 {
			n := int64(f)
			return &n
		}
	}
	d.fail(field, raw)
	return nil
}

func (d *fieldDecoder) floatList(field string, raw json.RawMessage) []*float64 {
	switch kind(raw) {
	case "null":
		return nil
	case "array":
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			break
		}
		out := make([]*float64, len(elems))
		for i, e := range elems {
			out[i] = d.float(field+"["+strconv.Itoa(i)+"]", e)
		}
		return out
	}
	d.fail(field, raw)
	return nil
}

func (d *fieldDecoder) name(raw json.RawMessage) *RawName {
	switch kind(raw) {
	case "null":
		return nil
	case "object":
		var members map[string]json.RawMessage
		if err := json.Unmarshal(raw, &members); err != nil {
			break
		}
		return &RawName{
			Common:   d.str("name.common", members["common"]),
			Official: d.str("name.official", members["official"]),
		}
	}
	d.fail("name", raw)
	return nil
}

func (d *fieldDecoder) object(field string, raw json.RawMessage) *OrderedObject {
	switch kind(raw) {
	case "null":
		return nil
	case "object":
		var o OrderedObject
		if err := json.Unmarshal(raw, &o); err == nil {
			return &o
		}
	}
	d.fail(field, raw)
	return nil
}

// kind names the JSON type of raw from its first byte. An absent member
// reads as null.
func kind(raw []byte) string {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 {
		return "null"
	}
	switch c := t[0]; {
	case c == '{':
		return "object"
	case c == '[':
		return "array"
	case c == '"':
		return "string"
	case c == 't' || c == 'f':
		return "bool"
	case c == 'n':
		return "null"
	case c == '-' || (c >= '0' && c <= '9'):
		return "number"
	}
	return "invalid"
}

func isNullJSON(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
