package crawl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"country-pipeline/core/export"
	"country-pipeline/feature/countries/models"
)

var (
	// ErrMalformedSnapshot is returned when a snapshot is not a JSON array.
	ErrMalformedSnapshot = errors.New("crawl: snapshot is not a JSON array")
	// ErrMalformedRecord marks a snapshot element that does not fit the raw shape.
	ErrMalformedRecord = errors.New("crawl: malformed record")
)

// RecordError ties a decode problem to its snapshot element.
type RecordError struct {
	Index int   `json:"index"`
	Err   error `json:"-"`
}

func (e RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e RecordError) Unwrap() error {
	return e.Err
}

// ParseReport summarizes one snapshot decode. Skipped records are dropped;
// null-filled members keep their record and are listed in Warnings.
type ParseReport struct {
	Source   string        `json:"source"`
	Decoded  int           `json:"decoded"`
	Skipped  int           `json:"skipped"`
	Coerced  int           `json:"coerced"`
	Errors   []RecordError `json:"-"`
	Warnings []RecordError `json:"-"`
}

func (r *ParseReport) skip(index int, err error) {
	r.Skipped++
	r.Errors = append(r.Errors, RecordError{Index: index, Err: fmt.Errorf("%w: %v", ErrMalformedRecord, err)})
}

func (r *ParseReport) coerce(index int, fields []models.FieldError) {
	r.Coerced += len(fields)
	for _, f := range fields {
		r.Warnings = append(r.Warnings, RecordError{Index: index, Err: f})
	}
}

// splitArray returns the elements of a top-level JSON array.
func splitArray(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrMalformedSnapshot
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return elems, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// DecodeAPISnapshot decodes an API snapshot. Elements that are not objects
// are skipped and reported; members of the wrong type are null-filled and
// reported. Only a non-array input fails.
func DecodeAPISnapshot(data []byte, source string) ([]models.RawCountry, *ParseReport, error) {
	elems, err := splitArray(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", source, err)
	}

	report := &ParseReport{Source: source}
	out := make([]models.RawCountry, 0, len(elems))
	for i, raw := range elems {
		if isNull(raw) {
			report.skip(i, errors.New("null element"))
			continue
		}
		rc, fields, err := models.DecodeRawCountry(raw)
		if err != nil {
			report.skip(i, err)
			continue
		}
		report.coerce(i, fields)
		out = append(out, rc)
	}
	report.Decoded = len(out)
	return out, report, nil
}

// DecodeWebSnapshot decodes a web snapshot: an array of string arrays.
// Null cells stay nil; rows that are not arrays are skipped.
func DecodeWebSnapshot(data []byte, source string) ([]models.RawWebRow, *ParseReport, error) {
	elems, err := splitArray(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", source, err)
	}

	report := &ParseReport{Source: source}
	out := make([]models.RawWebRow, 0, len(elems))
	for i, raw := range elems {
		if isNull(raw) {
			report.skip(i, errors.New("null element"))
			continue
		}
		row, fields, err := models.DecodeRawWebRow(raw)
		if err != nil {
			report.skip(i, err)
			continue
		}
		report.coerce(i, fields)
		out = append(out, row)
	}
	report.Decoded = len(out)
	return out, report, nil
}

// LoadAPISnapshot reads and decodes a persisted API snapshot.
func LoadAPISnapshot(path string) ([]models.RawCountry, *ParseReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read API snapshot: %w", err)
	}
	return DecodeAPISnapshot(data, path)
}

// LoadWebSnapshot reads and decodes a persisted web snapshot.
func LoadWebSnapshot(path string) ([]models.RawWebRow, *ParseReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read web snapshot: %w", err)
	}
	return DecodeWebSnapshot(data, path)
}

// SaveSnapshot persists v as indented JSON, creating parent directories.
func SaveSnapshot(path string, v any) error {
	return export.WriteJSON(path, v)
}
