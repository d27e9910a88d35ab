package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// TimestampLayout is the UTC stamp embedded in export file names.
const TimestampLayout = "20060102T150405Z"

var (
	// ErrNotFound is returned when no export matches a pattern.
	ErrNotFound = errors.New("export: no matching file")
	// ErrUnknownFormat is returned for an unsupported export format.
	ErrUnknownFormat = errors.New("export: unknown format")
)

// Format is an export file format, also used as the file extension.
type Format string

const (
	CSV     Format = "csv"
	JSON    Format = "json"
	Parquet Format = "parquet"
	XLSX    Format = "xlsx"
)

// ParseFormats validates and normalizes a list of format names.
// Duplicates are dropped, order is kept.
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]struct{}, len(names))
	formats := make([]Format, 0, len(names))
	for _, n := range names {
		f := Format(strings.ToLower(strings.TrimSpace(n)))
		if f == "" {
			continue
		}
		switch f {
		case CSV, JSON, Parquet, XLSX:
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, n)
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		formats = append(formats, f)
	}
	return formats, nil
}

// FileName returns "<base>_<YYYYMMDDTHHMMSSZ>.<ext>" for at, in UTC.
func FileName(base string, at time.Time, ext Format) string {
	return fmt.Sprintf("%s_%s.%s", base, at.UTC().Format(TimestampLayout), ext)
}

// Latest returns the lexically greatest file in dir matching pattern.
// Timestamped names sort chronologically, so this is the newest export.
func Latest(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, filepath.Join(dir, pattern))
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}
