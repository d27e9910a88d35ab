// Package utils provides common utility functions for the country pipeline.
// It holds the value-to-text conversion shared by the SQL generator and the
// tabular exporters.
package utils
