// Package models holds the country pipeline's record types: the raw shapes
// of both sources, the normalized and reconciled records, and the flat
// CountryRow written to SQL and export files.
package models
