package models

import (
	"strings"

	"country-pipeline/core/reconcile"
)

const (
	// CapitalSeparator joins multiple capitals.
	CapitalSeparator = ", "
	// ListSeparator joins timezones, currency codes and language names.
	ListSeparator = ";"
)

// CountryRecord is the normalized form of one API record.
// Multi-valued fields stay ordered sequences until serialization.
type CountryRecord struct {
	CCA3         *string  `json:"cca3"`
	NameCommon   *string  `json:"name_common"`
	NameOfficial *string  `json:"name_official"`
	Region       *string  `json:"region"`
	Subregion    *string  `json:"subregion"`
	Capital      []string `json:"capital"`
	Population   *int64   `json:"population"`
	Area         *float64 `json:"area"`
	Latlng0      *float64 `json:"latlng_0"`
	Latlng1      *float64 `json:"latlng_1"`
	Timezones    []string `json:"timezones"`
	Currencies   []string `json:"currencies"`
	// Languages is nil when the source had no languages member.
	Languages []string `json:"languages"`
}

// CapitalText returns the capitals joined with ", ".
func (r CountryRecord) CapitalText() string {
	return strings.Join(r.Capital, CapitalSeparator)
}

// LanguagesText returns the language names joined with ";", or nil when
// the source had none.
func (r CountryRecord) LanguagesText() *string {
	if r.Languages == nil {
		return nil
	}
	s := strings.Join(r.Languages, ListSeparator)
	return &s
}

// WebCapitalRow is the parsed form of one scraped table row.
type WebCapitalRow struct {
	CountryName *string `json:"country_name"`
	CapitalRaw  *string `json:"capital_raw"`
	// RawRow keeps the original cells for auditing.
	RawRow RawWebRow `json:"raw_row"`
}

// ReconciledRecord is a CountryRecord enriched with the capital found in
// the web table. Capital itself is never overwritten.
type ReconciledRecord struct {
	CountryRecord
	CapitalFromWeb *string            `json:"capital_from_web"`
	Match          reconcile.Strategy `json:"match"`
}

// Row flattens the record into its tabular form.
func (r ReconciledRecord) Row() CountryRow {
	capital := r.CapitalText()
	timezones := strings.Join(r.Timezones, ListSeparator)
	currencies := strings.Join(r.Currencies, ListSeparator)

	return CountryRow{
		CCA3:           r.CCA3,
		NameCommon:     r.NameCommon,
		NameOfficial:   r.NameOfficial,
		Region:         r.Region,
		Subregion:      r.Subregion,
		Capital:        &capital,
		Population:     r.Population,
		Area:           r.Area,
		Latlng0:        r.Latlng0,
		Latlng1:        r.Latlng1,
		Timezones:      &timezones,
		Currencies:     &currencies,
		Languages:      r.LanguagesText(),
		CapitalFromWeb: r.CapitalFromWeb,
	}
}

// Rows flattens records in order.
func Rows(records []ReconciledRecord) []CountryRow {
	rows := make([]CountryRow, len(records))
	for i, r := range records {
		rows[i] = r.Row()
	}
	return rows
}
