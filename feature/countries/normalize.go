package countries

import (
	"country-pipeline/feature/countries/models"
)

// NormalizeOne flattens one raw API record. Missing nested members never
// fail: scalars degrade to nil and lists to empty. Negative population or
// area values are treated as missing. Languages stay nil when the source has
// no languages member, and become empty when it has an empty one.
func NormalizeOne(rc models.RawCountry) models.CountryRecord {
	rec := models.CountryRecord{
		CCA3:       cloneString(rc.CCA3),
		Region:     cloneString(rc.Region),
		Subregion:  cloneString(rc.Subregion),
		Capital:    cloneStrings(rc.Capital),
		Timezones:  cloneStrings(rc.Timezones),
		Currencies: cloneStrings(nil),
	}

	if rc.Name != nil {
		rec.NameCommon = cloneString(rc.Name.Common)
		rec.NameOfficial = cloneString(rc.Name.Official)
	}

	if rc.Population != nil && *rc.Population >= 0 {
		p := *rc.Population
		rec.Population = &p
	}
	if rc.Area != nil && *rc.Area >= 0 {
		a := *rc.Area
		rec.Area = &a
	}

	if len(rc.Latlng) > 0 {
		rec.Latlng0 = cloneFloat(rc.Latlng[0])
	}
	if len(rc.Latlng) > 1 {
		rec.Latlng1 = cloneFloat(rc.Latlng[1])
	}

	if rc.Currencies != nil {
		rec.Currencies = cloneStrings(rc.Currencies.Keys)
	}
	if rc.Languages != nil {
		rec.Languages = rc.Languages.StringValues()
	}

	return rec
}

// Normalize flattens raw records, keeping input order.
func Normalize(raw []models.RawCountry) []models.CountryRecord {
	out := make([]models.CountryRecord, len(raw))
	for i, rc := range raw {
		out[i] = NormalizeOne(rc)
	}
	return out
}

// ParseWebRow maps cell 0 to the country name and cell 1 to the capital.
// Short rows and null cells still produce a record with nil members.
func ParseWebRow(row models.RawWebRow) models.WebCapitalRow {
	return models.WebCapitalRow{
		CountryName: row.Cell(0),
		CapitalRaw:  row.Cell(1),
		RawRow:      row.Clone(),
	}
}

// ParseWebRows parses every row, keeping input order and count.
func ParseWebRows(rows []models.RawWebRow) []models.WebCapitalRow {
	out := make([]models.WebCapitalRow, len(rows))
	for i, r := range rows {
		out[i] = ParseWebRow(r)
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneStrings(s []string) []string {
	return append(make([]string, 0, len(s)), s...)
}
