package models

// CountryRow is the serialization boundary shared by the SQL upsert and
// every export format. Field order is column order.
type CountryRow struct {
	CCA3           *string  `gorm:"column:cca3;primaryKey" json:"cca3" parquet:"cca3"`
	NameCommon     *string  `gorm:"column:name_common" json:"name_common" parquet:"name_common"`
	NameOfficial   *string  `gorm:"column:name_official" json:"name_official" parquet:"name_official"`
	Region         *string  `gorm:"column:region" json:"region" parquet:"region"`
	Subregion      *string  `gorm:"column:subregion" json:"subregion" parquet:"subregion"`
	Capital        *string  `gorm:"column:capital" json:"capital" parquet:"capital"`
	Population     *int64   `gorm:"column:population" json:"population" parquet:"population"`
	Area           *float64 `gorm:"column:area" json:"area" parquet:"area"`
	Latlng0        *float64 `gorm:"column:latlng_0" json:"latlng_0" parquet:"latlng_0"`
	Latlng1        *float64 `gorm:"column:latlng_1" json:"latlng_1" parquet:"latlng_1"`
	Timezones      *string  `gorm:"column:timezones" json:"timezones" parquet:"timezones"`
	Currencies     *string  `gorm:"column:currencies" json:"currencies" parquet:"currencies"`
	Languages      *string  `gorm:"column:languages" json:"languages" parquet:"languages"`
	CapitalFromWeb *string  `gorm:"column:capital_from_web" json:"capital_from_web" parquet:"capital_from_web"`
}

// TableName returns the target table of the upsert.
func (CountryRow) TableName() string {
	return "countries"
}

// Columns is the column order of CountryRow.
var Columns = []string{
	"cca3", "name_common", "name_official", "region", "subregion", "capital",
	"population", "area", "latlng_0", "latlng_1", "timezones", "currencies",
	"languages", "capital_from_web",
}
