package domain

const (
	MaxSavedCountries = 5
	DefaultCountry    = "FRA"
)

// Storage keys.
const (
	AllCountriesKey   = "allCountries"
	SavedCountriesKey = "savedCountries"
)
