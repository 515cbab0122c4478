package domain

import (
	"encoding/json"
	"fmt"
)

// Location is a latitude/longitude pair.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Country is a catalog entry. Code is the alpha-3 identifier and the unique key.
type Country struct {
	Name        string
	Code        string
	Alpha2      string
	Capital     string
	Coordinates *Location
	Currencies  []Currency
}

// countryJSON is the catalog wire shape, also used for stored snapshots.
type countryJSON struct {
	Name       string     `json:"name"`
	Code       string     `json:"alpha3Code"`
	Alpha2     string     `json:"alpha2Code,omitempty"`
	Capital    string     `json:"capital"`
	LatLng     []float64  `json:"latlng"`
	Currencies []Currency `json:"currencies"`
}

func (c Country) ID() string { return c.Code }

// Location returns the coordinates when the catalog provided them.
func (c Country) Location() (Location, bool) {
	if c.Coordinates == nil {
		return Location{}, false
	}
	return *c.Coordinates, true
}

// CurrencyString renders the first currency as "CODE Name Symbol".
func (c Country) CurrencyString() string {
	if len(c.Currencies) == 0 {
		return ""
	}
	cur := c.Currencies[0]
	return fmt.Sprintf("%s %s %s", cur.Code, cur.Name, cur.Symbol)
}

func (c Country) MarshalJSON() ([]byte, error) {
	wire := countryJSON{
		Name:       c.Name,
		Code:       c.Code,
		Alpha2:     c.Alpha2,
		Capital:    c.Capital,
		LatLng:     []float64{},
		Currencies: c.Currencies,
	}
	if c.Coordinates != nil {
		wire.LatLng = []float64{c.Coordinates.Latitude, c.Coordinates.Longitude}
	}
	return json.Marshal(wire)
}

func (c *Country) UnmarshalJSON(data []byte) error {
	var wire countryJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*c = Country{
		Name:       wire.Name,
		Code:       wire.Code,
		Alpha2:     wire.Alpha2,
		Capital:    wire.Capital,
		Currencies: wire.Currencies, // null stays nil, [] stays empty
	}
	if len(wire.LatLng) == 2 {
		c.Coordinates = &Location{Latitude: wire.LatLng[0], Longitude: wire.LatLng[1]}
	}
	return nil
}

// ContainsCode reports whether a country with the given code is in the list.
func ContainsCode(countries []Country, code string) bool {
	for _, c := range countries {
		if c.ID() == code {
			return true
		}
	}
	return false
}
