package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/totegamma/capitalist/client"
)

const DefaultGeocoderEndpoint = "https://api.bigdatacloud.net/data/reverse-geocode-client?latitude={lat}&longitude={lon}&localityLanguage=en"

// Geocoder turns coordinates into a country code.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, latitude, longitude float64) (string, bool, error)
}

// HTTPGeocoder queries a reverse-geocoding endpoint built from a template
// with {lat} and {lon} placeholders. The response must carry countryCode.
type HTTPGeocoder struct {
	client   *client.Client
	template string
}

type geocodeResponse struct {
	CountryCode string `json:"countryCode"`
}

func NewHTTPGeocoder(cl *client.Client, template string) *HTTPGeocoder {
	if template == "" {
		template = DefaultGeocoderEndpoint
	}
	return &HTTPGeocoder{client: cl, template: template}
}

func (g *HTTPGeocoder) ReverseGeocode(ctx context.Context, latitude, longitude float64) (string, bool, error) {
	endpoint := strings.ReplaceAll(g.template, "{lat}", strconv.FormatFloat(latitude, 'f', -1, 64))
	endpoint = strings.ReplaceAll(endpoint, "{lon}", strconv.FormatFloat(longitude, 'f', -1, 64))

	body, status, err := g.client.Fetch(ctx, endpoint)
	if err != nil {
		return "", false, errors.Wrap(err, "reverse geocode")
	}
	if status < 200 || status > 299 {
		return "", false, fmt.Errorf("reverse geocode: unexpected status code: %d", status)
	}

	var resp geocodeResponse
	err = json.Unmarshal(body, &resp)
	if err != nil {
		return "", false, errors.Wrap(err, "reverse geocode: decode")
	}

	code := strings.TrimSpace(resp.CountryCode)
	if code == "" {
		return "", false, nil
	}
	return code, true, nil
}
