package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/pkg/errors"

	"github.com/totegamma/capitalist/client"
	"github.com/totegamma/capitalist/internal/domain"
)

const DefaultCatalogEndpoint = "https://restcountries.com/v2/all"

// CatalogGateway downloads the whole catalog in one request.
type CatalogGateway struct {
	client   *client.Client
	endpoint string
}

func NewCatalogGateway(cl *client.Client, endpoint string) *CatalogGateway {
	if endpoint == "" {
		endpoint = DefaultCatalogEndpoint
	}
	return &CatalogGateway{client: cl, endpoint: endpoint}
}

func (g *CatalogGateway) FetchAll(ctx context.Context) ([]domain.Country, error) {
	u, err := url.Parse(g.endpoint)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, &domain.CountryError{Kind: domain.KindInvalid, Message: "bad catalog endpoint " + g.endpoint, Err: err}
	}

	body, status, err := g.client.Fetch(ctx, u.String())
	if err != nil {
		return nil, domain.NetworkError(err.Error())
	}
	if status < 200 || status > 299 {
		return nil, domain.NetworkError(fmt.Sprintf("unexpected status code: %d", status))
	}

	var countries []domain.Country
	err = json.Unmarshal(body, &countries)
	if err != nil {
		return nil, domain.NewError(domain.KindInvalid, errors.Wrap(err, "CatalogGateway.FetchAll"))
	}

	return countries, nil
}
