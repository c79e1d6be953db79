package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"loadrec/internal/types"
)

var (
	ErrEmptyAddress = errors.New("address is empty")
	ErrNoResults    = errors.New("no coordinates found for address")
)

// Geocoder resolves free-text addresses and pincodes through the Google
// Geocoding API.
type Geocoder struct {
	client *maps.Client
}

func NewGeocoder(client *maps.Client) *Geocoder {
	return &Geocoder{client: client}
}

// Geocode returns the first match for address.
func (g *Geocoder) Geocode(ctx context.Context, address string) (types.Location, error) {
	if strings.TrimSpace(address) == "" {
		return types.Location{}, ErrEmptyAddress
	}

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return types.Location{}, fmt.Errorf("geocoding api error: %w", err)
	}
	if len(results) == 0 {
		return types.Location{}, fmt.Errorf("%w: %s", ErrNoResults, address)
	}

	r := results[0]
	return types.Location{
		Point:            types.Point{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
		FormattedAddress: r.FormattedAddress,
	}, nil
}
