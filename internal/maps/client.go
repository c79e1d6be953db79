package maps

import (
	"fmt"

	"googlemaps.github.io/maps"
)

// NewClient builds the shared Google Maps client. qps <= 0 leaves the
// library's default rate limit in place.
func NewClient(apiKey string, qps int, extra ...maps.ClientOption) (*maps.Client, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if qps > 0 {
		opts = append(opts, maps.WithRateLimit(qps))
	}
	opts = append(opts, extra...)

	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return client, nil
}
