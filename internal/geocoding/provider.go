package geocoding

import "context"

// Place is one candidate returned by a provider for a lookup.
type Place struct {
	Name         string
	PostalCode   string
	City         string
	State        string
	Municipality string
}

// Response is the raw provider payload for one lookup, before the cache
// turns it into a GeocodeResult.
type Response struct {
	Places []Place
}

// Provider resolves a coordinate pair (and the raw report address, when
// available) to candidate places. Providers are substitutable: the cache
// never depends on a concrete implementation, only on this contract.
type Provider interface {
	Reverse(ctx context.Context, lat, lng float64, address string) (*Response, error)
}
