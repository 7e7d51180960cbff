package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

const defaultGeoNamesBaseURL = "https://secure.geonames.org"

var postalCodeRe = regexp.MustCompile(`\b(\d{5})\b`)

// ExtractPostalCode returns the first five-digit postal code found in a
// free-text address, or "" when there is none.
func ExtractPostalCode(address string) string {
	match := postalCodeRe.FindStringSubmatch(address)
	if match == nil {
		return ""
	}
	return match[1]
}

// GeoNames resolves places through the GeoNames postal code lookup
// service. The postal code is extracted from the raw address; the
// coordinates only identify the lookup for the cache. adminName1/2/3 map
// to state, municipality and city respectively.
type GeoNames struct {
	baseURL    string
	username   string
	country    string
	httpClient *http.Client
}

// NewGeoNames creates a provider. username is the GeoNames account name
// and is required by the API; country defaults to MX.
func NewGeoNames(baseURL, username, country string) *GeoNames {
	if baseURL == "" {
		baseURL = defaultGeoNamesBaseURL
	}
	if country == "" {
		country = "MX"
	}

	return &GeoNames{
		baseURL:  baseURL,
		username: username,
		country:  country,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type geoNamesPlace struct {
	PlaceName  string `json:"placeName"`
	PostalCode string `json:"postalcode"`
	AdminName1 string `json:"adminName1"`
	AdminName2 string `json:"adminName2"`
	AdminName3 string `json:"adminName3"`
}

type geoNamesResponse struct {
	Postalcodes []geoNamesPlace `json:"postalcodes"`
}

// Reverse implements Provider.
func (g *GeoNames) Reverse(ctx context.Context, lat, lng float64, address string) (*Response, error) {
	postalCode := ExtractPostalCode(address)
	if postalCode == "" {
		return nil, fmt.Errorf("geonames: no postal code in address %q", address)
	}

	q := url.Values{}
	q.Set("postalcode", postalCode)
	q.Set("country", g.country)
	q.Set("username", g.username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/postalCodeLookupJSON?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geonames: status %d", resp.StatusCode)
	}

	var decoded geoNamesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("geonames: decoding response: %w", err)
	}
	if len(decoded.Postalcodes) == 0 {
		return nil, errors.New("geonames: empty result set")
	}

	places := make([]Place, 0, len(decoded.Postalcodes))
	for _, p := range decoded.Postalcodes {
		code := p.PostalCode
		if code == "" {
			code = postalCode
		}
		places = append(places, Place{
			Name:         p.PlaceName,
			PostalCode:   code,
			City:         p.AdminName3,
			State:        p.AdminName1,
			Municipality: p.AdminName2,
		})
	}
	return &Response{Places: places}, nil
}
