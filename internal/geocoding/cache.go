package geocoding

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lumvida/lumvida-backend/internal/logger"
	"github.com/lumvida/lumvida-backend/internal/models"
)

const defaultLookupTimeout = 8 * time.Second

// Defaults are the regional fallback values used when a lookup fails or
// returns nothing usable.
type Defaults struct {
	Ciudad    string
	Estado    string
	Municipio string
}

// Cache memoizes geocode resolutions per coordinate key for the lifetime
// of the process: coordinates do not change neighborhood during a
// session, so there is no TTL and no invalidation. Only successful
// lookups are cached — a failed key stays uncached so the next call can
// retry the provider. Concurrent lookups for the same key coalesce into
// a single provider call.
type Cache struct {
	provider Provider
	defaults Defaults
	timeout  time.Duration

	mu      sync.Mutex
	results map[string]models.GeocodeResult
	pending map[string]*lookup
}

type lookup struct {
	done chan struct{}
	res  models.GeocodeResult
	ok   bool
}

// NewCache creates a geocode cache over the given provider.
func NewCache(provider Provider, defaults Defaults, timeout time.Duration) *Cache {
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	return &Cache{
		provider: provider,
		defaults: defaults,
		timeout:  timeout,
		results:  make(map[string]models.GeocodeResult),
		pending:  make(map[string]*lookup),
	}
}

// Key is the canonical cache key for a coordinate pair. Six decimal
// places (~0.1m) collapse float formatting drift without ever merging
// distinct neighborhoods.
func Key(lat, lng float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lng)
}

// Resolve returns the place breakdown for a coordinate pair. It never
// fails: provider errors, timeouts and empty results all degrade to the
// configured regional defaults, and a cancelled context degrades the
// same way.
func (c *Cache) Resolve(ctx context.Context, lat, lng float64, direccion string) models.GeocodeResult {
	key := Key(lat, lng)

	c.mu.Lock()
	if res, ok := c.results[key]; ok {
		c.mu.Unlock()
		return res
	}
	if l, ok := c.pending[key]; ok {
		// Another caller already has this key in flight; wait for it.
		c.mu.Unlock()
		select {
		case <-l.done:
			if l.ok {
				return l.res
			}
			return c.defaultResult(direccion)
		case <-ctx.Done():
			return c.defaultResult(direccion)
		}
	}
	l := &lookup{done: make(chan struct{})}
	c.pending[key] = l
	c.mu.Unlock()

	l.res, l.ok = c.lookup(ctx, lat, lng, direccion)

	c.mu.Lock()
	if l.ok {
		c.results[key] = l.res
	}
	delete(c.pending, key)
	c.mu.Unlock()
	close(l.done)

	if !l.ok {
		return c.defaultResult(direccion)
	}
	return l.res
}

// Size returns the number of cached keys.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

func (c *Cache) lookup(ctx context.Context, lat, lng float64, direccion string) (models.GeocodeResult, bool) {
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.provider.Reverse(cctx, lat, lng, direccion)
	if err != nil {
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"lat": lat,
				"lng": lng,
			}).WithError(err).Warn("geocoding: lookup failed, using defaults")
		}
		return models.GeocodeResult{}, false
	}
	if resp == nil || len(resp.Places) == 0 {
		return models.GeocodeResult{}, false
	}
	return c.parse(resp, direccion), true
}

// parse walks the candidate places, extracting each field from the first
// place that carries it. The neighborhood prefers a candidate whose name
// appears (case-insensitively) inside the raw address, then the first
// non-empty candidate.
func (c *Cache) parse(resp *Response, direccion string) models.GeocodeResult {
	candidates := make([]string, 0, len(resp.Places))
	for _, p := range resp.Places {
		if p.Name != "" {
			candidates = append(candidates, p.Name)
		}
	}

	colonia := ""
	if direccion != "" {
		lower := strings.ToLower(direccion)
		for _, name := range candidates {
			if strings.Contains(lower, strings.ToLower(name)) {
				colonia = name
				break
			}
		}
	}
	if colonia == "" && len(candidates) > 0 {
		colonia = candidates[0]
	}
	if colonia == "" {
		colonia = models.Unspecified
	}

	res := models.GeocodeResult{
		Colonia:           colonia,
		DireccionCompleta: direccion,
		Colonias:          candidates,
	}
	for _, p := range resp.Places {
		if res.CodigoPostal == "" {
			res.CodigoPostal = p.PostalCode
		}
		if res.Ciudad == "" {
			res.Ciudad = p.City
		}
		if res.Estado == "" {
			res.Estado = p.State
		}
		if res.Municipio == "" {
			res.Municipio = p.Municipality
		}
	}

	if res.CodigoPostal == "" {
		res.CodigoPostal = models.Unspecified
	}
	if res.Ciudad == "" {
		res.Ciudad = c.defaults.Ciudad
	}
	if res.Estado == "" {
		res.Estado = c.defaults.Estado
	}
	if res.Municipio == "" {
		res.Municipio = c.defaults.Municipio
	}
	return res
}

// defaultResult is the non-cached fallback: the raw address stands in for
// the neighborhood, regional defaults fill the rest.
func (c *Cache) defaultResult(direccion string) models.GeocodeResult {
	colonia := direccion
	if colonia == "" {
		colonia = models.Unspecified
	}
	postalCode := ExtractPostalCode(direccion)
	if postalCode == "" {
		postalCode = models.Unspecified
	}

	return models.GeocodeResult{
		Colonia:           colonia,
		CodigoPostal:      postalCode,
		Ciudad:            c.defaults.Ciudad,
		Estado:            c.defaults.Estado,
		Municipio:         c.defaults.Municipio,
		DireccionCompleta: direccion,
		Colonias:          []string{},
	}
}
