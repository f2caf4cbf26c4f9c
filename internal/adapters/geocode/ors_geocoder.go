package geocode

import (
	"context"
	"dispatch-planning-service/internal/domain"
	"dispatch-planning-service/internal/platform/obs"
	"dispatch-planning-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.openrouteservice.org"

// ORSGeocoder resolves addresses with the OpenRouteService search API.
// Results are read from and written to an optional persistent cache.
// It is safe for concurrent use.
type ORSGeocoder struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	country     string
	cache       ports.GeocodeCache
	maxAttempts int
	backoff     time.Duration
}

type Option func(*ORSGeocoder)

// WithBaseURL points the geocoder at another ORS deployment.
func WithBaseURL(u string) Option {
	return func(g *ORSGeocoder) { g.baseURL = strings.TrimRight(u, "/") }
}

// WithCountry restricts results to an ISO 3166 country code.
func WithCountry(code string) Option {
	return func(g *ORSGeocoder) { g.country = code }
}

func WithCache(c ports.GeocodeCache) Option {
	return func(g *ORSGeocoder) { g.cache = c }
}

func WithHTTPClient(c *http.Client) Option {
	return func(g *ORSGeocoder) { g.session = c }
}

func WithBackoff(d time.Duration) Option {
	return func(g *ORSGeocoder) { g.backoff = d }
}

func NewORSGeocoder(apiKey string, opts ...Option) (*ORSGeocoder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	g := &ORSGeocoder{
		session:     &http.Client{Timeout: 10 * time.Second},
		apiKey:      apiKey,
		baseURL:     DefaultBaseURL,
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}
	for _, o := range opts {
		o(g)
	}
	return g, nil
}

// Normalize collapses whitespace so equal addresses share a cache key.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type searchResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// GeocodeMany resolves each distinct address once. Cached entries skip the
// API call; cache failures are logged and never fail the lookup.
func (g *ORSGeocoder) GeocodeMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.GeocodeMany")(&err)

	seen := make(map[string]struct{}, len(addresses))
	keys := make([]string, 0, len(addresses))
	for _, a := range addresses {
		norm := Normalize(a)
		if norm == "" {
			return nil, fmt.Errorf("geocode: %w", &domain.ValidationError{
				Field: "address", Reason: "must be non-empty", Err: domain.ErrInvalidInput,
			})
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		keys = append(keys, norm)
	}

	out := make(map[string]domain.Coordinates, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	if g.cache != nil {
		cached, err := g.cache.GetMany(ctx, keys)
		if err != nil {
			log.Printf("req_id=%s geocode cache read failed: %v", obs.RequestID(ctx), err)
		}
		for k, c := range cached {
			out[k] = c
		}
	}

	fetched := make(map[string]domain.Coordinates)
	for _, k := range keys {
		if _, ok := out[k]; ok {
			continue
		}
		c, err := g.search(ctx, k)
		if err != nil {
			return nil, err
		}
		out[k] = c
		fetched[k] = c
	}

	if g.cache != nil && len(fetched) > 0 {
		if err := g.cache.PutMany(ctx, fetched); err != nil {
			log.Printf("req_id=%s geocode cache write failed: %v", obs.RequestID(ctx), err)
		}
	}

	return out, nil
}

func (g *ORSGeocoder) search(ctx context.Context, address string) (domain.Coordinates, error) {
	endpoint := g.baseURL + "/geocode/search"

	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.newRequest(ctx, http.MethodGet, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", address)
		q.Set("size", "1")
		if g.country != "" {
			q.Set("boundary.country", g.country)
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	defer resp.Body.Close()

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: decode response: %w", address, err)
	}
	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, ErrNotFound)
	}

	// GeoJSON order is [lon, lat].
	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) < 2 {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: invalid coordinate format", address)
	}
	return domain.Coordinates{Lat: coords[1], Lng: coords[0]}, nil
}

var ErrNotFound = errors.New("no geocode results")
