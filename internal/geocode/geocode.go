// Package geocode resolves free text place names to coordinates.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/pinmark/internal/annotation"
)

// DefaultEndpoint is the public Nominatim search API.
const DefaultEndpoint = "https://nominatim.openstreetmap.org/search"

// SearchZoom is the map zoom applied after a successful search.
const SearchZoom = 15

// ErrNoResults is returned when the query matched nothing.
var ErrNoResults = errors.New("no results")

// Result is one match.
type Result struct {
	Name   string
	LatLng annotation.LatLng
}

// Nominatim queries an OpenStreetMap Nominatim server.
type Nominatim struct {
	endpoint  string
	userAgent string
	client    *http.Client
}

// NewNominatim returns a client for endpoint, or DefaultEndpoint when empty.
func NewNominatim(endpoint, userAgent string) *Nominatim {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Nominatim{
		endpoint:  endpoint,
		userAgent: userAgent,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type place struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search returns the best match for query.
func (n *Nominatim) Search(ctx context.Context, query string) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, fmt.Errorf("empty query")
	}
	u, err := url.Parse(n.endpoint)
	if err != nil {
		return Result{}, fmt.Errorf("endpoint: %w", err)
	}
	q := u.Query()
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("q", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("search %q: %w", query, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("search %q: unexpected status code %d", query, resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return Result{}, fmt.Errorf("decode results: %w", err)
	}
	if len(places) == 0 {
		return Result{}, fmt.Errorf("%q: %w", query, ErrNoResults)
	}
	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return Result{}, fmt.Errorf("latitude %q: %w", places[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return Result{}, fmt.Errorf("longitude %q: %w", places[0].Lon, err)
	}
	return Result{Name: places[0].DisplayName, LatLng: annotation.LatLng{Lat: lat, Lng: lng}}, nil
}
