package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"canopy/internal/cache"
)

const cacheTTL = 30 * 24 * time.Hour

// Client resolves coordinates to human-readable place names against a
// Nominatim-compatible reverse geocoding API. Results are cached; the
// upstream is treated as best-effort.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *cache.Client
}

// New creates a geocoding client.
func New(baseURL string, cacheClient *cache.Client) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
		cache:   cacheClient,
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

// Reverse returns a place name for the coordinates, or an error when the
// upstream is unreachable. Callers are expected to treat failures as an
// empty location.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	key := fmt.Sprintf("geocode:%.4f:%.4f", lat, lng)
	if data, _ := c.cache.Get(ctx, key); data != nil {
		return string(data), nil
	}

	endpoint := fmt.Sprintf("%s/reverse?format=jsonv2&lat=%s&lon=%s",
		c.baseURL,
		url.QueryEscape(fmt.Sprintf("%f", lat)),
		url.QueryEscape(fmt.Sprintf("%f", lng)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}

	_ = c.cache.Set(ctx, key, []byte(body.DisplayName), cacheTTL)
	return body.DisplayName, nil
}
