// Package geocode turns coordinates into a short street address using a
// Nominatim-compatible reverse geocoding service.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"foodapp/internal/models"
)

type Address struct {
	Suburb   string `json:"suburb"`
	Village  string `json:"village"`
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

// Locality picks between village and city when an address has both.
type Locality int

const (
	// PreferCity is the customer home header.
	PreferCity Locality = iota
	// PreferVillage is the seller dashboard header.
	PreferVillage
)

// Label is the one-line form shown in the app header, "suburb, locality".
func (a Address) Label(pref Locality) string {
	first, second := a.City, a.Village
	if pref == PreferVillage {
		first, second = a.Village, a.City
	}
	locality := first
	if locality == "" {
		locality = second
	}
	parts := make([]string, 0, 2)
	for _, p := range []string{a.Suburb, locality} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type reverseResponse struct {
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
	Error       string  `json:"error"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

func New(baseURL, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  userAgent,
	}
}

// Reverse looks up the address at loc.
func (c *Client) Reverse(ctx context.Context, loc models.Location) (*Address, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating reverse geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reverse geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reverse geocode: status %d", resp.StatusCode)
	}

	var out reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding reverse geocode response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("reverse geocode: %s", out.Error)
	}
	return &out.Address, nil
}
