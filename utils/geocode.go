package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jhansigoday/bookbridge/config"
)

// ReverseGeocoder resolves coordinates to a human-readable address using two
// alternative public services. BigDataCloud is queried first; Nominatim is
// the fallback when it fails or returns nothing usable.
type ReverseGeocoder struct {
	Client          *http.Client
	BigDataCloudURL string
	NominatimURL    string
}

func NewReverseGeocoder(cfg config.GeocodeConfig) *ReverseGeocoder {
	return &ReverseGeocoder{
		Client:          &http.Client{Timeout: cfg.Timeout},
		BigDataCloudURL: cfg.BigDataCloudURL,
		NominatimURL:    cfg.NominatimURL,
	}
}

// Lookup returns a best-effort address string for the coordinates.
func (g *ReverseGeocoder) Lookup(ctx context.Context, lat, lon float64) (string, error) {
	addr, err := g.bigDataCloud(ctx, lat, lon)
	if err == nil && addr != "" {
		return addr, nil
	}
	return g.nominatim(ctx, lat, lon)
}

func (g *ReverseGeocoder) bigDataCloud(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%f", lat))
	q.Set("longitude", fmt.Sprintf("%f", lon))
	q.Set("localityLanguage", "en")

	var body struct {
		City                 string `json:"city"`
		Locality             string `json:"locality"`
		PrincipalSubdivision string `json:"principalSubdivision"`
		CountryName          string `json:"countryName"`
	}
	if err := g.get(ctx, g.BigDataCloudURL+"?"+q.Encode(), &body); err != nil {
		return "", err
	}

	city := body.City
	if city == "" {
		city = body.Locality
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{city, body.PrincipalSubdivision, body.CountryName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", "), nil
}

func (g *ReverseGeocoder) nominatim(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("format", "jsonv2")

	var body struct {
		DisplayName string `json:"display_name"`
	}
	if err := g.get(ctx, g.NominatimURL+"?"+q.Encode(), &body); err != nil {
		return "", err
	}
	if body.DisplayName == "" {
		return "", errors.New("geocode: empty result")
	}
	return body.DisplayName, nil
}

func (g *ReverseGeocoder) get(ctx context.Context, rawurl string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return err
	}
	// Nominatim requires an identifying user agent.
	req.Header.Set("User-Agent", "bookbridge/1.0")

	resp, err := g.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
