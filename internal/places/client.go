package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"petpal/internal/metrics"
)

// Vet is one nearby veterinary location, with the distance from the
// queried point already computed.
type Vet struct {
	Name       string
	Lat        float64
	Lon        float64
	DistanceKm float64
}

// Client is a thin passthrough to a Nominatim-compatible places endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *logrus.Logger
}

func NewClient(baseURL, apiKey string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

type searchResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// NearbyVets searches for veterinary clinics around the given point and
// returns up to limit results ordered by great-circle distance.
func (c *Client) NearbyVets(ctx context.Context, lat, lon float64, limit int) ([]Vet, error) {
	if limit <= 0 {
		limit = 5
	}

	// A ~20km bounding box around the user's location.
	const boxDeg = 0.2
	params := url.Values{}
	params.Set("q", "veterinary clinic")
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit * 3))
	params.Set("viewbox", fmt.Sprintf("%f,%f,%f,%f", lon-boxDeg, lat+boxDeg, lon+boxDeg, lat-boxDeg))
	params.Set("bounded", "1")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build places request: %w", err)
	}
	req.Header.Set("User-Agent", "petpal-bot")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.PlacesSearches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("places request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.PlacesSearches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("places request: unexpected status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		metrics.PlacesSearches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode places response: %w", err)
	}

	vets := make([]Vet, 0, len(results))
	for _, r := range results {
		rLat, errLat := strconv.ParseFloat(r.Lat, 64)
		rLon, errLon := strconv.ParseFloat(r.Lon, 64)
		if errLat != nil || errLon != nil {
			c.logger.WithField("name", r.DisplayName).Debug("skipping place with malformed coordinates")
			continue
		}
		vets = append(vets, Vet{
			Name:       r.DisplayName,
			Lat:        rLat,
			Lon:        rLon,
			DistanceKm: Haversine(lat, lon, rLat, rLon),
		})
	}

	sort.Slice(vets, func(i, j int) bool {
		return vets[i].DistanceKm < vets[j].DistanceKm
	})
	if len(vets) > limit {
		vets = vets[:limit]
	}

	metrics.PlacesSearches.WithLabelValues("ok").Inc()
	return vets, nil
}
