package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client resolves driving distances against an OSRM-compatible routing
// service (e.g. a self-hosted osrm-backend instance).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // meters
	} `json:"routes"`
}

// DrivingDistanceMiles implements DistanceResolver.
func (c *Client) DrivingDistanceMiles(ctx context.Context, lat1, lon1, lat2, lon2 float64) (float64, error) {
	// OSRM takes coordinates as lon,lat pairs
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=false",
		c.baseURL, lon1, lat1, lon2, lat2)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build routing request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("routing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("routing service returned status %d", resp.StatusCode)
	}

	var body routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode routing response: %w", err)
	}

	if body.Code != "Ok" || len(body.Routes) == 0 {
		return 0, fmt.Errorf("no route found (code %q)", body.Code)
	}

	return body.Routes[0].Distance / metersPerMile, nil
}
