// Package overpass queries an Overpass API interpreter for OpenStreetMap ways.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"survey-app/internal/models"
)

// DefaultEndpoint is the public Overpass interpreter.
const DefaultEndpoint = "https://overpass-api.de/api/interpreter"

const maxBodyPreview = 200

// Element is one entry of an Overpass JSON response. Geometry is only
// present when the query asks for "out geom".
type Element struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Geometry []Point           `json:"geometry,omitempty"`
	Tags     map[string]string `json:"tags,omitempty"`
}

// Point is a geometry vertex as returned by Overpass.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type response struct {
	Elements []Element `json:"elements"`
	Remark   string    `json:"remark,omitempty"`
}

// Client talks to one interpreter endpoint. Every request is bounded by timeout.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a client for endpoint. A zero timeout means 30 seconds.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
}

// RoadsQuery builds the Overpass QL query for all highway ways in b.
// Overpass QL has no exponent notation, so bounds are written in plain decimal.
func RoadsQuery(b models.Bounds, timeout time.Duration) string {
	return fmt.Sprintf(`[out:json][timeout:%d];way["highway"](%s,%s,%s,%s);out geom;`,
		int(timeout.Seconds()), decimal(b.South), decimal(b.West), decimal(b.North), decimal(b.East))
}

func decimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Roads fetches every highway way intersecting b.
func (c *Client) Roads(ctx context.Context, b models.Bounds) ([]Element, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("data", RoadsQuery(b, c.timeout))

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("overpass: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("overpass: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		preview := string(body)
		if len(preview) > maxBodyPreview {
			preview = preview[:maxBodyPreview] + "..."
		}
		return nil, fmt.Errorf("overpass: non-OK response (%d): %s", resp.StatusCode, preview)
	}

	var parsed response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("overpass: failed to decode response: %w", err)
	}
	// A query that times out or runs out of memory still answers 200 with
	// whatever it collected and the failure in remark.
	if strings.HasPrefix(parsed.Remark, "runtime error") {
		return nil, fmt.Errorf("overpass: %s", parsed.Remark)
	}
	return parsed.Elements, nil
}
