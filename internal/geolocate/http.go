package geolocate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/claude/mapty/internal/models"
)

// HTTPSource asks a location service for the current fix. The service
// answers GET requests with {"latitude": .., "longitude": ..}; 401 and 403
// are read as a refused permission.
type HTTPSource struct {
	url        string
	httpClient *http.Client
}

var _ Source = (*HTTPSource)(nil)

// NewHTTPSource creates a source targeting rawURL. Request deadlines come
// from the Options passed to Locate.
func NewHTTPSource(rawURL string) *HTTPSource {
	return &HTTPSource{
		url:        strings.TrimSpace(rawURL),
		httpClient: &http.Client{},
	}
}

type fix struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (s *HTTPSource) CurrentPosition(ctx context.Context, opts Options) (models.Coordinates, error) {
	u, err := url.Parse(s.url)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("geolocate: parse url: %w", err)
	}
	q := u.Query()
	q.Set("high_accuracy", strconv.FormatBool(opts.HighAccuracy))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("geolocate: create request: %w", err)
	}
	if opts.MaximumAge <= 0 {
		req.Header.Set("Cache-Control", "no-cache")
	} else {
		req.Header.Set("Cache-Control", fmt.Sprintf("max-age=%d", int(opts.MaximumAge.Seconds())))
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("geolocate: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("geolocate: read body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return models.Coordinates{}, ErrPermissionDenied
	default:
		return models.Coordinates{}, fmt.Errorf("geolocate: service returned %d: %s", resp.StatusCode, body)
	}

	var f fix
	if err := json.Unmarshal(body, &f); err != nil {
		return models.Coordinates{}, fmt.Errorf("geolocate: decode fix: %w", err)
	}
	if f.Latitude == nil || f.Longitude == nil {
		return models.Coordinates{}, fmt.Errorf("geolocate: fix is missing latitude or longitude")
	}
	return models.Coordinates{Lat: *f.Latitude, Lng: *f.Longitude}, nil
}
