package location

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mnavarro-dev/storefront-backend/pkg/enums"
	"github.com/mnavarro-dev/storefront-backend/pkg/types"
)

const resolverBodyReadLimit int64 = 1024

// ResolverClient acquires a coarse position fix from a server-side
// geolocation resolver. It is the fallback Provider when the device did
// not report coordinates with the request.
type ResolverClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// ResolverOption configures optional resolver behavior.
type ResolverOption func(*ResolverClient)

// WithResolverHTTPClient overrides the default HTTP client.
func WithResolverHTTPClient(client *http.Client) ResolverOption {
	return func(c *ResolverClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewResolverClient builds the resolver client. An empty base URL is
// allowed; Acquire then fails as unavailable.
func NewResolverClient(baseURL, apiKey string, opts ...ResolverOption) *ResolverClient {
	client := &ResolverClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

type resolvePayload struct {
	HighAccuracy bool  `json:"highAccuracy"`
	MaximumAgeMs int64 `json:"maximumAgeMs"`
}

type resolveResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Acquire implements Provider against the resolver's POST /resolve
// endpoint. HTTP 403 maps to a denied failure, everything else that goes
// wrong is unavailable; the surrounding Strategy supplies the timeout.
func (c *ResolverClient) Acquire(ctx context.Context, opts Options) (*types.GeoPoint, error) {
	if c.baseURL == "" {
		return nil, NewFailure(enums.LocationFailureUnavailable, fmt.Errorf("location resolver is not configured"))
	}

	body, err := json.Marshal(resolvePayload{
		HighAccuracy: opts.EnableHighAccuracy,
		MaximumAgeMs: opts.MaximumAge.Milliseconds(),
	})
	if err != nil {
		return nil, NewFailure(enums.LocationFailureUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/resolve", strings.NewReader(string(body)))
	if err != nil {
		return nil, NewFailure(enums.LocationFailureUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, Classify(err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, resolverBodyReadLimit))
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return nil, NewFailure(enums.LocationFailureDenied, fmt.Errorf("resolver refused the request"))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, NewFailure(enums.LocationFailureUnavailable, fmt.Errorf("resolver returned status %d", resp.StatusCode))
	}

	var decoded resolveResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, resolverBodyReadLimit)).Decode(&decoded); err != nil {
		return nil, NewFailure(enums.LocationFailureUnavailable, err)
	}

	point, err := types.NewGeoPoint(decoded.Latitude, decoded.Longitude)
	if err != nil {
		return nil, NewFailure(enums.LocationFailureUnavailable, err)
	}
	return point, nil
}
