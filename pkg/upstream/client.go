package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/mnavarro-dev/storefront-backend/pkg/errors"
	"github.com/mnavarro-dev/storefront-backend/pkg/types"
)

const (
	requestBodyReadLimit int64 = 1024
	apiKeyHeader               = "X-Api-Key"
)

// Client talks to the order-ingestion backend the storefront fronts:
// phone authentication, the paginated product catalog, and order submission.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds the upstream backend client for the given base URL.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("upstream base url is required")
	}

	client := &Client{
		baseURL:    trimmed,
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return client, nil
}

// Authenticate exchanges a phone number for an upstream access token.
func (c *Client) Authenticate(ctx context.Context, phone string) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "upstream client not configured")
	}
	if strings.TrimSpace(phone) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}

	var resp struct {
		Token string `json:"token"`
	}
	err := c.post(ctx, "/auth", map[string]string{"phone": strings.TrimSpace(phone)}, &resp)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeUnauthorized {
			return "", err
		}
		return "", err
	}
	if resp.Token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "login rejected by backend")
	}
	return resp.Token, nil
}

// CatalogPage is one page of the upstream product listing.
type CatalogPage struct {
	Items    []types.Product `json:"items"`
	LastPage int             `json:"lastPage"`
}

// FetchCatalog retrieves the requested catalog page.
func (c *Client) FetchCatalog(ctx context.Context, page int) (*CatalogPage, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "upstream client not configured")
	}
	if page < 1 {
		page = 1
	}

	url := fmt.Sprintf("%s/products?page=%d", c.baseURL, page)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build catalog request")
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute catalog request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp, "catalog request failed")
	}

	var pageResp CatalogPage
	if err := json.NewDecoder(resp.Body).Decode(&pageResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog response")
	}
	if pageResp.LastPage < 1 {
		pageResp.LastPage = 1
	}
	return &pageResp, nil
}

// OrderPayloadItem is the wire shape of one cart line inside an order request.
type OrderPayloadItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Category   string  `json:"category"`
	Image      string  `json:"image"`
	Quantity   int     `json:"quantity"`
	OfferPrice float64 `json:"offerPrice"`
}

// OrderPayload is the outbound order request. The backend schema requires
// numeric latitude/longitude, so an unresolved position is coerced to 0 here
// and flagged through locationResolved so a real 0,0 fix stays distinguishable.
type OrderPayload struct {
	CustomerName     string             `json:"customerName"`
	CustomerPhone    string             `json:"customerPhone"`
	CustomerType     string             `json:"customerType"`
	Latitude         float64            `json:"latitude"`
	Longitude        float64            `json:"longitude"`
	LocationResolved bool               `json:"locationResolved"`
	Items            []OrderPayloadItem `json:"items"`
	Total            float64            `json:"total"`
	TotalOffer       float64            `json:"totalOffer"`
	ChatID           *string            `json:"chat_id,omitempty"`
}

// SubmitOrder forwards the order request. The backend replies with a single
// accepted flag; false and transport errors are both full failures and the
// caller retries wholesale.
func (c *Client) SubmitOrder(ctx context.Context, payload OrderPayload) (bool, error) {
	if c == nil {
		return false, pkgerrors.New(pkgerrors.CodeDependency, "upstream client not configured")
	}

	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.post(ctx, "/orders", payload, &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

func (c *Client) post(ctx context.Context, path string, body any, dest any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "login rejected by backend")
	case resp.StatusCode != http.StatusOK:
		return c.statusError(resp, "request failed")
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
}

func (c *Client) statusError(resp *http.Response, msg string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
	return pkgerrors.Wrap(
		pkgerrors.CodeDependency,
		fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		msg,
	)
}
