package banapi

import (
	"context"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/mtgban/go-banprice/mtgban"
)

// Requests per second allowed by default, bursting up to the concurrency
const DefaultRequestRate = 20

type Client struct {
	LogCallback mtgban.LogCallbackFunc

	// API key, sent as the sig parameter
	Signature string

	// Address of the API, DefaultBaseURL if empty
	BaseURL string

	// Number of cards fetched at the same time in batch operations
	MaxConcurrency int

	// Names used for the vendors found in the responses
	VendorNames mtgban.VendorNames

	client *retryablehttp.Client
}

type limitTransport struct {
	Parent  http.RoundTripper
	Limiter *rate.Limiter
}

func (t *limitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	err := t.Limiter.Wait(req.Context())
	if err != nil {
		return nil, err
	}
	return t.Parent.RoundTrip(req)
}

func NewClient(sig string) *Client {
	client := retryablehttp.NewClient()
	client.Logger = nil
	// Errors are surfaced to the caller, only transport failures may be
	// retried, and only if explicitly enabled
	client.RetryMax = 0
	client.CheckRetry = connectionRetryPolicy
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.HTTPClient = cleanhttp.DefaultPooledClient()
	client.HTTPClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	client.HTTPClient.Transport = &limitTransport{
		Parent:  client.HTTPClient.Transport,
		Limiter: rate.NewLimiter(DefaultRequestRate, DefaultConcurrency),
	}

	return &Client{
		Signature:      sig,
		BaseURL:        DefaultBaseURL,
		MaxConcurrency: DefaultConcurrency,
		VendorNames:    mtgban.DefaultVendorNames,
		client:         client,
	}
}

func connectionRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return err != nil, nil
}

// SetRetryMax enables retrying requests that failed to connect
func (c *Client) SetRetryMax(retries int) {
	c.client.RetryMax = retries
}

// SetRateLimit changes how many requests per second may be sent
func (c *Client) SetRateLimit(limit rate.Limit, burst int) {
	parent := c.client.HTTPClient.Transport
	lt, ok := parent.(*limitTransport)
	if ok {
		parent = lt.Parent
	}
	c.client.HTTPClient.Transport = &limitTransport{
		Parent:  parent,
		Limiter: rate.NewLimiter(limit, burst),
	}
}

func (c *Client) printf(format string, a ...interface{}) {
	if c.LogCallback != nil {
		c.LogCallback("[BAN] "+format, a...)
	}
}

func (c *Client) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return c.BaseURL
}

func (c *Client) names() mtgban.VendorNames {
	if c.VendorNames == nil {
		return mtgban.DefaultVendorNames
	}
	return c.VendorNames
}

// RedirectURL returns the link to the listing of the card on the vendor site
func (c *Client) RedirectURL(vendorTag, cardId string) string {
	return BuildRedirectURL(c.baseURL(), vendorTag, cardId)
}

// FetchPrices downloads and decodes the prices of identifier (a card id, a
// set code, or "all"). Both sides of the payload are decoded, whatever was
// returned for the endpoint.
func (c *Client) FetchPrices(ctx context.Context, endpoint Endpoint, identifier string, params RequestParams) (*Prices, error) {
	if identifier == "" {
		return nil, &ValidationError{Field: "identifier", Message: "is required"}
	}
	if params.Sig == "" {
		params.Sig = c.Signature
	}

	link := BuildURL(c.baseURL(), endpoint, identifier, params)
	c.printf("Requesting %s %s", endpoint, identifier)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.printf("Request for %s failed: %s", identifier, err)
		return nil, err
	}

	data, err := readResponse(resp)
	if err != nil {
		c.printf("Request for %s failed: %s", identifier, err)
		return nil, err
	}

	prices, err := DecodeAll(data)
	if err != nil {
		c.printf("Decoding %s failed: %s", identifier, err)
		return nil, err
	}

	return prices, nil
}
