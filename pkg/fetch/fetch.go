// Package fetch retrieves source documents over HTTP with rate limiting and
// a response size cap.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultUserAgent is the default User-Agent header sent with requests.
const DefaultUserAgent = "citera-document-fetcher/1.0"

// DefaultTimeout is the default per-request timeout.
const DefaultTimeout = 60 * time.Second

// DefaultRequestInterval is the default minimum interval between requests.
const DefaultRequestInterval = 1 * time.Second

// DefaultMaxDocumentSize is the default cap on fetched document size (64 MiB).
const DefaultMaxDocumentSize = 64 << 20

// HTTPClient is an interface matching the Do method of *http.Client.
// This allows injection of mock clients for testing and custom transports.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TransportError reports a failed document retrieval: either a network-level
// failure or a non-success HTTP status.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (transportError *TransportError) Error() string {
	if transportError.Err != nil {
		return fmt.Sprintf("fetch %s: %v", transportError.URL, transportError.Err)
	}
	return fmt.Sprintf("fetch %s: HTTP %d", transportError.URL, transportError.StatusCode)
}

// Unwrap returns the underlying network error, if any.
func (transportError *TransportError) Unwrap() error {
	return transportError.Err
}

// Config holds configuration for a document fetch client.
type Config struct {
	// UserAgent is the User-Agent header sent with requests.
	// Default: DefaultUserAgent.
	UserAgent string

	// Timeout is the per-request timeout, applied when HTTPClient is nil.
	// Default: DefaultTimeout.
	Timeout time.Duration

	// RequestInterval is the minimum interval between requests.
	// Zero disables rate limiting.
	RequestInterval time.Duration

	// MaxDocumentSize caps the number of body bytes read per document.
	// Default: DefaultMaxDocumentSize.
	MaxDocumentSize int64

	// HTTPClient is the underlying HTTP client. If nil, a client with the
	// configured timeout is used.
	HTTPClient HTTPClient
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent:       DefaultUserAgent,
		Timeout:         DefaultTimeout,
		RequestInterval: DefaultRequestInterval,
		MaxDocumentSize: DefaultMaxDocumentSize,
	}
}

// Client fetches documents over HTTP.
type Client struct {
	httpClient      HTTPClient
	userAgent       string
	maxDocumentSize int64
	limiter         *rate.Limiter
}

// NewClient creates a document fetch client from the given configuration.
func NewClient(config Config) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	maxDocumentSize := config.MaxDocumentSize
	if maxDocumentSize <= 0 {
		maxDocumentSize = DefaultMaxDocumentSize
	}

	var limiter *rate.Limiter
	if config.RequestInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(config.RequestInterval), 1)
	}

	return &Client{
		httpClient:      httpClient,
		userAgent:       userAgent,
		maxDocumentSize: maxDocumentSize,
		limiter:         limiter,
	}
}

// Fetch retrieves the document at the given URL and returns its bytes.
// Network failures and non-2xx statuses are returned as *TransportError.
func (client *Client) Fetch(ctx context.Context, documentURL string) ([]byte, error) {
	if client.limiter != nil {
		if err := client.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{URL: documentURL, Err: err}
		}
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, documentURL, nil)
	if err != nil {
		return nil, &TransportError{URL: documentURL, Err: err}
	}
	request.Header.Set("User-Agent", client.userAgent)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, &TransportError{URL: documentURL, Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &TransportError{URL: documentURL, StatusCode: response.StatusCode}
	}

	documentBytes, err := io.ReadAll(io.LimitReader(response.Body, client.maxDocumentSize+1))
	if err != nil {
		return nil, &TransportError{URL: documentURL, Err: err}
	}
	if int64(len(documentBytes)) > client.maxDocumentSize {
		return nil, &TransportError{
			URL: documentURL,
			Err: fmt.Errorf("document exceeds size cap of %d bytes", client.maxDocumentSize),
		}
	}

	return documentBytes, nil
}
