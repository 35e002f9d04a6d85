package wikibase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultSPARQLEndpoint is the Wikidata Query Service endpoint.
const DefaultSPARQLEndpoint = "https://query.wikidata.org/sparql"

// DefaultSPARQLUserAgent is the default User-Agent header sent with queries.
const DefaultSPARQLUserAgent = "citera-sparql-client/1.0"

// DefaultSPARQLTimeout is the default per-query timeout.
const DefaultSPARQLTimeout = 120 * time.Second

// DefaultSPARQLRequestInterval is the default minimum interval between
// queries, keeping load on the public query service bounded.
const DefaultSPARQLRequestInterval = 500 * time.Millisecond

// HTTPClient is an interface matching the Do method of *http.Client.
// This allows injection of mock clients for testing and custom transports.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// SPARQLConfig holds configuration for a SPARQLClient.
type SPARQLConfig struct {
	// Endpoint is the SPARQL query endpoint URL.
	// Default: DefaultSPARQLEndpoint.
	Endpoint string

	// UserAgent is the User-Agent header sent with queries.
	// Default: DefaultSPARQLUserAgent.
	UserAgent string

	// Timeout is the per-query timeout, applied when HTTPClient is nil.
	// Default: DefaultSPARQLTimeout.
	Timeout time.Duration

	// RequestInterval is the minimum interval between queries.
	// Zero disables rate limiting.
	RequestInterval time.Duration

	// HTTPClient is the underlying HTTP client. If nil, a client with the
	// configured timeout is used.
	HTTPClient HTTPClient
}

// DefaultSPARQLConfig returns a SPARQLConfig with sensible defaults.
func DefaultSPARQLConfig() SPARQLConfig {
	return SPARQLConfig{
		Endpoint:        DefaultSPARQLEndpoint,
		UserAgent:       DefaultSPARQLUserAgent,
		Timeout:         DefaultSPARQLTimeout,
		RequestInterval: DefaultSPARQLRequestInterval,
	}
}

// BindingValue is one cell of a SPARQL result row.
type BindingValue struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Language string `json:"xml:lang,omitempty"`
}

// Binding is one SPARQL result row, keyed by variable name.
type Binding map[string]BindingValue

// SPARQLClient executes SPARQL queries against a query service endpoint.
type SPARQLClient struct {
	httpClient HTTPClient
	endpoint   string
	userAgent  string
	limiter    *rate.Limiter
}

// NewSPARQLClient creates a SPARQL client from the given configuration.
func NewSPARQLClient(config SPARQLConfig) *SPARQLClient {
	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = DefaultSPARQLTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = DefaultSPARQLEndpoint
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultSPARQLUserAgent
	}

	var limiter *rate.Limiter
	if config.RequestInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(config.RequestInterval), 1)
	}

	return &SPARQLClient{
		httpClient: httpClient,
		endpoint:   endpoint,
		userAgent:  userAgent,
		limiter:    limiter,
	}
}

// Query executes a SPARQL query and returns the result bindings.
func (sparqlClient *SPARQLClient) Query(ctx context.Context, query string) ([]Binding, error) {
	if sparqlClient.limiter != nil {
		if err := sparqlClient.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("sparql query cancelled: %w", err)
		}
	}

	formData := url.Values{}
	formData.Set("query", query)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, sparqlClient.endpoint,
		strings.NewReader(formData.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create sparql request: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("Accept", "application/sparql-results+json")
	request.Header.Set("User-Agent", sparqlClient.userAgent)

	response, err := sparqlClient.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("sparql query failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return nil, fmt.Errorf("sparql endpoint returned HTTP %d: %s",
			response.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		Results struct {
			Bindings []Binding `json:"bindings"`
		} `json:"results"`
	}
	if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode sparql results: %w", err)
	}

	return result.Results.Bindings, nil
}

// ItemIDFromURI extracts the item identifier from a full entity URI, e.g.
// "http://www.wikidata.org/entity/Q123" → "Q123". A URI without a slash is
// returned unchanged.
func ItemIDFromURI(entityURI string) string {
	if slashIndex := strings.LastIndex(entityURI, "/"); slashIndex >= 0 {
		return entityURI[slashIndex+1:]
	}
	return entityURI
}
