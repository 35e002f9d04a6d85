package wikibase

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rattsdata/citera/pkg/decision"
)

// DefaultAPIEndpoint is the Wikidata MediaWiki API endpoint.
const DefaultAPIEndpoint = "https://www.wikidata.org/w/api.php"

// DefaultAPIUserAgent is the default User-Agent header sent with API requests.
const DefaultAPIUserAgent = "citera-wikibase-client/1.0"

// DefaultAPITimeout is the default per-request timeout for API calls.
const DefaultAPITimeout = 60 * time.Second

// WriteError reports a rejected entity edit. Edits failing mid-run usually
// indicate a broken session or credential rather than a per-item data
// problem, so callers treat this as fatal.
type WriteError struct {
	Item string
	Code string
	Info string
}

// Error implements the error interface.
func (writeError *WriteError) Error() string {
	return fmt.Sprintf("edit of %s rejected: %s (%s)", writeError.Item, writeError.Code, writeError.Info)
}

// ClientConfig holds configuration for a write Client.
type ClientConfig struct {
	// APIEndpoint is the MediaWiki API endpoint URL.
	// Default: DefaultAPIEndpoint.
	APIEndpoint string

	// UserAgent is the User-Agent header sent with API requests.
	// Default: DefaultAPIUserAgent.
	UserAgent string

	// Timeout is the per-request timeout.
	// Default: DefaultAPITimeout.
	Timeout time.Duration

	// EditGroup tags every edit summary so a whole run can be reviewed (and
	// undone) as a group. If empty, a random group identifier is generated.
	EditGroup string
}

// DefaultClientConfig returns a ClientConfig with sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		APIEndpoint: DefaultAPIEndpoint,
		UserAgent:   DefaultAPIUserAgent,
		Timeout:     DefaultAPITimeout,
	}
}

// NewEditGroupID returns a random 48-bit hexadecimal edit-group identifier.
func NewEditGroupID() string {
	var randomBytes [6]byte
	if _, err := rand.Read(randomBytes[:]); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// time-derived value rather than aborting the run.
		return fmt.Sprintf("%x", time.Now().UnixNano()&0xffffffffffff)
	}
	value := binary.BigEndian.Uint64(append([]byte{0, 0}, randomBytes[:]...))
	return fmt.Sprintf("%x", value)
}

// Client appends citation statements to knowledge-base entities through the
// MediaWiki action API. The session (cookies plus CSRF token) is established
// once with Login and threaded through every subsequent write; there is no
// ambient process-wide login state.
type Client struct {
	httpClient *http.Client
	endpoint   string
	userAgent  string
	editGroup  string
	csrfToken  string
	loggedIn   bool
}

// NewClient creates a write client from the given configuration.
// Call Login before writing.
func NewClient(config ClientConfig) (*Client, error) {
	cookieJar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	endpoint := config.APIEndpoint
	if endpoint == "" {
		endpoint = DefaultAPIEndpoint
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultAPIUserAgent
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultAPITimeout
	}

	editGroup := config.EditGroup
	if editGroup == "" {
		editGroup = NewEditGroupID()
	}

	return &Client{
		httpClient: &http.Client{Jar: cookieJar, Timeout: timeout},
		endpoint:   endpoint,
		userAgent:  userAgent,
		editGroup:  editGroup,
	}, nil
}

// EditGroup returns the edit-group identifier tagging this client's edits.
func (client *Client) EditGroup() string {
	return client.editGroup
}

// Login establishes an API session with the given bot credentials.
func (client *Client) Login(ctx context.Context, username string, password string) error {
	loginToken, err := client.fetchToken(ctx, "login")
	if err != nil {
		return fmt.Errorf("failed to fetch login token: %w", err)
	}

	formData := url.Values{}
	formData.Set("action", "login")
	formData.Set("lgname", username)
	formData.Set("lgpassword", password)
	formData.Set("lgtoken", loginToken)
	formData.Set("format", "json")

	responseBody, err := client.post(ctx, formData)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}

	var loginResponse struct {
		Login struct {
			Result string `json:"result"`
			Reason string `json:"reason"`
		} `json:"login"`
	}
	if err := json.Unmarshal(responseBody, &loginResponse); err != nil {
		return fmt.Errorf("failed to decode login response: %w", err)
	}
	if loginResponse.Login.Result != "Success" {
		return fmt.Errorf("login rejected: %s %s", loginResponse.Login.Result, loginResponse.Login.Reason)
	}

	client.loggedIn = true
	client.csrfToken = ""
	return nil
}

// AppendCitationLinks appends the given links as "cites" statements on the
// decision entity. The merge is additive: existing statements on the entity
// are preserved, and the API deduplicates re-added claims. A rejected edit
// returns a *WriteError.
func (client *Client) AppendCitationLinks(ctx context.Context, item string, links []decision.CitationLink) error {
	if len(links) == 0 {
		return nil
	}
	if !client.loggedIn {
		return fmt.Errorf("cannot edit %s: client is not logged in", item)
	}

	if client.csrfToken == "" {
		csrfToken, err := client.fetchToken(ctx, "csrf")
		if err != nil {
			return fmt.Errorf("failed to fetch csrf token: %w", err)
		}
		client.csrfToken = csrfToken
	}

	claims := make([]Claim, 0, len(links))
	for _, link := range links {
		claims = append(claims, BuildCitesClaim(link))
	}

	claimData, err := json.Marshal(map[string][]Claim{"claims": claims})
	if err != nil {
		return fmt.Errorf("failed to encode claims for %s: %w", item, err)
	}

	formData := url.Values{}
	formData.Set("action", "wbeditentity")
	formData.Set("id", item)
	formData.Set("data", string(claimData))
	formData.Set("token", client.csrfToken)
	formData.Set("summary", client.editSummary())
	formData.Set("format", "json")

	responseBody, err := client.post(ctx, formData)
	if err != nil {
		return fmt.Errorf("edit request for %s failed: %w", item, err)
	}

	var editResponse struct {
		Success int `json:"success"`
		Error   *struct {
			Code string `json:"code"`
			Info string `json:"info"`
		} `json:"error"`
	}
	if err := json.Unmarshal(responseBody, &editResponse); err != nil {
		return fmt.Errorf("failed to decode edit response for %s: %w", item, err)
	}
	if editResponse.Error != nil {
		return &WriteError{Item: item, Code: editResponse.Error.Code, Info: editResponse.Error.Info}
	}
	if editResponse.Success != 1 {
		return &WriteError{Item: item, Code: "unknown", Info: "edit did not report success"}
	}

	return nil
}

// editSummary renders the edit summary with the edit-group review link.
func (client *Client) editSummary() string {
	return fmt.Sprintf("Add citation from Supreme Court cases ([[:toollabs:editgroups/b/CB/%s|details]])",
		client.editGroup)
}

// fetchToken retrieves a token of the given type ("login" or "csrf").
func (client *Client) fetchToken(ctx context.Context, tokenType string) (string, error) {
	tokenURL := fmt.Sprintf("%s?action=query&meta=tokens&type=%s&format=json", client.endpoint, tokenType)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, tokenURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	request.Header.Set("User-Agent", client.userAgent)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned HTTP %d", response.StatusCode)
	}

	var tokenResponse struct {
		Query struct {
			Tokens map[string]string `json:"tokens"`
		} `json:"query"`
	}
	if err := json.NewDecoder(response.Body).Decode(&tokenResponse); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	token, exists := tokenResponse.Query.Tokens[tokenType+"token"]
	if !exists || token == "" {
		return "", fmt.Errorf("no %s token in response", tokenType)
	}
	return token, nil
}

// post sends a form-encoded POST to the API endpoint and returns the body.
func (client *Client) post(ctx context.Context, formData url.Values) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.endpoint,
		strings.NewReader(formData.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("User-Agent", client.userAgent)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api endpoint returned HTTP %d", response.StatusCode)
	}

	return io.ReadAll(response.Body)
}
