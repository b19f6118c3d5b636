package secsheets

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
)

const (
	Version = "0.1.0"

	// SecEmailEnvVar is the environment variable name for the SEC
	// contact email.
	SecEmailEnvVar = "SEC_EMAIL"

	// Default quota published by the SEC for the data.sec.gov APIs.
	DefaultMaxCalls = 10
	DefaultWindow   = time.Minute

	companyListURL     = "https://www.sec.gov/files/company_tickers.json"
	submissionsURLFmt  = "https://data.sec.gov/submissions/CIK%s.json"
	companyFactsURLFmt = "https://data.sec.gov/api/xbrl/companyfacts/CIK%s.json"
	companyConceptFmt  = "https://data.sec.gov/api/xbrl/companyConcept/CIK%s/%s/%s.json"
)

// GetSecEmail retrieves the contact email from the environment or returns
// an error. The SEC requires an identifying email in the User-Agent.
func GetSecEmail() (string, error) {
	email := os.Getenv(SecEmailEnvVar)
	if email == "" {
		return "", fmt.Errorf("SEC email required: set %s environment variable or use --email flag", SecEmailEnvVar)
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return "", fmt.Errorf("invalid email format: %s", email)
	}
	if strings.HasSuffix(email, "example.com") {
		return "", fmt.Errorf("use a real email address, not example.com: %s", email)
	}
	return email, nil
}

// BuildUserAgent creates a proper SEC User-Agent string
func BuildUserAgent(email string) string {
	return fmt.Sprintf("go-secsheets/%s (%s)", Version, email)
}

// Client is a rate-limited HTTP client for the SEC EDGAR JSON APIs.
//
// Construct one Client per process and pass it to every fetching
// component: the wrapped limiter models the SEC's global quota, so
// components must not create independent clients expecting independent
// quotas.
type Client struct {
	httpClient *http.Client
	limiter    *RateLimiter
	userAgent  string
}

// ClientOption allows for customization of the client
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// NewClient creates an EDGAR client sharing the given limiter. A nil
// limiter gets the SEC default quota (10 calls per minute).
func NewClient(limiter *RateLimiter, email string, opts ...ClientOption) *Client {
	if limiter == nil {
		limiter = NewRateLimiter(DefaultMaxCalls, DefaultWindow)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    limiter,
		userAgent:  BuildUserAgent(email),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs a rate-limited GET and returns the response body.
// Any transport error or non-2xx status yields a nil payload: callers
// treat nil as "no data" and apply their own retry or abort policy
// rather than inspecting an error.
func (c *Client) Fetch(url string) []byte {
	c.limiter.Acquire()

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	return body
}

// FetchJSON fetches url and decodes the payload into v. It reports false
// when no data was available or the payload was not valid JSON.
func (c *Client) FetchJSON(url string, v any) bool {
	body := c.Fetch(url)
	if body == nil {
		return false
	}
	return json.Unmarshal(body, v) == nil
}

// padCIK zero-pads a CIK to the 10 digits the data.sec.gov URLs expect.
func padCIK(cik string) string {
	return fmt.Sprintf("%010s", cik)
}
