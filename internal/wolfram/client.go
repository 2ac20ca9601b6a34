// Package wolfram talks to the Wolfram Alpha v2 query API.
package wolfram

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the root of the v2 API; "query" is appended to it.
const DefaultBaseURL = "https://api.wolframalpha.com/v2/"

// Config drives client behaviour.
type Config struct {
	AppID   string
	BaseURL string
	// Timeout of zero leaves the call bounded only by the caller's context.
	Timeout time.Duration
}

// Client performs queries against the Wolfram Alpha API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	appID      string
	log        *zap.Logger
}

// QueryResult is the decoded <queryresult> document.
type QueryResult struct {
	Success bool   `xml:"success,attr"`
	Error   bool   `xml:"error,attr"`
	NumPods int    `xml:"numpods,attr"`
	Pods    []Pod  `xml:"pod"`
	Message string `xml:"error>msg"`
}

// Pod is a titled section of an answer.
type Pod struct {
	Title    string   `xml:"title,attr"`
	ID       string   `xml:"id,attr"`
	Position int      `xml:"position,attr"`
	Error    bool     `xml:"error,attr"`
	Subpods  []Subpod `xml:"subpod"`
}

// Subpod holds one plain-text sub-result.
type Subpod struct {
	Title     string `xml:"title,attr"`
	Plaintext string `xml:"plaintext"`
}

// Plaintext returns the first subpod's text and whether there was one.
func (p Pod) Plaintext() (string, bool) {
	if len(p.Subpods) == 0 {
		return "", false
	}
	return p.Subpods[0].Plaintext, true
}

// NewClient constructs a client. An empty BaseURL selects DefaultBaseURL.
func NewClient(cfg Config, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if log == nil {
		log = zap.NewNop()
	}

	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	return &Client{
		httpClient: httpClient,
		endpoint:   base + "query",
		appID:      cfg.AppID,
		log:        log,
	}
}

// QueryURL returns the full request URL for input.
func (c *Client) QueryURL(input string) string {
	params := url.Values{}
	params.Set("input", input)
	params.Set("appid", c.appID)
	params.Set("async", "true")
	params.Set("reinterpret", "true")
	return c.endpoint + "?" + params.Encode()
}

// Query issues one GET for input and decodes the response.
func (c *Client) Query(ctx context.Context, input string) (*QueryResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.QueryURL(input), nil)
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "get", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read body", StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Op:         "get",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	c.log.Debug("wolfram response", zap.ByteString("body", body))

	var result QueryResult
	if err := xml.Unmarshal(body, &result); err != nil {
		return nil, &TransportError{Op: "decode", StatusCode: resp.StatusCode, Err: err}
	}

	if result.Error {
		msg := strings.TrimSpace(result.Message)
		if msg == "" {
			msg = "query failed"
		}
		return nil, &TransportError{Op: "query", StatusCode: resp.StatusCode, Err: fmt.Errorf("wolfram: %s", msg)}
	}

	return &result, nil
}
