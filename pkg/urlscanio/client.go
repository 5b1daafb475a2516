// Package urlscanio is a minimal client for the public urlscan.io REST API.
// It wraps the scan submission, result retrieval and search endpoints, each a
// single HTTP request against a fixed base URL authenticated with an API key.
//
// Failure semantics are deliberately asymmetric: the two precondition checks
// (missing API key at construction, empty search term) fail loudly with a
// semantic error, while every runtime failure — non-2xx status, transport
// error, malformed JSON — is swallowed. A swallowed failure yields an absent
// result and exactly one "Error: <message>" line on the diagnostic writer;
// that line is the only failure signal callers can observe.
package urlscanio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
	"urlscan/pkg/logger"
	"urlscan/pkg/metrics"
	"urlscan/pkg/serrors"

	"go.uber.org/zap"
)

// BaseURL is the root of the urlscan.io REST API. It is fixed; the client
// offers no way to point elsewhere.
const BaseURL = "https://urlscan.io/api/v1/"

// Client talks to the urlscan.io REST API. Its fields are read-only after
// construction, so it is safe for concurrent use.
type Client struct {
	httpClient *http.Client     // httpClient performs HTTP requests to urlscan.io
	apiKey     string           // apiKey is sent as the API-Key header on every request
	diag       io.Writer        // diag receives the single-line failure reports
	metrics    *metrics.Metrics // metrics is optional request instrumentation
}

// Options carries the optional collaborators of a Client. The zero value is
// valid: requests go through http.DefaultClient and diagnostics to stderr.
type Options struct {
	// HTTPClient performs the outbound requests. Timeouts and cancellation
	// are entirely its and the caller context's concern; the client adds no
	// policy of its own.
	HTTPClient *http.Client
	// Diagnostics receives one "Error: <message>" line per swallowed
	// failure. Defaults to os.Stderr.
	Diagnostics io.Writer
	// Metrics, when set, records request counts and latency per operation.
	Metrics *metrics.Metrics
}

// New constructs a Client holding the given API key. The key must be
// non-empty; otherwise construction fails with serrors.ErrConfiguration.
func New(apiKey string, opts Options) (*Client, error) {
	if apiKey == "" {
		return nil, serrors.With(serrors.ErrConfiguration, "API key is required.")
	}

	c := &Client{
		httpClient: opts.HTTPClient,
		apiKey:     apiKey,
		diag:       opts.Diagnostics,
		metrics:    opts.Metrics,
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.diag == nil {
		c.diag = os.Stderr
	}

	return c, nil
}

// Submit submits the target URL to urlscan.io for scanning. The target is not
// validated locally; the remote service decides whether it is scannable.
// On success the parsed submission acknowledgement is returned. On any
// failure the return value is nil and the failure is reported only through
// the diagnostic writer.
func (c *Client) Submit(ctx context.Context, target string, opts *SubmitOptions) *ScanResponse {
	body := scanRequest{URL: target}
	if opts != nil {
		body.Visibility = opts.Visibility
		body.Tags = opts.Tags
		body.CustomAgent = opts.CustomAgent
		body.Referer = opts.Referer
		body.OverrideSafety = opts.OverrideSafety
		body.Country = opts.Country
	}

	var out ScanResponse
	if !c.do(ctx, "submit", http.MethodPost, BaseURL+"scan", &body, &out) {
		return nil
	}

	return &out
}

// Result fetches the scan report for the given scan ID. The ID is opaque and
// passed through unvalidated. Success and failure behave exactly like Submit.
func (c *Client) Result(ctx context.Context, id string) *ResultResponse {
	var out ResultResponse
	if !c.do(ctx, "result", http.MethodGet, BaseURL+"result/"+id, nil, &out) {
		return nil
	}

	return &out
}

// Search queries prior scans. An empty term fails synchronously with
// serrors.ErrValidation before any request is issued; that is the only error
// this method returns. Runtime failures behave like Submit: (nil, nil) plus a
// diagnostic line.
func (c *Client) Search(ctx context.Context, term string, opts *SearchOptions) (*SearchResponse, error) {
	if term == "" {
		return nil, serrors.With(serrors.ErrValidation, "Search term is required.")
	}

	query := "q=" + url.QueryEscape(term)
	if opts != nil {
		if opts.Size > 0 {
			query += "&size=" + strconv.Itoa(opts.Size)
		}
		if opts.SearchAfter != "" {
			query += "&search_after=" + url.QueryEscape(opts.SearchAfter)
		}
	}

	var out SearchResponse
	if !c.do(ctx, "search", http.MethodGet, BaseURL+"search?"+query, nil, &out) {
		return nil, nil
	}

	return &out, nil
}

// do performs one API request and decodes the JSON response into out. It
// reports success through its return value only; every failure has already
// been written to the diagnostic writer by the time it returns false.
func (c *Client) do(ctx context.Context, operation, method, requestURL string, body, out any) bool {
	start := time.Now()
	ok := c.roundTrip(ctx, method, requestURL, body, out)

	outcome := metrics.OutcomeSuccess
	if !ok {
		outcome = metrics.OutcomeFailure
	}
	c.metrics.Observe(operation, outcome, time.Since(start))

	return ok
}

func (c *Client) roundTrip(ctx context.Context, method, requestURL string, body, out any) bool {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			c.report(ctx, err)

			return false
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		c.report(ctx, err)

		return false
	}
	req.Header.Set("API-Key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug(ctx, "issuing urlscan.io request",
		zap.String("method", method),
		zap.String("url", requestURL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.report(ctx, err)

		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.report(ctx, fmt.Errorf("HTTP error! status: %d", resp.StatusCode))

		return false
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.report(ctx, err)

		return false
	}

	return true
}

// report writes the single observable failure signal. The "Error: <message>"
// line on the diagnostic writer is a compatibility contract; keep its format
// stable.
func (c *Client) report(ctx context.Context, err error) {
	_, _ = fmt.Fprintf(c.diag, "Error: %v\n", err)
	logger.Debug(ctx, "request failed", zap.Error(err))
}
