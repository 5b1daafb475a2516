package urlscanio_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
	"urlscan/pkg/metrics"
	"urlscan/pkg/serrors"
	"urlscan/pkg/urlscanio"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// rtFunc allows using a function as an http.RoundTripper.
type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(t *testing.T, fn rtFunc) (*urlscanio.Client, *bytes.Buffer) {
	t.Helper()

	diag := &bytes.Buffer{}
	c, err := urlscanio.New("test-key", urlscanio.Options{
		HTTPClient:  &http.Client{Transport: fn},
		Diagnostics: diag,
	})
	require.NoError(t, err)

	return c, diag
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestNew_emptyKey(t *testing.T) {
	c, err := urlscanio.New("", urlscanio.Options{})
	require.Nil(t, c)
	require.Error(t, err)
	require.Equal(t, "API key is required.", err.Error())
	require.ErrorIs(t, err, serrors.ErrConfiguration)
}

func TestNew_success(t *testing.T) {
	c, err := urlscanio.New("any-key", urlscanio.Options{})
	require.NoError(t, err)
	require.NotNil(t, c)
}

func TestClient_Submit_success(t *testing.T) {
	c, diag := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "urlscan.io", r.URL.Host)
		require.Equal(t, "/api/v1/scan", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "test-key", r.Header.Get("API-Key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "https://example.com", body["url"])
		require.Equal(t, "unlisted", body["visibility"])
		require.Equal(t, []any{"phishing", "weekly"}, body["tags"])
		require.Equal(t, "de", body["country"])

		//nolint: lll
		return jsonResponse(http.StatusOK, `{"message":"Submission successful","uuid":"abc-123","result":"https://urlscan.io/result/abc-123/","api":"https://urlscan.io/api/v1/result/abc-123/","visibility":"unlisted","options":{"useragent":"test-ua"},"url":"https://example.com","country":"de"}`), nil
	})

	resp := c.Submit(context.Background(), "https://example.com", &urlscanio.SubmitOptions{
		Visibility: urlscanio.VisibilityUnlisted,
		Tags:       []string{"phishing", "weekly"},
		Country:    "de",
	})
	require.NotNil(t, resp)
	require.Equal(t, "Submission successful", resp.Message)
	require.Equal(t, "abc-123", resp.UUID)
	require.Equal(t, "https://urlscan.io/result/abc-123/", resp.Result)
	require.Equal(t, "https://urlscan.io/api/v1/result/abc-123/", resp.API)
	require.Equal(t, "unlisted", resp.Visibility)
	require.Equal(t, "test-ua", resp.Options.UserAgent)
	require.Equal(t, "de", resp.Country)
	require.Empty(t, diag.String(), "successful submit must not write diagnostics")
}

func TestClient_Submit_noOptions(t *testing.T) {
	c, _ := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.JSONEq(t, `{"url":"https://example.com"}`, string(raw), "optional fields must be omitted")

		return jsonResponse(http.StatusOK, `{"uuid":"abc-123"}`), nil
	})

	resp := c.Submit(context.Background(), "https://example.com", nil)
	require.NotNil(t, resp)
	require.Equal(t, "abc-123", resp.UUID)
}

func TestClient_Submit_non2xx(t *testing.T) {
	c, diag := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, "upstream broke"), nil
	})

	resp := c.Submit(context.Background(), "https://example.com", nil)
	require.Nil(t, resp, "failed submit must yield an absent result, not an error")
	require.Equal(t, "Error: HTTP error! status: 500\n", diag.String())
}

func TestClient_Submit_transportError(t *testing.T) {
	c, diag := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	resp := c.Submit(context.Background(), "https://example.com", nil)
	require.Nil(t, resp)
	require.True(t, strings.HasPrefix(diag.String(), "Error: "), "diagnostic line must carry the Error: tag")
	require.Contains(t, diag.String(), "connection refused")
}

func TestClient_Submit_malformedBody(t *testing.T) {
	c, diag := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, "{not json"), nil
	})

	resp := c.Submit(context.Background(), "https://example.com", nil)
	require.Nil(t, resp, "malformed JSON is swallowed like any other runtime failure")
	require.True(t, strings.HasPrefix(diag.String(), "Error: "))
}

func TestClient_Result_success(t *testing.T) {
	//nolint: lll
	body := `{"task":{"uuid":"scan-123","url":"https://example.com"},"page":{"domain":"example.com","country":"US"},"lists":{"ips":["93.184.216.34"]},"data":{"requests":[]},"meta":{"processors":{}},"stats":{"malicious":0},"verdicts":{"overall":{"malicious":false,"score":0}}}`

	c, diag := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/result/scan-123", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("API-Key"))
		require.Empty(t, r.Header.Get("Content-Type"), "GET requests carry no body")

		return jsonResponse(http.StatusOK, body), nil
	})

	resp := c.Result(context.Background(), "scan-123")
	require.NotNil(t, resp)
	require.JSONEq(t, `{"uuid":"scan-123","url":"https://example.com"}`, string(resp.Task))
	require.JSONEq(t, `{"domain":"example.com","country":"US"}`, string(resp.Page))
	require.JSONEq(t, `{"overall":{"malicious":false,"score":0}}`, string(resp.Verdicts))
	require.Empty(t, diag.String())
}

func TestClient_Result_404(t *testing.T) {
	c, diag := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, "not found"), nil
	})

	resp := c.Result(context.Background(), "scan-404")
	require.Nil(t, resp)
	require.Equal(t, "Error: HTTP error! status: 404\n", diag.String())
}

func TestClient_Search_emptyTerm(t *testing.T) {
	c, diag := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		t.Fatal("no request must be issued for an empty term")

		return nil, nil
	})

	resp, err := c.Search(context.Background(), "", nil)
	require.Nil(t, resp)
	require.Error(t, err)
	require.Equal(t, "Search term is required.", err.Error())
	require.ErrorIs(t, err, serrors.ErrValidation)
	require.Empty(t, diag.String(), "a validation failure is loud, not logged")
}

func TestClient_Search_success(t *testing.T) {
	c, diag := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/search", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("API-Key"))
		require.Equal(t, "domain:example.com", r.URL.Query().Get("q"))
		require.Equal(t, "50", r.URL.Query().Get("size"))
		require.Equal(t, "1234,abcd", r.URL.Query().Get("search_after"))

		//nolint: lll
		return jsonResponse(http.StatusOK, `{"results":[{"task":{"uuid":"a"}},{"task":{"uuid":"b"}}],"total":2,"took":12,"has_more":false}`), nil
	})

	resp, err := c.Search(context.Background(), "domain:example.com", &urlscanio.SearchOptions{
		Size:        50,
		SearchAfter: "1234,abcd",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Len(t, resp.Results, 2)
	require.JSONEq(t, `{"task":{"uuid":"a"}}`, string(resp.Results[0]))
	require.Equal(t, 2, resp.Total)
	require.Equal(t, 12, resp.Took)
	require.False(t, resp.HasMore)
	require.Empty(t, diag.String())
}

func TestClient_Search_termOnly(t *testing.T) {
	c, _ := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		require.Equal(t, "q=example", r.URL.RawQuery, "no options means the bare q parameter")

		return jsonResponse(http.StatusOK, `{"results":[],"total":0,"took":3,"has_more":false}`), nil
	})

	resp, err := c.Search(context.Background(), "example", nil)
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Empty(t, resp.Results)
}

func TestClient_Search_forbidden(t *testing.T) {
	c, diag := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusForbidden, "forbidden"), nil
	})

	resp, err := c.Search(context.Background(), "example", nil)
	require.NoError(t, err, "runtime failures never surface as errors")
	require.Nil(t, resp)
	require.Equal(t, "Error: HTTP error! status: 403\n", diag.String())
}

func TestClient_metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	status := http.StatusOK
	c, err := urlscanio.New("test-key", urlscanio.Options{
		HTTPClient: &http.Client{Transport: rtFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(status, `{"uuid":"abc"}`), nil
		})},
		Diagnostics: &bytes.Buffer{},
		Metrics:     m,
	})
	require.NoError(t, err)

	require.NotNil(t, c.Submit(context.Background(), "https://example.com", nil))
	status = http.StatusBadGateway
	require.Nil(t, c.Submit(context.Background(), "https://example.com", nil))

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, fam := range families {
		if fam.GetName() != "urlscan_client_requests_total" {
			continue
		}
		for _, metric := range fam.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			counts[labels["operation"]+"/"+labels["outcome"]] = metric.GetCounter().GetValue()
		}
	}
	require.InDelta(t, 1.0, counts["submit/"+metrics.OutcomeSuccess], 0)
	require.InDelta(t, 1.0, counts["submit/"+metrics.OutcomeFailure], 0)
}

func TestClient_contextCancellation(t *testing.T) {
	c, diag := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		<-r.Context().Done()

		return nil, r.Context().Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	resp := c.Result(ctx, "scan-123")
	require.Nil(t, resp, "cancellation is a runtime failure like any other")
	require.True(t, strings.HasPrefix(diag.String(), "Error: "))
}
