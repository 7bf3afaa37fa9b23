// Package serpapi fetches Google search result pages through SerpAPI and
// converts them into raw ad, local-pack and organic results.
package serpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/resilience"
)

const (
	defaultBaseURL = "https://serpapi.com"
	maxNumResults  = 100
)

// ErrUnauthorized is returned when SerpAPI rejects the API key.
var ErrUnauthorized = eris.New("serpapi: invalid api key")

// Client performs SerpAPI searches.
type Client interface {
	Search(ctx context.Context, businessType, location string) (*model.SerpResults, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithLocale sets the Google domain, country and language parameters.
func WithLocale(googleDomain, gl, hl string) Option {
	return func(c *httpClient) {
		if googleDomain != "" {
			c.googleDomain = googleDomain
		}
		if gl != "" {
			c.gl = gl
		}
		if hl != "" {
			c.hl = hl
		}
	}
}

// WithNumResults sets how many organic results to request, capped at 100.
func WithNumResults(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.num = min(n, maxNumResults)
		}
	}
}

// WithRateLimit throttles requests to rps. Zero or less disables throttling.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		} else {
			c.limiter = nil
		}
	}
}

// WithRetry overrides the retry policy for transient failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	apiKey       string
	baseURL      string
	googleDomain string
	gl           string
	hl           string
	num          int
	http         *http.Client
	limiter      *rate.Limiter
	retry        resilience.RetryConfig
	now          func() time.Time
}

// NewClient creates a SerpAPI client. Defaults target google.com.au in
// English with 20 organic results and one request per second.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:       apiKey,
		baseURL:      defaultBaseURL,
		googleDomain: "google.com.au",
		gl:           "au",
		hl:           "en",
		num:          20,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(1, 1),
		retry:   resilience.DefaultRetryConfig(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	if c.retry.OnRetry == nil {
		c.retry.OnRetry = resilience.RetryLogger("serpapi", "search")
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, businessType, location string) (*model.SerpResults, error) {
	query := businessType + " " + location
	normalized := NormalizeLocation(location)

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("location", normalized)
	params.Set("google_domain", c.googleDomain)
	params.Set("gl", c.gl)
	params.Set("hl", c.hl)
	params.Set("num", strconv.Itoa(c.num))

	log := zap.L().With(zap.String("query", query), zap.String("location", normalized))
	log.Info("serpapi: search")

	body, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		return c.get(ctx, params)
	})
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "serpapi: unmarshal response")
	}

	results, err := resp.toResults(query, location)
	if err != nil {
		return nil, err
	}
	results.Timestamp = c.now().UTC()

	log.Info("serpapi: results",
		zap.Int("ads", len(results.Ads)),
		zap.Int("maps", len(results.Maps)),
		zap.Int("organic", len(results.Organic)),
	)
	return results, nil
}

func (c *httpClient) get(ctx context.Context, params url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "serpapi: rate limit")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "serpapi: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "serpapi: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "serpapi: read response"), resp.StatusCode)
	}

	if err := statusError(resp.StatusCode, respBody); err != nil {
		return nil, err
	}
	return respBody, nil
}

// statusError maps a non-200 response to an error. Rate limiting and
// server errors are transient.
func statusError(code int, body []byte) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusTooManyRequests:
		return resilience.ForStatus(eris.New("serpapi: rate limit exceeded"), code)
	case code >= http.StatusInternalServerError:
		return resilience.NewTransientError(eris.Errorf("serpapi: server error %d", code), code)
	default:
		return eris.Errorf("serpapi: error %d: %s", code, errorMessage(body))
	}
}

// errorMessage prefers the "error" field of a JSON error body.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return string(body)
}
