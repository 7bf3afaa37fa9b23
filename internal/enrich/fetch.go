package enrich

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/resilience"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	maxBodyBytes     = 2 << 20
)

// Page is a fetched homepage.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	HTML       string
	LoadTime   time.Duration
}

// Fetcher retrieves a page for signal analysis.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (*Page, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, url string) (*Page, error) { return f(ctx, url) }

// FetchOptions configures the HTTP fetcher.
type FetchOptions struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
}

// HTTPFetcher implements Fetcher with net/http. Only a 200 response that
// is not an anti-bot challenge counts as a successful fetch.
type HTTPFetcher struct {
	client *http.Client
	opts   FetchOptions
}

// NewHTTPFetcher creates an HTTPFetcher. Zero options take defaults of a
// desktop browser user agent, a 10s timeout and one retry.
func NewHTTPFetcher(opts FetchOptions) *HTTPFetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 1
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		opts: opts,
	}
}

// Fetch retrieves targetURL, adding https:// when no scheme is given.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL string) (*Page, error) {
	if !strings.HasPrefix(targetURL, "http://") && !strings.HasPrefix(targetURL, "https://") {
		targetURL = "https://" + targetURL
	}

	retry := resilience.WithRetries(f.opts.MaxRetries)
	retry.OnRetry = resilience.RetryLogger("website", "fetch")

	return resilience.DoVal(ctx, retry, func(ctx context.Context) (*Page, error) {
		return f.fetchOnce(ctx, targetURL)
	})
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, targetURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "enrich: create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-AU,en;q=0.9")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "enrich: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "enrich: read body")
	}
	elapsed := time.Since(start)

	if blocked, kind := DetectBlock(resp, body); blocked {
		return nil, eris.Errorf("enrich: blocked (%s)", kind)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resilience.ForStatus(eris.Errorf("enrich: status %d", resp.StatusCode), resp.StatusCode)
	}

	return &Page{
		URL:        targetURL,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		HTML:       string(body),
		LoadTime:   elapsed,
	}, nil
}
