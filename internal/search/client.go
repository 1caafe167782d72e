package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"voiceorder/internal/model"
)

// Default paths of the two search endpoints. Both share the same response
// shape; one is keyed by article code, the other by customer name.
const (
	ArticlesPath  = "/api/search/articles"
	CustomersPath = "/api/search/customers"
)

// ClientOptions configures the search client.
type ClientOptions struct {
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
	UserAgent  string
}

// Client queries one endpoint of the fuzzy-search service over HTTP. Each
// Search call is a single attempt: the validator degrades failures to
// not_found, and retrying is the caller's decision.
type Client struct {
	base    string
	path    string
	client  *http.Client
	limiter *rate.Limiter
	opts    ClientOptions
}

var _ Searcher = (*Client)(nil)

// NewClient creates a search client for one endpoint path of the service at
// baseURL.
func NewClient(baseURL, path string, opts ClientOptions) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RatePerSec == 0 {
		opts.RatePerSec = 10
	}
	if opts.Burst == 0 {
		opts.Burst = 5
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "voiceorder/1.0"
	}
	return &Client{
		base:    baseURL,
		path:    path,
		client:  &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.Burst),
		opts:    opts,
	}
}

// searchResponse is the wire shape shared by both endpoints.
type searchResponse struct {
	Results []model.Candidate `json:"results"`
}

// Search implements Searcher.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]model.Candidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "search: rate limiter wait")
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	reqURL := c.base + c.path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "search: create request")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "search: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("search: http %d from %s", resp.StatusCode, c.path)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, eris.Wrap(err, "search: decode response")
	}

	zap.L().Debug("search completed",
		zap.String("path", c.path),
		zap.String("query", query),
		zap.Int("results", len(body.Results)),
		zap.Duration("took", time.Since(start)),
	)
	return body.Results, nil
}
