package giphy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pders01/gifr/internal/config"
	"github.com/pders01/gifr/internal/debuglog"
)

const (
	trendingPath = "/gifs/trending"
	searchPath   = "/gifs/search"

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 8 << 20
)

// Client talks to the trending and search endpoints.
type Client struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	userAgent string
	limiter   *rate.Limiter
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		client: &http.Client{
			Timeout: cfg.Giphy.HTTPTimeout,
		},
		baseURL:   strings.TrimRight(cfg.Giphy.APIURL, "/"),
		apiKey:    cfg.Giphy.APIKey,
		userAgent: cfg.Giphy.UserAgent,
		limiter:   newLimiter(cfg.Giphy.RequestsPerSecond),
	}
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := int(math.Ceil(perSecond))
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.client = hc
}

// Trending fetches one page of the global trending feed.
func (c *Client) Trending(ctx context.Context, limit, offset int) ([]Item, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	resp, err := c.get(ctx, "trending", trendingPath, params)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Search runs query as-is against the search endpoint.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	resp, err := c.get(ctx, "search", searchPath, params)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) get(ctx context.Context, op, path string, params url.Values) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	params.Set("api_key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	log := debuglog.WithFields(map[string]interface{}{
		"op":      op,
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).Round(time.Millisecond),
	})

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.Warnf("reading response failed: %v", err)
		return nil, &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warnf("upstream rejected request")
		return nil, &NetworkError{Op: op, StatusCode: resp.StatusCode, Msg: errorMessage(body)}
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", op, err)
	}

	log.Debugf("received %d items", len(out.Data))
	return &out, nil
}

// errorMessage pulls meta.msg (or message) from an error body.
func errorMessage(body []byte) string {
	var env struct {
		Message string `json:"message"`
		Meta    Meta   `json:"meta"`
	}
	if json.Unmarshal(body, &env) != nil {
		return ""
	}
	if env.Meta.Msg != "" {
		return env.Meta.Msg
	}
	return env.Message
}
