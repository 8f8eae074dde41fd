package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/skillhound/skillhound/internal/config"
)

// Client talks to the job board.
//
// Design decision: We take an external *http.Client rather than building
// one because:
//  1. Timeouts and transport tuning belong to the caller
//  2. Tests inject httptest clients without extra hooks
type Client struct {
	// client performs the actual HTTP requests.
	client *http.Client

	// board is the parsed board base URL. Search and detail links are
	// resolved against it.
	board *url.URL

	// userAgent is sent with every request.
	userAgent string

	// maxBodySize caps how much of a response body is read.
	maxBodySize int64

	// pageSize is the number of result cards per search page, used to
	// compute the start offset for a page number.
	pageSize int
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// WithPageSize sets the number of results per search page.
func WithPageSize(n int) Option {
	return func(c *Client) {
		c.pageSize = n
	}
}

// NewClient creates a board client for the given base URL.
func NewClient(client *http.Client, boardURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(boardURL)
	if err != nil {
		return nil, fmt.Errorf("invalid board URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid board URL %q: scheme must be http or https", boardURL)
	}

	c := &Client{
		client:      client,
		board:       u,
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
		pageSize:    config.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SearchPage fetches one page of search results for query, with the
// user's captured constraint parameters applied. Pages are 1-based.
func (c *Client) SearchPage(ctx context.Context, query string, constraints url.Values, page int) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	for k, vs := range constraints {
		params[k] = vs
	}
	params.Set("q", query)
	params.Set("start", strconv.Itoa((page-1)*c.pageSize))

	u := *c.board
	u.Path, _ = url.JoinPath(u.Path, "jobs")
	u.RawQuery = params.Encode()

	body, err := c.get(ctx, u.String())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	result, err := parseSearchPage(body, c.board)
	if err != nil {
		return nil, &FetchError{URL: u.String(), Err: err}
	}
	return result, nil
}

// FetchDetail fetches a posting's detail page and returns its raw
// fields (title, company, location, salary, description). Fields the
// page does not carry are simply absent from the map.
func (c *Client) FetchDetail(ctx context.Context, link string) (map[string]string, error) {
	resolved, err := c.resolveLink(link)
	if err != nil {
		return nil, &FetchError{URL: link, Err: err}
	}

	body, err := c.get(ctx, resolved)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	fields, err := parseDetailPage(body)
	if err != nil {
		return nil, &FetchError{URL: resolved, Err: err}
	}
	return fields, nil
}

// get performs a GET request and returns a size-limited body reader.
// All failures come back as *FetchError.
func (c *Client) get(ctx context.Context, pageURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := c.client.Do(req)
	if err != nil {
		// Transport-level failures (DNS, refused, timeout) are
		// retryable.
		return nil, &FetchError{URL: pageURL, Transient: true, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &FetchError{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Transient:  statusTransient(resp.StatusCode),
		}
	}

	return limitedBody{
		Reader: io.LimitReader(resp.Body, c.maxBodySize),
		body:   resp.Body,
	}, nil
}

// resolveLink resolves a posting link against the board base URL.
func (c *Client) resolveLink(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid posting link %q: %w", link, err)
	}
	return c.board.ResolveReference(u).String(), nil
}

type limitedBody struct {
	io.Reader
	body io.ReadCloser
}

func (l limitedBody) Close() error { return l.body.Close() }
