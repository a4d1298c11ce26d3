// Package httpclient is the thinner of the two transports (spec §1,
// §4.6): a single GET, followed by the same CSV record stream the
// WebSocket client uses. It shares no machinery with pkg/wsclient
// beyond pkg/csvstream.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/branched-services/superchain-client/pkg/csvstream"
	"github.com/branched-services/superchain-client/pkg/types"
)

// Client issues GET requests against a SuperChain HTTP server and
// decodes CSV response bodies into typed record streams.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	headers    http.Header
}

// New creates a Client against baseURL (no path suffix, e.g.
// "http://localhost:8097"), with a tuned *http.Transport matching the
// connection-pooling knobs used elsewhere for long-lived clients.
func New(baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("httpclient: parsing base url: %w", err)
	}
	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: u,
		headers: make(http.Header),
	}, nil
}

// WithDefaultHeaders attaches header to every subsequent request issued
// by the returned Client (e.g. a Basic auth Authorization header). It
// returns a new Client sharing the same underlying *http.Client.
func (c *Client) WithDefaultHeaders(header http.Header) *Client {
	merged := make(http.Header, len(c.headers)+len(header))
	for k, v := range c.headers {
		merged[k] = v
	}
	for k, v := range header {
		merged[k] = v
	}
	return &Client{httpClient: c.httpClient, baseURL: c.baseURL, headers: merged}
}

// GetPairCreated fetches the PairCreated record for pair, optionally
// scoped to a block range, path `/api/eth/pair/{pair}[/{from}[/{to}]]`.
// It returns (nil, nil) on an empty body.
func (c *Client) GetPairCreated(ctx context.Context, pair types.Address, from, to *uint64) (*types.PairCreated, error) {
	segments := append([]string{"api", "eth", "pair", pair.String()}, rangeSegments(from, to)...)
	body, err := c.get(ctx, segments...)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	dec := csvstream.NewDecoder[types.PairCreated](body)
	rec, err := dec.Next()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("httpclient: decoding pair created: %w", err)
	}
	return &rec, nil
}

// GetPrices streams Price records for pair over an optional block
// range, path `/api/eth/prices/{pair}/{from}[/{to}]`. The caller must
// Close the returned decoder once done with it, to release the
// underlying HTTP connection; for a live, head-following stream (to
// left nil) this is the only way the connection is ever released.
func (c *Client) GetPrices(ctx context.Context, pair types.Address, from uint64, to *uint64) (*csvstream.Decoder[types.Price], error) {
	segments := append([]string{"api", "eth", "prices", pair.String(), strconv.FormatUint(from, 10)}, optionalSegment(to)...)
	body, err := c.get(ctx, segments...)
	if err != nil {
		return nil, err
	}
	return csvstream.NewDecoder[types.Price](body), nil
}

// GetReserves streams Reserves records for pair over an optional block
// range, path `/api/eth/reserves/{pair}/{from}[/{to}]`. As with
// GetPrices, the caller must Close the returned decoder to release the
// underlying HTTP connection.
func (c *Client) GetReserves(ctx context.Context, pair types.Address, from uint64, to *uint64) (*csvstream.Decoder[types.Reserves], error) {
	segments := append([]string{"api", "eth", "reserves", pair.String(), strconv.FormatUint(from, 10)}, optionalSegment(to)...)
	body, err := c.get(ctx, segments...)
	if err != nil {
		return nil, err
	}
	return csvstream.NewDecoder[types.Reserves](body), nil
}

// GetHeight returns the chain height the server has indexed up to, GET
// `/api/eth/height`, a bare JSON integer body.
func (c *Client) GetHeight(ctx context.Context) (uint64, error) {
	body, err := c.get(ctx, "api", "eth", "height")
	if err != nil {
		return 0, err
	}
	defer body.Close()

	var height uint64
	if err := json.NewDecoder(body).Decode(&height); err != nil {
		return 0, fmt.Errorf("httpclient: decoding height: %w", err)
	}
	return height, nil
}

// get issues the GET request for the given path segments and returns
// the response body, already checked for a non-2xx status (spec §4.6:
// "HTTP errors are surfaced immediately as request errors").
func (c *Client) get(ctx context.Context, segments ...string) (io.ReadCloser, error) {
	u := c.baseURL.JoinPath(segments...)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: building request: %w", err)
	}
	for k, v := range c.headers {
		req.Header[k] = v
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", u, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("httpclient: %s: unexpected status %s", u, resp.Status)
	}
	return resp.Body, nil
}

func rangeSegments(from, to *uint64) []string {
	if from == nil {
		return nil
	}
	segs := []string{strconv.FormatUint(*from, 10)}
	if to != nil {
		segs = append(segs, strconv.FormatUint(*to, 10))
	}
	return segs
}

func optionalSegment(to *uint64) []string {
	if to == nil {
		return nil
	}
	return []string{strconv.FormatUint(*to, 10)}
}
