// Package wsclient implements the persistent, multiplexed WebSocket
// transport: a single connection carrying many concurrent subscriptions,
// each identified by a one-byte id and delivered as a binary-framed,
// CBOR-requested, CSV-streamed response (spec §3, §4).
package wsclient

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net/http"

	"github.com/branched-services/superchain-client/pkg/csvstream"
	"github.com/branched-services/superchain-client/pkg/types"
	"github.com/branched-services/superchain-client/pkg/wire"
)

// dialFunc is the dialer Dial uses, pointed at dialWebsocket (the real
// gorilla/websocket handshake). The package tests do not go through it:
// they hand an in-memory Conn straight to newClient so the multiplexer's
// behavior can be exercised without a real socket.
var dialFunc = dialWebsocket

// Client is the public façade over the multiplexer: every request
// method sends one operationRequest and waits for the multiplexer to
// either hand back a subscription or report why it couldn't.
type Client struct {
	ops  chan operationRequest
	done chan struct{}
	mux  *multiplexer
}

// Dial opens a WebSocket connection to url and starts its multiplexer.
// The returned Client is safe for concurrent use by many goroutines.
func Dial(ctx context.Context, url string, header http.Header, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	conn, _, err := dialFunc(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("wsclient: dial: %w", err)
	}

	return newClient(conn, o), nil
}

func newClient(conn Conn, o options) *Client {
	ops := make(chan operationRequest, o.opsBuffer)
	mux := newMultiplexer(conn, ops, o.keepalive, o.logger)
	go mux.run()
	return &Client{ops: ops, done: mux.done, mux: mux}
}

// Close tears down the connection and ends every outstanding
// subscription's stream.
func (c *Client) Close() error {
	close(c.done)
	return nil
}

// Ready reports whether the multiplexer is still running. It implements
// health.ReadinessChecker so cmd/superchain-tap's /readyz probe reflects
// the WebSocket connection's actual liveness.
func (c *Client) Ready() bool {
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// Stats returns a snapshot of a subscription's delivery counters, keyed
// by the id returned when it was created. A freed id keeps the counters
// of its last subscription until the id is allocated again.
func (c *Client) Stats(id uint8) Stats {
	return c.mux.stats[id].snapshot()
}

// request sends op to the multiplexer and, on success, wraps the
// resulting subscription in a csvstream.Decoder[T]. It is generic over
// the record type because every CSV-bearing WebSocket operation streams
// rows the same way; only the Go type differs.
func request[T any](ctx context.Context, c *Client, op wire.Operation) (*csvstream.Decoder[T], uint8, error) {
	result := make(chan requestResult, 1)
	select {
	case c.ops <- operationRequest{op: op, result: result}:
	case <-c.done:
		return nil, 0, ErrBackendShutDown
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	}

	select {
	case res := <-result:
		if res.err != nil {
			return nil, 0, res.err
		}
		return csvstream.NewDecoder[T](newSinkReader(res.sink)), res.id, nil
	case <-c.done:
		return nil, 0, ErrBackendShutDown
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	}
}

// GetPairsCreated streams PairCreated records for the given filter and
// block range. Either bound of the range may be nil (spec §3's
// unbounded start/end).
func (c *Client) GetPairsCreated(ctx context.Context, pairs []types.Address, start, end *uint64) (*csvstream.Decoder[types.PairCreated], uint8, error) {
	return request[types.PairCreated](ctx, c, wire.GetPairs{Pairs: pairs, Start: start, End: end})
}

// GetPrices streams Price records for the given filter and block range.
func (c *Client) GetPrices(ctx context.Context, pairs []types.Address, start, end *uint64) (*csvstream.Decoder[types.Price], uint8, error) {
	return request[types.Price](ctx, c, wire.GetPrices{Pairs: pairs, Start: start, End: end})
}

// GetHeight returns the chain height the indexer has caught up to. The
// server replies with a single frame carrying 8 bytes in native byte
// order (spec §4.4) rather than CSV, so this bypasses csvstream and
// reads the subscription's sink directly.
func (c *Client) GetHeight(ctx context.Context) (uint64, error) {
	result := make(chan requestResult, 1)
	select {
	case c.ops <- operationRequest{op: wire.GetHeight{}, result: result}:
	case <-c.done:
		return 0, ErrBackendShutDown
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	var res requestResult
	select {
	case res = <-result:
		if res.err != nil {
			return 0, res.err
		}
	case <-c.done:
		return 0, ErrBackendShutDown
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	r := newSinkReader(res.sink)
	payload, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("wsclient: get height: %w", err)
	}
	if len(payload) != 8 {
		return 0, ErrUnexpectedMessageFormat
	}
	return binary.NativeEndian.Uint64(payload[:8]), nil
}
