package wsclient

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/branched-services/superchain-client/pkg/wire"
)

// fakeConn is an in-memory stand-in for *websocket.Conn: tests push
// server->client messages onto toClient and observe client->server
// writes on written, driving the multiplexer without a real socket.
type fakeConn struct {
	toClient chan []byte
	written  chan []byte
	closed   chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		toClient: make(chan []byte, 64),
		written:  make(chan []byte, 64),
		closed:   make(chan struct{}),
	}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	b, ok := <-f.toClient
	if !ok {
		return 0, nil, errors.New("fake conn: closed by peer")
	}
	return 2, b, nil
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	cp := append([]byte(nil), data...)
	select {
	case f.written <- cp:
	default:
	}
	return nil
}

func (f *fakeConn) WriteControl(_ int, _ []byte, _ time.Time) error { return nil }
func (f *fakeConn) SetPingHandler(func(string) error)               {}
func (f *fakeConn) SetPongHandler(func(string) error)                {}

func (f *fakeConn) Close() error {
	select {
	case <-f.closed:
	default:
		close(f.closed)
	}
	return nil
}

func newTestClient(conn *fakeConn) *Client {
	o := defaultOptions()
	o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	o.keepalive = time.Hour
	return newClient(conn, o)
}

func decodeRequestID(t *testing.T, raw []byte) uint8 {
	t.Helper()
	var fields map[string]any
	if err := cbor.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("decoding request: %v", err)
	}
	id, ok := fields["id"].(uint64)
	if !ok {
		t.Fatalf("request id field missing or wrong type: %#v", fields["id"])
	}
	return uint8(id)
}

func TestClient_GetHeight(t *testing.T) {
	conn := newFakeConn()
	c := newTestClient(conn)
	defer c.Close()

	var height uint64 = 123456789
	go func() {
		raw := <-conn.written
		id := decodeRequestID(t, raw)
		payload := make([]byte, 8)
		binary.NativeEndian.PutUint64(payload, height)
		conn.toClient <- wire.EncodeFrame(wire.MarkerContinue, id, 1, payload)
		conn.toClient <- wire.EncodeFrame(wire.MarkerEnd, id, 2, nil)
	}()

	got, err := c.GetHeight(context.Background())
	if err != nil {
		t.Fatalf("GetHeight() error = %v", err)
	}
	if got != height {
		t.Errorf("GetHeight() = %d, want %d", got, height)
	}
}

func TestClient_SubscriptionExhaustion(t *testing.T) {
	conn := newFakeConn()
	c := newTestClient(conn)
	defer c.Close()

	// Drain writes so the multiplexer is never blocked sending requests.
	go func() {
		for range conn.written {
		}
	}()

	ctx := context.Background()
	for i := 0; i < 256; i++ {
		if _, _, err := c.GetPairsCreated(ctx, nil, nil, nil); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}

	if _, _, err := c.GetPairsCreated(ctx, nil, nil, nil); !errors.Is(err, ErrMaxConcurrentRequestLimitReached) {
		t.Errorf("257th request error = %v, want ErrMaxConcurrentRequestLimitReached", err)
	}
}

func TestClient_SubscriptionErrorIsolation(t *testing.T) {
	conn := newFakeConn()
	c := newTestClient(conn)
	defer c.Close()

	decA, idA, err := c.GetPrices(context.Background(), nil, nil, nil)
	if err != nil {
		t.Fatalf("GetPrices A: %v", err)
	}
	<-conn.written

	decB, idB, err := c.GetPrices(context.Background(), nil, nil, nil)
	if err != nil {
		t.Fatalf("GetPrices B: %v", err)
	}
	<-conn.written

	conn.toClient <- wire.EncodeFrame(wire.MarkerError, idA, 0, []byte("server error"))
	conn.toClient <- wire.EncodeFrame(wire.MarkerEnd, idB, 1, nil)

	if _, err := decA.Next(); err == nil {
		t.Fatal("expected an error from the failed subscription")
	} else {
		var subErr *SubscriptionError
		if !errors.As(err, &subErr) {
			t.Errorf("error = %v, want *SubscriptionError", err)
		}
	}

	// The slot must stay allocated across the ERROR frame: only the
	// subsequent END actually frees it and ends the stream.
	conn.toClient <- wire.EncodeFrame(wire.MarkerEnd, idA, 1, nil)
	if _, err := decA.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() after END following ERROR: err = %v, want io.EOF", err)
	}

	if _, err := decB.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("unaffected subscription B: err = %v, want io.EOF", err)
	}
}

func TestClient_ConnectionCloseEndsStreamsSilently(t *testing.T) {
	conn := newFakeConn()
	c := newTestClient(conn)

	dec, _, err := c.GetPrices(context.Background(), nil, nil, nil)
	if err != nil {
		t.Fatalf("GetPrices: %v", err)
	}
	<-conn.written

	close(conn.toClient)

	if _, err := dec.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() after connection close = %v, want io.EOF (no error payload)", err)
	}
}
