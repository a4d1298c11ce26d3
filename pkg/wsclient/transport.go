package wsclient

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is the subset of *websocket.Conn the multiplexer depends on.
// gorilla/websocket's Conn satisfies this directly; tests substitute an
// in-memory fake so the multiplexer's routing and lifecycle logic can
// be exercised without a real socket.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetPingHandler(h func(appData string) error)
	SetPongHandler(h func(appData string) error)
	Close() error
}

var _ Conn = (*websocket.Conn)(nil)

// dialWebsocket opens a WebSocket connection the way the load-testing
// dialer in the example pack does: an explicit HandshakeTimeout and TCP
// keep-alives, so the connection survives idle load balancers.
func dialWebsocket(ctx context.Context, url string, header http.Header) (Conn, *http.Response, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
		NetDialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
	return dialer.DialContext(ctx, url, header)
}
