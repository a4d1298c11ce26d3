package wsclient

import (
	"errors"
	"fmt"
)

// Error kinds the multiplexer and façade can produce (spec §7). These
// are sentinels so callers can use errors.Is; SubscriptionError is the
// one parameterized kind (the server's own error message).
var (
	// ErrUnexpectedMessage is returned when the server sends a non-binary,
	// non-control frame.
	ErrUnexpectedMessage = errors.New("wsclient: the server sent an unexpected message")

	// ErrUnexpectedMessageFormat is returned for a frame shorter than the
	// header, invalid marker bits, or a non-UTF-8 error payload.
	ErrUnexpectedMessageFormat = errors.New("wsclient: the server sent a malformed message")

	// ErrUnknownResponseID is returned when an inbound frame references a
	// subscription id with no installed sink.
	ErrUnknownResponseID = errors.New("wsclient: the server sent a response for a non-existing request")

	// ErrMaxConcurrentRequestLimitReached means all 256 slots are in use.
	ErrMaxConcurrentRequestLimitReached = errors.New("wsclient: the maximum limit of 256 concurrent requests was reached")

	// ErrBackendShutDown means the multiplexer task is no longer reachable.
	ErrBackendShutDown = errors.New("wsclient: the backend service shut down")

	// ErrConnectionClosed means the server closed the WebSocket connection.
	ErrConnectionClosed = errors.New("wsclient: the websocket connection was closed")
)

// SubscriptionError wraps a server-reported, per-subscription error
// message (spec §7's ErrorMsg). It never affects any subscription other
// than the one it was delivered on.
type SubscriptionError struct {
	Msg string
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("wsclient: server reported an error: %s", e.Msg)
}
