package wsclient

import (
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"

	"github.com/branched-services/superchain-client/pkg/wire"
)

// frameMsg is what the reader goroutine hands to the multiplexer: either
// an inbound binary message, a ping notification, or a terminal read
// error. The reader goroutine never touches the connection except to
// read from it — every write (including pong replies) happens on the
// multiplexer goroutine, so the socket has exactly one writer.
type frameMsg struct {
	data     []byte
	pingData string
	isPing   bool
	err      error
}

// operationRequest is one outbound call from the façade, asking the
// multiplexer to allocate a subscription and send a request frame.
type operationRequest struct {
	op     wire.Operation
	result chan requestResult
}

type requestResult struct {
	sink *unboundedQueue
	id   uint8
	err  error
}

// multiplexer owns the connection and the subscription table. It is the
// only goroutine that ever calls WriteMessage, WriteControl, or Close on
// conn (spec §5); all other goroutines communicate with it over
// channels.
type multiplexer struct {
	conn      Conn
	ops       <-chan operationRequest
	done      chan struct{}
	frames    chan frameMsg
	keepalive time.Duration
	logger    *slog.Logger

	table subscriptionTable
	stats [256]subscriptionStats
}

func newMultiplexer(conn Conn, ops <-chan operationRequest, keepalive time.Duration, logger *slog.Logger) *multiplexer {
	return &multiplexer{
		conn:      conn,
		ops:       ops,
		done:      make(chan struct{}),
		frames:    make(chan frameMsg, 64),
		keepalive: keepalive,
		logger:    logger,
	}
}

// readLoop reads messages off conn and forwards them to m.frames. It
// exits as soon as ReadMessage returns an error, after delivering that
// error so run() can begin teardown.
func (m *multiplexer) readLoop() {
	m.conn.SetPingHandler(func(appData string) error {
		select {
		case m.frames <- frameMsg{isPing: true, pingData: appData}:
		case <-m.done:
		}
		return nil
	})

	for {
		messageType, data, err := m.conn.ReadMessage()
		if err != nil {
			select {
			case m.frames <- frameMsg{err: err}:
			case <-m.done:
			}
			return
		}
		if messageType != websocket.BinaryMessage {
			select {
			case m.frames <- frameMsg{err: ErrUnexpectedMessage}:
			case <-m.done:
			}
			return
		}
		select {
		case m.frames <- frameMsg{data: data}:
		case <-m.done:
			return
		}
	}
}

// run is the multiplexer's event loop. It exits when the connection is
// lost or Close is called, at which point every outstanding
// subscription's sink is closed (spec §4.3).
func (m *multiplexer) run() {
	go m.readLoop()
	defer m.teardown()

	ticker := time.NewTicker(m.keepalive)
	defer ticker.Stop()

	for {
		select {
		case fr := <-m.frames:
			switch {
			case fr.isPing:
				deadline := time.Now().Add(5 * time.Second)
				if err := m.conn.WriteControl(websocket.PongMessage, []byte(fr.pingData), deadline); err != nil {
					m.logger.Debug("pong write failed", "err", err)
				}
			case fr.err != nil:
				m.logger.Debug("connection closed", "err", fr.err)
				return
			default:
				if err := m.handleFrame(fr.data); err != nil {
					m.logger.Debug("connection closed", "err", err)
					return
				}
			}

		case req := <-m.ops:
			m.handleRequest(req)

		case <-ticker.C:
			deadline := time.Now().Add(5 * time.Second)
			if err := m.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				m.logger.Debug("keepalive ping failed", "err", err)
				return
			}

		case <-m.done:
			return
		}
	}
}

func (m *multiplexer) teardown() {
	m.failAll()
	_ = m.conn.Close()
}

// failAll closes every installed sink without pushing an error item:
// connection loss ends a subscription's stream silently, observed by
// callers as end-of-stream rather than as a delivered error (spec §4.3).
// This is distinct from a per-subscription ErrorMsg frame, handled in
// handleFrame, which does deliver a SubscriptionError.
func (m *multiplexer) failAll() {
	for _, sink := range m.table.all() {
		sink.Close()
	}
}

// handleFrame decodes one inbound message and routes it to the sink
// installed for its subscription id, applying the END > START > ERROR >
// CONTINUE precedence from wire.Decode.
func (m *multiplexer) handleFrame(data []byte) error {
	fr, err := wire.Decode(data)
	if err != nil {
		return fmt.Errorf("wsclient: %w: %w", ErrUnexpectedMessageFormat, err)
	}

	sink, ok := m.table.get(fr.ID)
	if !ok {
		return fmt.Errorf("wsclient: frame for subscription %d: %w", fr.ID, ErrUnknownResponseID)
	}
	stats := &m.stats[fr.ID]

	switch fr.Kind {
	case wire.KindError:
		// Push the error but leave the slot allocated: the server still
		// owes us an END, and freeing here would let a new subscription
		// reuse this id before it arrives (spec §4.2/§9).
		if !utf8.Valid(fr.Payload) {
			return fmt.Errorf("wsclient: error payload for subscription %d: %w", fr.ID, ErrUnexpectedMessageFormat)
		}
		stats.recordError()
		sink.Send(sinkItem{Err: &SubscriptionError{Msg: string(fr.Payload)}})

	case wire.KindEnd:
		// END never carries data (its payload, if any, is discarded by
		// wire.Decode) — it only ever signals that no more CONTINUE
		// frames will follow for this id.
		stats.recordFrame(fr.Counter)
		sink.Close()
		m.table.free(fr.ID)

	case wire.KindStart, wire.KindContinue:
		stats.recordFrame(fr.Counter)
		sink.Send(sinkItem{Data: fr.Payload})
	}
	return nil
}

// handleRequest allocates a subscription slot, encodes and sends the
// request frame, and reports the outcome back to the caller. Any
// failure after allocation rolls the slot back so it can be reused.
func (m *multiplexer) handleRequest(req operationRequest) {
	sink := newUnboundedQueue()

	id, err := m.table.allocate(sink)
	if err != nil {
		sink.Close()
		req.result <- requestResult{err: err}
		return
	}
	m.stats[id].reset()

	payload, err := wire.EncodeRequest(id, req.op)
	if err != nil {
		m.table.free(id)
		sink.Close()
		req.result <- requestResult{err: err}
		return
	}

	if err := m.conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
		m.table.free(id)
		sink.Close()
		req.result <- requestResult{err: err}
		return
	}

	req.result <- requestResult{sink: sink, id: id}
}
