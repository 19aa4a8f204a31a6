// Package channel owns the single long-lived WebSocket connection to the
// game server. All inbound events are decoded once and dispatched to
// subscribers in arrival order on one goroutine, so snapshot handlers never
// run concurrently with each other. Transport drops are recovered
// transparently: the channel redials and runs the registered hello hook so
// the session can rebind itself to its room.
package channel

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/luke-woojudaddy/Mind-Sync/internal/protocol"
)

// Config holds connection tuning for the channel.
type Config struct {
	URL              string
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	ReadTimeout      time.Duration
	PingInterval     time.Duration
	ReconnectWait    time.Duration
	// MaxReconnects bounds consecutive failed dials; negative means retry
	// forever.
	MaxReconnects int
	SendBuffer    int
	DispatchBuffer int
}

// DefaultConfig returns the default channel configuration.
func DefaultConfig(url string) Config {
	return Config{
		URL:              url,
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
		ReadTimeout:      60 * time.Second,
		PingInterval:     30 * time.Second,
		ReconnectWait:    2 * time.Second,
		MaxReconnects:    -1,
		SendBuffer:       64,
		DispatchBuffer:   256,
	}
}

// Handler receives a decoded inbound payload.
type Handler func(payload any)

// Subscription identifies one registered handler so it can be removed.
type Subscription struct {
	event protocol.EventType
	id    int
}

type handlerEntry struct {
	id int
	fn Handler
}

// internal dispatch queue messages
type inboundMsg struct {
	event   protocol.EventType
	payload any
}

type stateMsg struct {
	connected bool
}

// Channel is the shared bidirectional connection. Construct exactly one per
// client process and inject it into every dependent component; two channels
// would each receive independent snapshot streams and desynchronize the UI.
type Channel struct {
	cfg   Config
	clock clockwork.Clock

	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
	connected bool
	nextSubID int
	handlers  map[protocol.EventType][]handlerEntry
	hello     func()
	stateFn   func(connected bool)

	send     chan protocol.Envelope
	dispatch chan any
}

// New creates a channel. It does not dial until Connect is called.
func New(cfg Config, clock clockwork.Clock) *Channel {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Channel{
		cfg:      cfg,
		clock:    clock,
		handlers: make(map[protocol.EventType][]handlerEntry),
		send:     make(chan protocol.Envelope, cfg.SendBuffer),
		dispatch: make(chan any, cfg.DispatchBuffer),
	}
}

// SetHello registers the hook run on the dispatch queue after every
// successful connect, before any inbound event from that connection. The
// session uses it to emit join_game, the sole resynchronization primitive.
func (c *Channel) SetHello(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hello = fn
}

// SetStateHandler registers a connection-state callback, dispatched on the
// same queue as events.
func (c *Channel) SetStateHandler(fn func(connected bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stateFn = fn
}

// On subscribes a handler to an event type.
func (c *Channel) On(event protocol.EventType, fn Handler) Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextSubID++
	c.handlers[event] = append(c.handlers[event], handlerEntry{id: c.nextSubID, fn: fn})
	return Subscription{event: event, id: c.nextSubID}
}

// Off removes a previously registered handler.
func (c *Channel) Off(sub Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.handlers[sub.event]
	for i, e := range entries {
		if e.id == sub.id {
			c.handlers[sub.event] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// Connect starts the connection lifecycle. It is idempotent: calling it
// while the channel is running is a no-op.
func (c *Channel) Connect(ctx context.Context) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	go c.dispatchLoop(ctx)
	go c.manageLoop(ctx)
}

// Disconnect tears the channel down. A later Connect starts fresh.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	cancel := c.cancel
	c.running = false
	c.connected = false
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Connected reports whether the transport is currently up.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Emit sends a fire-and-forget outbound message. It fails silently when the
// transport is down; the join flow is responsible for connecting first.
func (c *Channel) Emit(event protocol.EventType, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event", string(event)).Msg("marshal outbound payload")
		return
	}
	env := protocol.Envelope{Event: event, Data: data}

	c.mu.Lock()
	up := c.connected
	c.mu.Unlock()
	if !up {
		log.Debug().Str("event", string(event)).Msg("emit while disconnected, dropped")
		return
	}
	select {
	case c.send <- env:
	default:
		log.Warn().Str("event", string(event)).Msg("send buffer full, dropping outbound message")
	}
}

func (c *Channel) manageLoop(ctx context.Context) {
	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	attempts := 0
	for {
		if ctx.Err() != nil {
			return
		}
		conn, _, err := dialer.DialContext(ctx, c.cfg.URL, nil)
		if err != nil {
			attempts++
			log.Warn().Err(err).Int("attempt", attempts).Str("url", c.cfg.URL).Msg("dial failed")
			if c.cfg.MaxReconnects >= 0 && attempts > c.cfg.MaxReconnects {
				log.Error().Int("attempts", attempts).Msg("giving up on reconnecting")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-c.clock.After(c.cfg.ReconnectWait):
			}
			continue
		}
		attempts = 0

		c.mu.Lock()
		c.connected = true
		c.mu.Unlock()
		log.Info().Str("url", c.cfg.URL).Msg("channel connected")
		c.post(ctx, stateMsg{connected: true})

		writeDone := make(chan struct{})
		go c.writePump(ctx, conn, writeDone)
		c.readPump(ctx, conn)
		close(writeDone)

		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		conn.Close()
		c.post(ctx, stateMsg{connected: false})

		if ctx.Err() != nil {
			return
		}
		log.Warn().Msg("channel disconnected, reconnecting")
		select {
		case <-ctx.Done():
			return
		case <-c.clock.After(c.cfg.ReconnectWait):
		}
	}
}

// readPump reads frames until the connection fails, decoding each envelope
// and posting it to the dispatch queue in arrival order.
func (c *Channel) readPump(ctx context.Context, conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
		return nil
	})
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("unexpected websocket close")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))

		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Warn().Err(err).Msg("malformed frame, skipping")
			continue
		}
		payload, err := protocol.DecodeEventPayload(env)
		if err != nil {
			log.Warn().Err(err).Str("event", string(env.Event)).Msg("undecodable event, skipping")
			continue
		}
		if payload == nil {
			log.Debug().Str("event", string(env.Event)).Msg("unknown event, skipping")
			continue
		}
		c.post(ctx, inboundMsg{event: env.Event, payload: payload})
	}
}

// writePump drains outbound messages onto the current connection and keeps
// it alive with pings.
func (c *Channel) writePump(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := c.clock.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(c.cfg.WriteTimeout))
			return
		case env := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := conn.WriteJSON(env); err != nil {
				log.Error().Err(err).Str("event", string(env.Event)).Msg("write failed")
				return
			}
		case <-ticker.Chan():
			conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().Err(err).Msg("ping failed")
				return
			}
		}
	}
}

func (c *Channel) post(ctx context.Context, msg any) {
	select {
	case c.dispatch <- msg:
	case <-ctx.Done():
	}
}

// dispatchLoop is the single consumer of inbound traffic. Handlers run here
// sequentially, never concurrently with each other.
func (c *Channel) dispatchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-c.dispatch:
			switch msg := m.(type) {
			case stateMsg:
				c.mu.Lock()
				stateFn := c.stateFn
				hello := c.hello
				c.mu.Unlock()
				if stateFn != nil {
					stateFn(msg.connected)
				}
				if msg.connected && hello != nil {
					hello()
				}
			case inboundMsg:
				c.mu.Lock()
				entries := make([]handlerEntry, len(c.handlers[msg.event]))
				copy(entries, c.handlers[msg.event])
				c.mu.Unlock()
				for _, e := range entries {
					e.fn(msg.payload)
				}
			}
		}
	}
}
