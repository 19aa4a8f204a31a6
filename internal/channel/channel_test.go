package channel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luke-woojudaddy/Mind-Sync/internal/protocol"
)

// fakeServer is a minimal websocket endpoint that records inbound envelopes
// and lets tests push events to the connected client.
type fakeServer struct {
	t        *testing.T
	upgrader websocket.Upgrader
	srv      *httptest.Server

	mu       sync.Mutex
	conns    []*websocket.Conn
	received []protocol.Envelope
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{t: t}
	fs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := fs.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		fs.mu.Lock()
		fs.conns = append(fs.conns, conn)
		fs.mu.Unlock()
		for {
			var env protocol.Envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			fs.mu.Lock()
			fs.received = append(fs.received, env)
			fs.mu.Unlock()
		}
	}))
	t.Cleanup(fs.srv.Close)
	return fs
}

func (fs *fakeServer) url() string {
	return "ws" + strings.TrimPrefix(fs.srv.URL, "http")
}

func (fs *fakeServer) push(event protocol.EventType, payload any) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	require.NotEmpty(fs.t, fs.conns)
	conn := fs.conns[len(fs.conns)-1]
	data, err := json.Marshal(payload)
	require.NoError(fs.t, err)
	require.NoError(fs.t, conn.WriteJSON(protocol.Envelope{Event: event, Data: data}))
}

func (fs *fakeServer) dropCurrent() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.conns) > 0 {
		fs.conns[len(fs.conns)-1].Close()
	}
}

func (fs *fakeServer) receivedEvents() []protocol.EventType {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	events := make([]protocol.EventType, len(fs.received))
	for i, env := range fs.received {
		events[i] = env.Event
	}
	return events
}

func (fs *fakeServer) connCount() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.conns)
}

func testConfig(url string) Config {
	cfg := DefaultConfig(url)
	cfg.ReconnectWait = 20 * time.Millisecond
	return cfg
}

func TestDispatchPreservesArrivalOrder(t *testing.T) {
	fs := newFakeServer(t)
	ch := New(testConfig(fs.url()), nil)

	var mu sync.Mutex
	var got []string
	ch.On(protocol.EventNotification, func(payload any) {
		note := payload.(protocol.NotificationPayload)
		mu.Lock()
		got = append(got, note.Message)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch.Connect(ctx)

	require.Eventually(t, ch.Connected, time.Second, 5*time.Millisecond)
	for _, msg := range []string{"one", "two", "three"} {
		fs.push(protocol.EventNotification, protocol.NotificationPayload{Message: msg})
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 3
	}, time.Second, 5*time.Millisecond)
	mu.Lock()
	assert.Equal(t, []string{"one", "two", "three"}, got)
	mu.Unlock()
}

func TestOffStopsDelivery(t *testing.T) {
	fs := newFakeServer(t)
	ch := New(testConfig(fs.url()), nil)

	var mu sync.Mutex
	count := 0
	sub := ch.On(protocol.EventTimerUpdate, func(any) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch.Connect(ctx)
	require.Eventually(t, ch.Connected, time.Second, 5*time.Millisecond)

	fs.push(protocol.EventTimerUpdate, protocol.TimerUpdatePayload{Time: 59})
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	}, time.Second, 5*time.Millisecond)

	ch.Off(sub)
	fs.push(protocol.EventTimerUpdate, protocol.TimerUpdatePayload{Time: 58})
	fs.push(protocol.EventNotification, protocol.NotificationPayload{Message: "fence"})

	// The fence event proves the later timer_update was already dispatched.
	fenced := make(chan struct{})
	ch.On(protocol.EventNotification, func(any) { close(fenced) })
	select {
	case <-fenced:
	case <-time.After(time.Second):
		t.Fatal("fence notification never arrived")
	}
	mu.Lock()
	assert.Equal(t, 1, count)
	mu.Unlock()
}

func TestHelloRunsOnEveryConnect(t *testing.T) {
	fs := newFakeServer(t)
	ch := New(testConfig(fs.url()), nil)
	ch.SetHello(func() {
		ch.Emit(protocol.EventJoinGame, protocol.JoinGamePayload{
			RoomID: "AB12", UserID: "u1", Username: "A",
		})
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch.Connect(ctx)

	require.Eventually(t, func() bool {
		return len(fs.receivedEvents()) == 1
	}, time.Second, 5*time.Millisecond)

	// Drop the transport; the channel must redial and re-join on its own.
	fs.dropCurrent()
	require.Eventually(t, func() bool {
		return fs.connCount() >= 2 && len(fs.receivedEvents()) >= 2
	}, 2*time.Second, 10*time.Millisecond)

	for _, event := range fs.receivedEvents() {
		assert.Equal(t, protocol.EventJoinGame, event)
	}
}

func TestEmitWhileDisconnectedIsSilent(t *testing.T) {
	ch := New(testConfig("ws://127.0.0.1:1/ws"), nil)
	assert.False(t, ch.Connected())
	ch.Emit(protocol.EventNextRound, protocol.NextRoundPayload{RoomID: "AB12"})
}

func TestConnectIsIdempotent(t *testing.T) {
	fs := newFakeServer(t)
	ch := New(testConfig(fs.url()), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch.Connect(ctx)
	ch.Connect(ctx)
	ch.Connect(ctx)

	require.Eventually(t, ch.Connected, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, fs.connCount())
}
