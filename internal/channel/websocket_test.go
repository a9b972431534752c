package channel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/atxtechbro/mcpdash/internal/loop"
	"github.com/atxtechbro/mcpdash/internal/telemetry"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pushServer is a websocket backend that sends whatever the test queues.
type pushServer struct {
	*httptest.Server
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns []*websocket.Conn
}

func newPushServer(t *testing.T) *pushServer {
	t.Helper()
	ps := &pushServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := ps.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ps.mu.Lock()
		ps.conns = append(ps.conns, conn)
		ps.mu.Unlock()
	})
	ps.Server = httptest.NewServer(mux)
	t.Cleanup(ps.Close)
	return ps
}

func (ps *pushServer) connCount() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.conns)
}

func (ps *pushServer) latest() *websocket.Conn {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.conns[len(ps.conns)-1]
}

func (ps *pushServer) send(t *testing.T, msg string) {
	t.Helper()
	require.NoError(t, ps.latest().WriteMessage(websocket.TextMessage, []byte(msg)))
}

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		in, want string
		wantErr  bool
	}{
		{in: "http://localhost:8080", want: "ws://localhost:8080/ws"},
		{in: "https://dash.example.com/base/", want: "wss://dash.example.com/ws"},
		{in: "ws://host:1", want: "ws://host:1/ws"},
		{in: "ftp://host", wantErr: true},
		{in: "http://", wantErr: true},
		{in: "localhost", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := WebsocketURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWebsocketEndToEnd(t *testing.T) {
	ps := newPushServer(t)
	wsURL, err := WebsocketURL(ps.URL)
	require.NoError(t, err)

	l := loop.New()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = l.Run(ctx) }()
	defer func() {
		cancel()
		<-l.Done()
	}()

	var (
		mu     sync.Mutex
		events []telemetry.Event
		bad    int
	)
	ch := New(wsURL, l, WithReconnectDelay(50*time.Millisecond))
	require.NoError(t, l.Do(ctx, func() {
		ch.OnEvent(func(ev telemetry.Event) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		})
		ch.OnMalformed(func(error) {
			mu.Lock()
			bad++
			mu.Unlock()
		})
		ch.Connect()
	}))

	isOpen := func() bool {
		var open bool
		_ = l.Do(ctx, func() { open = ch.IsOpen() })
		return open
	}
	require.Eventually(t, isOpen, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return ps.connCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	ps.send(t, `{"tool":"git_status","server":"git","status":"SUCCESS","duration":4}`)
	ps.send(t, `garbage`)
	ps.send(t, `{"tool":"gh_pr","server":"github","status":"ERROR"}`)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) == 2 && bad == 1
	}, 2*time.Second, 5*time.Millisecond)
	mu.Lock()
	assert.Equal(t, "git_status", events[0].Tool)
	assert.Equal(t, "gh_pr", events[1].Tool)
	mu.Unlock()

	// Backend drops the connection: the channel reconnects on its own.
	require.NoError(t, ps.latest().Close())
	require.Eventually(t, func() bool { return ps.connCount() == 2 }, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, isOpen, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, l.Do(ctx, ch.Close))
	assert.False(t, isOpen())
}

func TestWebsocketDialerRejectedHandshake(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	d := NewWebsocketDialer()
	_, err := d.Dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
