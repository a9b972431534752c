package channel

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/atxtechbro/mcpdash/internal/errors"
	"github.com/gorilla/websocket"
)

// PushPath is the push endpoint relative to the server host.
const PushPath = "/ws"

// DefaultHandshakeTimeout bounds the websocket opening handshake.
const DefaultHandshakeTimeout = 10 * time.Second

// Conn is an open push connection. The channel only reads from it.
type Conn interface {
	ReadMessage() (messageType int, data []byte, err error)
	Close() error
}

// Dialer opens push connections.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebsocketDialer dials the backend with gorilla/websocket.
type WebsocketDialer struct {
	Dialer *websocket.Dialer
	Header http.Header
}

// NewWebsocketDialer returns a dialer with the default handshake timeout.
func NewWebsocketDialer() *WebsocketDialer {
	return &WebsocketDialer{
		Dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: DefaultHandshakeTimeout,
		},
	}
}

// Dial performs the websocket handshake.
func (d *WebsocketDialer) Dial(ctx context.Context, rawURL string) (Conn, error) {
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, resp, err := dialer.DialContext(ctx, rawURL, d.Header)
	if err != nil {
		if resp != nil {
			return nil, errors.WrapWithCode(err, errors.ErrTransport,
				fmt.Sprintf("Push handshake rejected (%s)", resp.Status),
				"Check the backend serves websockets at "+PushPath)
		}
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			"Push connection failed", "Check the backend is running")
	}
	return conn, nil
}

// WebsocketURL derives the push URL from the server base URL: http becomes
// ws, https becomes wss, and the path is /ws on the same host.
func WebsocketURL(server string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(server))
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Server '%s' isn't a valid URL", server), "")
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", errors.New(errors.ErrConfig,
			fmt.Sprintf("Server '%s' needs an http or https scheme", server),
			"Use something like http://localhost:8080")
	}
	if u.Host == "" {
		return "", errors.New(errors.ErrConfig,
			fmt.Sprintf("Server '%s' is missing a host", server), "")
	}
	u.Path = PushPath
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already started.
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
