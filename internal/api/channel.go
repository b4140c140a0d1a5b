package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/harunnryd/planboard/internal/concurrency"
	perrors "github.com/harunnryd/planboard/internal/errors"
	"github.com/harunnryd/planboard/internal/logger"

	"github.com/gorilla/websocket"
)

type wsDialer interface {
	DialContext(ctx context.Context, urlStr string, requestHeader http.Header) (*websocket.Conn, *http.Response, error)
}

func defaultDialer(timeout time.Duration) wsDialer {
	return &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: timeout,
	}
}

const closeWriteTimeout = time.Second

// Channel is one live-update connection. Every inbound message becomes one
// value on Signals; message content is never inspected.
type Channel struct {
	conn    *websocket.Conn
	signals chan struct{}
	done    chan struct{}
	closing chan struct{}

	closeOnce sync.Once
	mu        sync.Mutex
	err       error
	closed    bool
}

// Dial opens the push channel. The caller owns the returned channel and must
// Close it when the view that opened it goes away.
func (c *Client) Dial(ctx context.Context) (*Channel, error) {
	header := http.Header{}
	c.authHeader(header)

	conn, resp, err := c.dialer.DialContext(ctx, c.wsURL, header)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			return nil, perrors.FromStatus(resp.StatusCode, fmt.Sprintf("live channel handshake: %v", err))
		}
		return nil, perrors.FromTransport(err)
	}

	logger.From(ctx).Debug("Live channel connected", "url", c.wsURL)

	ch := &Channel{
		conn:    conn,
		signals: make(chan struct{}, 16),
		done:    make(chan struct{}),
		closing: make(chan struct{}),
	}
	concurrency.SafeGo("api-channel-read", ch.readLoop, ch.onPanic)
	return ch, nil
}

func (ch *Channel) onPanic(r any) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if !ch.closed && ch.err == nil {
		ch.err = perrors.Internal(fmt.Sprintf("live channel reader panicked: %v", r))
	}
}

func (ch *Channel) readLoop() {
	defer close(ch.done)
	for {
		if _, _, err := ch.conn.ReadMessage(); err != nil {
			ch.mu.Lock()
			if !ch.closed {
				ch.err = readError(err)
			}
			ch.mu.Unlock()
			return
		}

		select {
		case ch.signals <- struct{}{}:
		case <-ch.closing:
			return
		}
	}
}

func readError(err error) error {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return perrors.Transient(fmt.Sprintf("live channel closed by server (%d %s)", closeErr.Code, closeErr.Text))
	}
	return perrors.FromTransport(err)
}

// Signals delivers one value per inbound message.
func (ch *Channel) Signals() <-chan struct{} {
	return ch.signals
}

// Done is closed when the read loop has stopped, for any reason.
func (ch *Channel) Done() <-chan struct{} {
	return ch.done
}

// Err reports why the channel stopped. It is nil while open and after Close.
func (ch *Channel) Err() error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.err
}

// Close sends a normal close frame and releases the connection. Safe to call
// more than once.
func (ch *Channel) Close() error {
	var err error
	ch.closeOnce.Do(func() {
		ch.mu.Lock()
		ch.closed = true
		ch.mu.Unlock()
		close(ch.closing)

		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = ch.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWriteTimeout))
		err = ch.conn.Close()
	})
	return err
}
