package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	perrors "github.com/harunnryd/planboard/internal/errors"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushServer struct {
	srv     *httptest.Server
	conns   chan *websocket.Conn
	headers chan http.Header
}

func newPushServer(t *testing.T) *pushServer {
	t.Helper()
	ps := &pushServer{
		conns:   make(chan *websocket.Conn, 1),
		headers: make(chan http.Header, 1),
	}
	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc("/realtime", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer denied" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ps.headers <- r.Header.Clone()
		ps.conns <- conn
	})
	ps.srv = httptest.NewServer(mux)
	t.Cleanup(ps.srv.Close)
	return ps
}

func (ps *pushServer) client(t *testing.T, token string) *Client {
	t.Helper()
	c, err := NewClient(ClientConfig{BaseURL: ps.srv.URL, Timeout: 2 * time.Second}, staticCreds(token))
	require.NoError(t, err)
	return c
}

func (ps *pushServer) accept(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-ps.conns:
		t.Cleanup(func() { _ = conn.Close() })
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("server never accepted the connection")
		return nil
	}
}

func waitSignal(t *testing.T, ch *Channel) {
	t.Helper()
	select {
	case <-ch.Signals():
	case <-time.After(2 * time.Second):
		t.Fatal("expected a signal")
	}
}

func TestDial_OneSignalPerMessage(t *testing.T) {
	ps := newPushServer(t)
	ch, err := ps.client(t, "tok").Dial(context.Background())
	require.NoError(t, err)
	defer ch.Close()

	server := ps.accept(t)
	assert.Equal(t, "Bearer tok", (<-ps.headers).Get("Authorization"))

	require.NoError(t, server.WriteMessage(websocket.TextMessage, []byte(`{"type":"plan_updated","version":5}`)))
	require.NoError(t, server.WriteMessage(websocket.TextMessage, []byte(`not json at all`)))

	waitSignal(t, ch)
	waitSignal(t, ch)
	assert.NoError(t, ch.Err())
}

func TestDial_HandshakeRejected(t *testing.T) {
	ps := newPushServer(t)
	_, err := ps.client(t, "denied").Dial(context.Background())
	assert.ErrorIs(t, err, perrors.ErrUnauthorized)
}

func TestDial_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewClient(ClientConfig{BaseURL: base, Timeout: time.Second}, nil)
	require.NoError(t, err)

	_, err = c.Dial(context.Background())
	assert.ErrorIs(t, err, perrors.ErrTransient)
}

func TestChannel_ServerCloseReportsError(t *testing.T) {
	ps := newPushServer(t)
	ch, err := ps.client(t, "tok").Dial(context.Background())
	require.NoError(t, err)
	defer ch.Close()

	server := ps.accept(t)
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "restart")
	require.NoError(t, server.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)))

	select {
	case <-ch.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not stop")
	}
	assert.ErrorIs(t, ch.Err(), perrors.ErrTransient)
}

func TestChannel_CloseIsIdempotentAndQuiet(t *testing.T) {
	ps := newPushServer(t)
	ch, err := ps.client(t, "tok").Dial(context.Background())
	require.NoError(t, err)
	ps.accept(t)

	require.NoError(t, ch.Close())
	assert.NoError(t, ch.Close())

	select {
	case <-ch.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("read loop still running after Close")
	}
	assert.NoError(t, ch.Err())
}
