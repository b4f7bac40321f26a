package relay

import (
	"context"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(url, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func read(t *testing.T, ctx context.Context, conn *websocket.Conn) string {
	t.Helper()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	return string(data)
}

func TestEchoAndGreeting(t *testing.T) {
	srv := New(Options{GreetDelay: 300 * time.Millisecond})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, ts.URL)
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("hello")))
	assert.Equal(t, "Echo: hello", read(t, ctx, conn))
	assert.Equal(t, Greeting, read(t, ctx, conn))
}

func TestClientCount(t *testing.T) {
	srv := New(Options{GreetDelay: time.Hour})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, ts.URL)
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("ping")))
	read(t, ctx, conn)
	assert.Equal(t, 1, srv.ClientCount())

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
	assert.Eventually(t, func() bool { return srv.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServeStopsWithContext(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(Options{GreetDelay: 10 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	dialCtx, dialCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dialCancel()
	conn := dial(t, dialCtx, "http://"+ln.Addr().String())
	assert.Equal(t, Greeting, read(t, dialCtx, conn))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("relay did not stop")
	}
}

func TestDefaults(t *testing.T) {
	srv := New(Options{})
	assert.Equal(t, ":8008", srv.Addr())
	assert.Equal(t, time.Second, srv.opts.GreetDelay)
}
