// Package relay serves the development WebSocket the on-device socket bridge
// connects to. Device messages are logged and echoed back.
package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/coder/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/nanofuxion/tamer4lynx/internal/logging"
)

const (
	// DefaultPort is the port the device bridge dials.
	DefaultPort = 8008
	// Greeting is sent to every client once GreetDelay has passed.
	Greeting = "Welcome to the WebSocket server!"
	// EchoPrefix precedes every echoed message.
	EchoPrefix = "Echo: "
)

// Options configures a relay Server.
type Options struct {
	Host       string
	Port       int
	GreetDelay time.Duration
	// ReadLimit caps one message; zero keeps the library default.
	ReadLimit int64
	Logger    logging.Logger
}

// Server accepts device connections and relays their log lines.
type Server struct {
	opts   Options
	logger logging.Logger

	clients      map[*websocket.Conn]string
	clientsMutex sync.RWMutex
	wg           sync.WaitGroup
}

// New creates a Server.
func New(opts Options) *Server {
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.GreetDelay == 0 {
		opts.GreetDelay = time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		opts:    opts,
		logger:  logger.WithComponent("relay"),
		clients: make(map[*websocket.Conn]string),
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))
}

// ClientCount returns the number of connected devices.
func (s *Server) ClientCount() int {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	return len(s.clients)
}

// ServeHTTP upgrades the request and serves the client until it disconnects
// or the request context ends.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Devices connect from arbitrary origins on the local network.
		InsecureSkipVerify: true,
		CompressionMode:    websocket.CompressionDisabled,
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "WebSocket upgrade failed", "remote", r.RemoteAddr)
		return
	}
	if s.opts.ReadLimit > 0 {
		conn.SetReadLimit(s.opts.ReadLimit)
	}

	s.register(conn, r.RemoteAddr)
	defer s.unregister(conn)

	s.serveClient(r.Context(), conn, r.RemoteAddr)
}

func (s *Server) register(conn *websocket.Conn, remote string) {
	s.clientsMutex.Lock()
	s.clients[conn] = remote
	count := len(s.clients)
	s.clientsMutex.Unlock()
	s.logger.Info(context.Background(), "Client connected", "remote", remote, "clients", count)
}

func (s *Server) unregister(conn *websocket.Conn) {
	s.clientsMutex.Lock()
	remote, exists := s.clients[conn]
	delete(s.clients, conn)
	count := len(s.clients)
	s.clientsMutex.Unlock()
	if exists {
		_ = conn.Close(websocket.StatusNormalClosure, "")
		s.logger.Info(context.Background(), "Client disconnected", "remote", remote, "clients", count)
	}
}

func (s *Server) serveClient(ctx context.Context, conn *websocket.Conn, remote string) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Writes from the greeter and the echo loop must not interleave.
	var writeMu sync.Mutex
	write := func(msg string) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.Write(ctx, websocket.MessageText, []byte(msg))
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		timer := time.NewTimer(s.opts.GreetDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
			if err := write(Greeting); err != nil && ctx.Err() == nil {
				s.logger.Warn(ctx, err, "Greeting failed", "remote", remote)
			}
		}
	}()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				s.logger.Debug(ctx, "Read ended", "remote", remote, "error", err.Error())
			}
			return
		}
		msg := string(data)
		s.logger.Info(ctx, "Device log", "remote", remote, "message", msg)
		if err := write(EchoPrefix + msg); err != nil {
			return
		}
	}
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts the
// HTTP server down and waits for client goroutines.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info(gctx, "Relay listening", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	s.wg.Wait()
	s.logger.Info(context.Background(), "Relay stopped")
	return err
}
