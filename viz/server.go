package viz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	writeWait    = 5 * time.Second
	shutdownWait = 5 * time.Second
)

// Server exposes a Hub over HTTP.
type Server struct {
	addr      string
	hub       *Hub
	accessLog io.Writer
	upgrader  websocket.Upgrader
}

// NewServer creates a server for hub. Requests are logged to accessLog in
// combined log format; a nil accessLog disables request logging.
func NewServer(addr string, hub *Hub, accessLog io.Writer) *Server {
	return &Server{
		addr:      addr,
		hub:       hub,
		accessLog: accessLog,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler returns the routed handler:
//
//	GET /healthz  liveness
//	GET /state    latest frame as JSON
//	GET /ws       live frame stream, one JSON text message per frame
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Handle("/healthz", s.logged(http.HandlerFunc(s.healthz))).Methods("GET")
	router.Handle("/state", s.logged(http.HandlerFunc(s.state))).Methods("GET")
	router.Handle("/ws", s.logged(http.HandlerFunc(s.stream))).Methods("GET")
	return router
}

func (s *Server) logged(h http.Handler) http.Handler {
	if s.accessLog == nil {
		return h
	}
	return handlers.CombinedLoggingHandler(s.accessLog, h)
}

// ListenAndServe listens on the server address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("viz server: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down.
// Every request context derives from a server-owned context that is cancelled
// first, so open websocket streams end with the server.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	streamCtx, cancelStreams := context.WithCancel(context.Background())
	defer cancelStreams()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return streamCtx },
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("viz feed listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("viz server: %w", err)
	case <-ctx.Done():
	}

	cancelStreams()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("viz server shutdown: %w", err)
	}
	return nil
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	io.WriteString(w, "ok\n")
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	data, _ := s.hub.Latest()
	if data == nil {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	sub := s.hub.subscribe()
	defer s.hub.unsubscribe(sub)

	// Reading is required to notice the client closing the socket.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if data, _ := s.hub.Latest(); data != nil {
		if err := s.write(conn, data); err != nil {
			return
		}
	}

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case data := <-sub.frames:
			if err := s.write(conn, data); err != nil {
				slog.Debug("websocket write failed", "remote", r.RemoteAddr, "error", err)
				return
			}
		}
	}
}

func (s *Server) write(conn *websocket.Conn, data []byte) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}
