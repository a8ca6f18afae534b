// Package monitor streams listener reports to WebSocket subscribers. It only
// publishes; nothing a subscriber sends reaches the listener.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/1ureka/udputil/internal/protocol"
	"github.com/1ureka/udputil/internal/util"
)

// writeTimeout bounds each push so a stalled subscriber cannot hold up the
// receive loop.
const writeTimeout = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server accepts subscribers on /ws and fans out every published Event.
type Server struct {
	session  string
	listener net.Listener
	srv      *http.Server

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewServer creates a monitor with a fresh session ID.
func NewServer() *Server {
	return &Server{
		session: uuid.NewString(),
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Session returns the ID stamped on every event of this run.
func (s *Server) Session() string {
	return s.session
}

// Start begins listening on addr. Returns the bound address.
func (s *Server) Start(addr string) (net.Addr, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start monitor on %s: %w", addr, err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	s.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			util.LogWarning("monitor server stopped: %v", err)
		}
	}()

	return listener.Addr(), nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()
	util.LogDebug("monitor subscriber connected from %s", r.RemoteAddr)

	// Drain inbound frames so close and ping control messages are handled.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				s.drop(conn)
				return
			}
		}
	}()
}

// drop removes and closes a subscriber.
func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	_, ok := s.clients[conn]
	delete(s.clients, conn)
	s.mu.Unlock()

	if ok {
		conn.Close()
		util.LogDebug("monitor subscriber %s disconnected", conn.RemoteAddr())
	}
}

// Clients returns the number of connected subscribers.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Publish stamps ev with the session and time and writes it to every
// subscriber. Subscribers whose write fails are dropped.
func (s *Server) Publish(ev Event) {
	ev.Session = s.session
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	// Publish is only called from the receive loop goroutine, so each
	// connection has a single writer.
	for _, c := range conns {
		_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteJSON(ev); err != nil {
			util.LogDebug("monitor write to %s failed: %v", c.RemoteAddr(), err)
			s.drop(c)
		}
	}
}

// Datagram publishes a structured datagram report.
func (s *Server) Datagram(from net.Addr, dg *protocol.Datagram) {
	s.Publish(Event{
		Kind:    KindDatagram,
		From:    addrString(from),
		Length:  protocol.Size,
		Counter: dg.Counter,
		Origin:  dg.Origin,
		Payload: string(dg.Payload),
		Quit:    dg.Quit,
	})
}

// Unrecognized publishes a wrong-size frame report.
func (s *Server) Unrecognized(from net.Addr, u *protocol.Unrecognized) {
	s.Publish(Event{
		Kind:   KindUnrecognized,
		From:   addrString(from),
		Length: u.Length,
		Data:   u.Data,
	})
}

// Close stops accepting subscribers and disconnects the current ones.
func (s *Server) Close() error {
	var err error
	if s.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		err = s.srv.Shutdown(ctx)
	}

	s.mu.Lock()
	conns := s.clients
	s.clients = make(map[*websocket.Conn]struct{})
	s.mu.Unlock()

	for c := range conns {
		c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "listener stopped"),
			time.Now().Add(writeTimeout))
		c.Close()
	}
	return err
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	if u, ok := a.(*net.UDPAddr); ok {
		return u.IP.String()
	}
	return a.String()
}
