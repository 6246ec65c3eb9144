package net

import (
	"net"
	"sync/atomic"

	"github.com/novarift/server/internal/net/packet"
	"go.uber.org/zap"
)

// Server accepts TCP connections and creates Sessions. Each session runs its
// own read/write/dispatch goroutines; there is no central game loop.
type Server struct {
	listener net.Listener
	nextID   atomic.Uint64
	registry *packet.Registry
	sessCfg  SessionConfig
	onClose  func(*Session)
	log      *zap.Logger
	closeCh  chan struct{}
}

func NewServer(bindAddr string, sessCfg SessionConfig, reg *packet.Registry, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: ln,
		registry: reg,
		sessCfg:  sessCfg,
		log:      log,
		closeCh:  make(chan struct{}),
	}, nil
}

// OnSessionClose registers a cleanup callback applied to every session.
// Must be set before AcceptLoop starts.
func (s *Server) OnSessionClose(fn func(*Session)) {
	s.onClose = fn
}

// AcceptLoop runs in its own goroutine. It accepts connections and starts
// a session per connection.
func (s *Server) AcceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closeCh:
				return // server shutting down
			default:
			}
			s.log.Error("accept failed", zap.Error(err))
			continue
		}

		id := s.nextID.Add(1)
		sess := NewSession(conn, id, s.sessCfg, s.registry, s.log)
		if s.onClose != nil {
			sess.OnClose(s.onClose)
		}
		sess.Start()

		s.log.Info("client connected",
			zap.Uint64("session", id),
			zap.String("ip", sess.IP),
		)
	}
}

// Shutdown stops accepting new connections.
func (s *Server) Shutdown() {
	close(s.closeCh)
	s.listener.Close()
}

// Addr returns the listener's address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}
