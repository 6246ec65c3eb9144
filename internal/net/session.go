package net

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/novarift/server/internal/net/packet"
	"go.uber.org/zap"
)

// ErrSessionClosed is returned by SendMethod on a closed session.
var ErrSessionClosed = errors.New("session closed")

// ErrSendQueueFull is returned when the outbound queue is saturated. The
// session is closed as a side effect: a client that cannot drain its socket
// is not worth stalling the broadcaster for.
var ErrSendQueueFull = errors.New("send queue full")

// Session represents a single client connection. Network I/O runs in
// dedicated goroutines; inbound calls are dispatched one at a time from the
// session's own dispatch goroutine, so handler code sees its requests in
// arrival order.
type Session struct {
	ID   uint64
	conn net.Conn

	state atomic.Int32 // packet.SessionState stored as int32

	InQueue  chan []byte // dispatch goroutine reads payloads from here
	OutQueue chan []byte // writer goroutine reads from here

	IP          string
	AccountID   uint32
	AccountName string

	// UserData hangs handler-owned per-session state off the connection.
	// Touched only from the dispatch goroutine.
	UserData any

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	onClose   func(*Session)

	// Per-second packet rate limiter (readLoop goroutine only, no lock needed)
	pktPerSec  int
	pktCount   int
	pktResetAt int64

	readTimeout  time.Duration
	writeTimeout time.Duration

	registry *packet.Registry
	log      *zap.Logger
}

// SessionConfig bundles the per-connection tuning knobs. Zero timeouts
// disable the corresponding deadline.
type SessionConfig struct {
	InQueueSize  int
	OutQueueSize int
	PktPerSec    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func NewSession(conn net.Conn, id uint64, cfg SessionConfig, reg *packet.Registry, log *zap.Logger) *Session {
	s := &Session{
		ID:           id,
		conn:         conn,
		InQueue:      make(chan []byte, cfg.InQueueSize),
		OutQueue:     make(chan []byte, cfg.OutQueueSize),
		IP:           conn.RemoteAddr().String(),
		closeCh:      make(chan struct{}),
		pktPerSec:    cfg.PktPerSec,
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
		registry:     reg,
		log:          log.With(zap.Uint64("session", id)),
	}
	s.state.Store(int32(packet.StateLogin))
	return s
}

func (s *Session) State() packet.SessionState {
	return packet.SessionState(s.state.Load())
}

func (s *Session) SetState(st packet.SessionState) {
	s.state.Store(int32(st))
}

func (s *Session) Log() *zap.Logger {
	return s.log
}

// OnClose registers a callback invoked exactly once when the session closes.
// Must be set before Start.
func (s *Session) OnClose(fn func(*Session)) {
	s.onClose = fn
}

// Start launches the reader, writer and dispatch goroutines.
func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
	go s.dispatchLoop()
}

// SendMethod marshals one entity-addressed call and enqueues it for the
// writer goroutine. The enqueue never blocks: a full queue closes the
// session and reports the failure to the caller instead of stalling it.
func (s *Session) SendMethod(entityID uint64, m packet.Method) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	data := packet.Marshal(entityID, m)
	select {
	case s.OutQueue <- data:
		return nil
	default:
		s.log.Warn("send queue full, disconnecting slow client",
			zap.Uint16("method", m.MethodID()),
		)
		s.Close()
		return ErrSendQueueFull
	}
}

// Close shuts down the session. Safe to call from any goroutine, any number
// of times.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.SetState(packet.StateDisconnecting)
		close(s.closeCh)
		s.conn.Close()
		if s.onClose != nil {
			s.onClose(s)
		}
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// readLoop reads frames from the TCP connection and pushes them onto
// InQueue for the dispatch goroutine.
func (s *Session) readLoop() {
	defer s.Close()

	for {
		select {
		case <-s.closeCh:
			return
		default:
		}

		if s.readTimeout > 0 {
			s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		}
		payload, err := ReadFrame(s.conn)
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}

		if s.pktPerSec > 0 {
			now := time.Now().Unix()
			if now != s.pktResetAt {
				s.pktCount = 0
				s.pktResetAt = now
			}
			s.pktCount++
			if s.pktCount > s.pktPerSec {
				s.log.Warn("packet rate exceeded, disconnecting", zap.Int("pps", s.pktCount))
				return
			}
		}

		// Block until InQueue has space or the session closes. The readLoop
		// goroutine is per-session, so this only stalls this one client.
		select {
		case s.InQueue <- payload:
		case <-s.closeCh:
			return
		}
	}
}

// dispatchLoop drains InQueue and runs the registered handler for each call.
// One goroutine per session keeps per-connection FIFO order while separate
// sessions progress concurrently.
func (s *Session) dispatchLoop() {
	for {
		select {
		case data := <-s.InQueue:
			if err := s.registry.Dispatch(s, s.State(), data); err != nil {
				s.log.Warn("dispatch failed", zap.Error(err))
			}
		case <-s.closeCh:
			return
		}
	}
}

// writeLoop reads marshaled calls from OutQueue and writes them as framed
// data to the TCP connection.
func (s *Session) writeLoop() {
	defer s.Close()

	for {
		select {
		case data := <-s.OutQueue:
			if !s.writeOne(data) {
				return
			}
		case <-s.closeCh:
			return
		}
	}
}

func (s *Session) writeOne(data []byte) bool {
	if s.writeTimeout > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	if err := WriteFrame(s.conn, data); err != nil {
		if !s.closed.Load() {
			s.log.Debug("write error", zap.Error(err))
		}
		return false
	}
	return true
}
