package packet

import (
	"fmt"

	"go.uber.org/zap"
)

// HandlerFunc is the callback signature for inbound method handlers.
// The session pointer is passed as an opaque interface to avoid import cycles.
type HandlerFunc func(sess any, r *Reader)

type handlerEntry struct {
	fn            HandlerFunc
	allowedStates map[SessionState]bool
}

// Registry maps client method ids to handlers with state-based access control.
type Registry struct {
	handlers map[uint16]*handlerEntry
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		handlers: make(map[uint16]*handlerEntry),
		log:      log,
	}
}

// Register maps a method id to a handler, restricted to the given session states.
func (reg *Registry) Register(methodID uint16, states []SessionState, fn HandlerFunc) {
	allowed := make(map[SessionState]bool, len(states))
	for _, s := range states {
		allowed[s] = true
	}
	reg.handlers[methodID] = &handlerEntry{
		fn:            fn,
		allowedStates: allowed,
	}
}

// Dispatch finds the handler for the payload's method id, validates the
// session state, and calls the handler. Unknown methods are logged and
// ignored; a method arriving in a wrong state is an error.
func (reg *Registry) Dispatch(sess any, state SessionState, data []byte) error {
	if len(data) < headerLen {
		return fmt.Errorf("short payload: %d bytes", len(data))
	}
	methodID := PeekMethodID(data)

	entry, ok := reg.handlers[methodID]
	if !ok {
		reg.log.Debug("unknown method id",
			zap.Uint16("method", methodID),
			zap.String("state", state.String()),
		)
		return nil
	}

	if !entry.allowedStates[state] {
		reg.log.Warn("method not allowed in state",
			zap.Uint16("method", methodID),
			zap.String("state", state.String()),
		)
		return fmt.Errorf("method 0x%02X not allowed in state %s", methodID, state)
	}

	r := NewReader(data)
	return reg.safeCall(entry.fn, sess, r, methodID)
}

// safeCall executes a handler with panic recovery so a single bad payload
// cannot take down the session's dispatch goroutine.
func (reg *Registry) safeCall(fn HandlerFunc, sess any, r *Reader, methodID uint16) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("handler panic recovered",
				zap.Uint16("method", methodID),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("handler panic for method 0x%02X: %v", methodID, rec)
		}
	}()
	fn(sess, r)
	return nil
}
