package session

import "sync/atomic"

type State int32

const (
	Connecting State = iota
	Active
	Draining
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Active:
		return "active"
	case Draining:
		return "draining"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session is one connected user's stream lifetime.
type Session struct {
	ID    string
	Owner string

	state atomic.Int32
}

func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) set(st State) {
	s.state.Store(int32(st))
}

// drain moves an active session to Draining; later calls are no-ops.
func (s *Session) drain() {
	s.state.CompareAndSwap(int32(Active), int32(Draining))
}
