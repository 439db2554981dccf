package phase

import (
	"sync"

	"github.com/arloliu/pinmark/types"
)

type subscriber struct {
	ch     chan types.Phase
	mu     sync.Mutex
	closed bool
}

// trySend delivers p without blocking; a full channel drops the update.
func (s *subscriber) trySend(p types.Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	select {
	case s.ch <- p:
	default:
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
