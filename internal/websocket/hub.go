package websocket

import "sync"

// Hub fans server-side events out to every open stream. Slow subscribers
// lose events rather than blocking the sender.
type Hub struct {
	mu   sync.Mutex
	subs map[chan interface{}]struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan interface{}]struct{})}
}

// Subscribe registers a buffered channel; call the returned func to leave.
func (h *Hub) Subscribe() (<-chan interface{}, func()) {
	ch := make(chan interface{}, 8)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
		})
	}
}

// Broadcast delivers ev to every subscriber with room in its buffer.
func (h *Hub) Broadcast(ev interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
