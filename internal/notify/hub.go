// Package notify fans mutation notifications (the toast/modal stream) out to
// connected admin clients.
package notify

import (
	"sync"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/mutate"
)

type Hub struct {
	mu   sync.Mutex
	subs map[int]chan mutate.Notification
	next int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan mutate.Notification)}
}

// Notifier is the sink handed to the mutation orchestrator.
func (h *Hub) Notifier() mutate.Notifier {
	return func(n mutate.Notification) {
		h.mu.Lock()
		defer h.mu.Unlock()
		for _, ch := range h.subs {
			select {
			case ch <- n:
			default:
				// a stalled client must not block mutations
			}
		}
	}
}

func (h *Hub) Subscribe() (<-chan mutate.Notification, func()) {
	ch := make(chan mutate.Notification, 16)
	h.mu.Lock()
	h.next++
	id := h.next
	h.subs[id] = ch
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}
