package service

import (
	"sync"

	"hydration_monitor/internal/models"
)

const subscriberBuffer = 64

// hub fans records out to subscribers without blocking the sender.
type hub struct {
	mu   sync.Mutex
	next int
	subs map[int]chan models.EventRecord
}

func newHub() *hub {
	return &hub{subs: make(map[int]chan models.EventRecord)}
}

func (h *hub) subscribe() (<-chan models.EventRecord, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan models.EventRecord, subscriberBuffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *hub) broadcast(r models.EventRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- r:
		default:
		}
	}
}
