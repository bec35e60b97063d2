package realtime

import (
	"sync"

	"windpermit/internal/models"
)

// PermitHub — fan-out событий по pending-нарядам: подписчик видит
// added/removed по мере смены статусов без повторного опроса.
type PermitHub struct {
	mu   sync.RWMutex
	subs map[chan models.PermitEvent]struct{}
}

func NewPermitHub() *PermitHub {
	return &PermitHub{subs: make(map[chan models.PermitEvent]struct{})}
}

// Subscribe возвращает канал событий и функцию отписки. Отписка
// закрывает канал; повторный вызов безопасен.
func (h *PermitHub) Subscribe() (<-chan models.PermitEvent, func()) {
	ch := make(chan models.PermitEvent, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish не блокируется на медленных подписчиках: при переполненном
// буфере событие для такого подписчика отбрасывается.
func (h *PermitHub) Publish(ev models.PermitEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
