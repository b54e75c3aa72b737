package services

import (
	"sync"
	"time"

	"donlouis-backend/models"

	"github.com/google/uuid"
)

const (
	EventOrderCreated = "order_created"
	EventOrderStatus  = "order_status"
	EventOrderSync    = "order_sync"
)

// OrderEvent is pushed to tracking screens and the admin board.
type OrderEvent struct {
	Kind        string             `json:"kind"`
	OrderID     uuid.UUID          `json:"order_id"`
	Status      models.OrderStatus `json:"status"`
	Label       string             `json:"label"`
	OrderType   models.OrderType   `json:"order_type"`
	Phone       string             `json:"phone"`
	TotalAmount float64            `json:"total_amount"`
	At          time.Time          `json:"at"`
}

func NewOrderEvent(kind string, o models.Order, at time.Time) OrderEvent {
	return OrderEvent{
		Kind:        kind,
		OrderID:     o.ID,
		Status:      o.Status,
		Label:       StatusLabel(o.Status),
		OrderType:   o.OrderType,
		Phone:       o.ProfilePhone,
		TotalAmount: o.TotalAmount,
		At:          at,
	}
}

type subscriber struct {
	orderID uuid.UUID
	ch      chan OrderEvent
}

// Hub fans order events out to in-process subscribers. Delivery is best
// effort: a subscriber whose buffer is full misses the event and catches up
// on the next sync.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscriber
	nextID uint64
	buffer int
}

func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{subs: map[uint64]*subscriber{}, buffer: buffer}
}

// Subscribe listens to one order, or to every order when orderID is uuid.Nil.
// The returned func unsubscribes and closes the channel; it is safe to call
// more than once.
func (h *Hub) Subscribe(orderID uuid.UUID) (<-chan OrderEvent, func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	s := &subscriber{orderID: orderID, ch: make(chan OrderEvent, h.buffer)}
	h.subs[id] = s
	h.mu.Unlock()

	var once sync.Once
	return s.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			close(s.ch)
			h.mu.Unlock()
		})
	}
}

// Publish returns the number of subscribers that received the event.
func (h *Hub) Publish(ev OrderEvent) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, s := range h.subs {
		if s.orderID != uuid.Nil && s.orderID != ev.OrderID {
			continue
		}
		select {
		case s.ch <- ev:
			delivered++
		default:
		}
	}
	return delivered
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
