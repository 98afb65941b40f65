package events

import (
	"encoding/json"
	"errors"
	"sync"
	"time"
)

const (
	EventBookingCreated  = "booking_created"
	EventBookingApproved = "booking_approved"
	EventBookingRejected = "booking_rejected"
	EventCommentAdded    = "comment_added"
)

// BookingEventPayload is the booking snapshot handed to subscribers.
type BookingEventPayload struct {
	BookingID int64     `json:"bookingId"`
	ItemID    int64     `json:"itemId"`
	ItemName  string    `json:"itemName"`
	OwnerID   int64     `json:"ownerId"`
	BookerID  int64     `json:"bookerId"`
	Status    string    `json:"status"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	ActorID   int64     `json:"actorId"`
}

type CommentEventPayload struct {
	CommentID int64 `json:"commentId"`
	ItemID    int64 `json:"itemId"`
	AuthorID  int64 `json:"authorId"`
}

type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Decode unmarshals the payload into v.
func (e *Event) Decode(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

type EventHandler func(event *Event) error

// EventBus is an in-process, synchronous pub/sub.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers handler for every listed event type.
func (b *EventBus) Subscribe(handler EventHandler, eventTypes ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range eventTypes {
		b.subscribers[t] = append(b.subscribers[t], handler)
	}
}

// Publish runs every handler of the event type in registration order.
// All handlers run even if some fail; their errors are joined.
func (b *EventBus) Publish(event *Event) error {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublishJSON marshals payload and publishes it. A nil bus is a no-op.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
}
