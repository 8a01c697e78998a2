package events

import (
	"encoding/json"
	"sync"
	"time"
)

// Application events published by the data layer and consumed by the view
// layer. The session_expired event replaces a hard redirect to the login
// screen: the bot subscribes and routes the user there itself.
const (
	EventSessionExpired = "session_expired"
	EventLoggedIn       = "logged_in"
	EventLoggedOut      = "logged_out"
	EventBookingCreated = "booking_created"
)

// SessionEventPayload carries session lifecycle details.
type SessionEventPayload struct {
	Username string `json:"username,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// BookingEventPayload is the minimal booking snapshot for event consumers.
type BookingEventPayload struct {
	BookingID  int64  `json:"booking_id"`
	RoomNumber string `json:"room_number"`
	RoomName   string `json:"room_name"`
	CheckIn    string `json:"check_in_date"`
	CheckOut   string `json:"check_out_date"`
	TotalPrice string `json:"total_price"`
	Status     string `json:"status"`
}

// Event represents a lightweight application event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
