package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusPublishSubscribe(t *testing.T) {
	bus := NewEventBus()

	var got []string
	bus.Subscribe(EventSessionExpired, func(ev *Event) error {
		var payload SessionEventPayload
		require.NoError(t, json.Unmarshal(ev.Payload, &payload))
		got = append(got, payload.Reason)
		return nil
	})

	require.NoError(t, bus.PublishJSON(EventSessionExpired, SessionEventPayload{Reason: "refresh failed"}))
	require.NoError(t, bus.PublishJSON(EventLoggedIn, SessionEventPayload{Username: "alice"}))

	assert.Equal(t, []string{"refresh failed"}, got, "only subscribed type delivered")
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	for i := 0; i < 3; i++ {
		bus.Subscribe(EventBookingCreated, func(ev *Event) error {
			calls++
			return nil
		})
	}

	require.NoError(t, bus.PublishJSON(EventBookingCreated, BookingEventPayload{BookingID: 1, RoomNumber: "101"}))
	assert.Equal(t, 3, calls)
}

func TestNilBusPublishJSON(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(EventLoggedOut, nil))
}

func TestPublishSetsCreatedAt(t *testing.T) {
	bus := NewEventBus()
	var seen *Event
	bus.Subscribe(EventLoggedOut, func(ev *Event) error {
		seen = ev
		return nil
	})
	bus.Publish(&Event{Type: EventLoggedOut})
	require.NotNil(t, seen)
	assert.False(t, seen.CreatedAt.IsZero())
}
