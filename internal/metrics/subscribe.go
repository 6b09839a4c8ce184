package metrics

import (
	"encoding/json"

	"farmrent/internal/events"
)

// SubscribeBookingEvents wires the booking counters to the event bus so
// they track the published booking lifecycle rather than call sites.
func SubscribeBookingEvents(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingCreated, func(event *events.Event) error {
		var payload events.BookingEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return err
		}
		IncBookingCreated(payload.Kind)
		return nil
	})

	bus.Subscribe(events.EventBookingCanceled, func(event *events.Event) error {
		IncBookingCanceled()
		return nil
	})
}
