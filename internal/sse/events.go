// Package sse provides server-sent event broadcasting so clients can react
// to record imports without polling.
package sse

import "time"

// EventType identifies the kind of event being broadcast.
type EventType string

// Event types broadcast by the server.
const (
	EventHeartbeat      EventType = "heartbeat"
	EventRecordImported EventType = "record.imported"
)

// Event is a single server-sent event.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent(eventType EventType, data any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// NewHeartbeatEvent creates a keepalive event.
func NewHeartbeatEvent() Event {
	return NewEvent(EventHeartbeat, nil)
}
