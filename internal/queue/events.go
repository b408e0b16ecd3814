package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

// Event types for the push stream
const (
	EventMessage = "message" // data-only push delivered to the device
	EventOpened  = "opened"  // user tapped a notification
)

// Stream names
const (
	StreamPush = "stream:push"
)

// Consumer group name for push clients
const (
	ConsumerGroupPush = "push_clients"
)

// PushEvent is one entry of the push stream written by the relay.
type PushEvent struct {
	Type      string `json:"type"`      // EventMessage or EventOpened
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred
	ID        string `json:"id"`        // message or notification id

	// Opened events carry what the tray showed
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`

	Data map[string]string `json:"data,omitempty"`
}

// NewMessageEvent wraps a data-only message.
func NewMessageEvent(data map[string]string) PushEvent {
	return PushEvent{
		Type:      EventMessage,
		Timestamp: time.Now().Unix(),
		ID:        uuid.NewString(),
		Data:      data,
	}
}

// NewOpenedEvent records a tap on a displayed notification.
func NewOpenedEvent(n model.Notification) PushEvent {
	id := n.ID
	if id == "" {
		id = uuid.NewString()
	}
	return PushEvent{
		Type:      EventOpened,
		Timestamp: time.Now().Unix(),
		ID:        id,
		Title:     n.Title,
		Body:      n.Body,
		Data:      n.Data,
	}
}

// Message converts a message event for the dispatcher.
func (e PushEvent) Message() model.Message {
	return model.Message{ID: e.ID, Data: e.Data, SentAt: time.Unix(e.Timestamp, 0)}
}

// Notification converts an opened event back to the tapped notification.
func (e PushEvent) Notification() model.Notification {
	return model.Notification{ID: e.ID, Title: e.Title, Body: e.Body, Data: e.Data}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e PushEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParsePushEvent parses a PushEvent from Redis stream message values.
func ParsePushEvent(values map[string]interface{}) (PushEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return PushEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event PushEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return PushEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	if event.Type != EventMessage && event.Type != EventOpened {
		return PushEvent{}, fmt.Errorf("unknown event type %q", event.Type)
	}
	return event, nil
}
