package domain

import (
	"context"
	"encoding/json"
)

// EventType names a change pushed to realtime subscribers
type EventType string

const (
	EventQuestionCreated EventType = "question_created"
	EventQuestionDeleted EventType = "question_deleted"
)

// Event is the envelope delivered to websocket clients
type Event struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewEvent marshals payload into an event envelope
func NewEvent(eventType EventType, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: eventType, Payload: data}, nil
}

// EventPublisher delivers events to subscribers
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
