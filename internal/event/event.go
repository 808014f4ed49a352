// Package event defines the wire envelope shared by the producer and the
// notifier consumer.
package event

import (
	"encoding/json"
	"fmt"
	"time"
)

type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// Wrap serializes a payload into an envelope of the given type.
func Wrap(eventType string, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return &Envelope{
		Type:       eventType,
		OccurredAt: time.Now(),
		Data:       data,
	}, nil
}

// Decode unmarshals the payload into v.
func (e *Envelope) Decode(v any) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}
