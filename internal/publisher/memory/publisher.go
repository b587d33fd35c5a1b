// Package memory contains an in-memory run event publisher for tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Publisher records published run events for inspection.
type Publisher struct {
	mu     sync.RWMutex
	events []Event
}

// Event captures one publish call. Data holds the JSON encoding of the
// payload, matching what a real sink would put on the wire.
type Event struct {
	Topic string
	Data  []byte
}

// New returns an empty memory Publisher.
func New() *Publisher {
	return &Publisher{}
}

// Publish encodes the payload and records it under the topic. Payloads
// that cannot be marshaled fail here the same way they would against a
// real broker.
func (p *Publisher) Publish(_ context.Context, topic string, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, Event{Topic: topic, Data: data})
	return fmt.Sprintf("memory-%d", len(p.events)), nil
}

// Events returns a copy of the recorded publishes.
func (p *Publisher) Events() []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}
