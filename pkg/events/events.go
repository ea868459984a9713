// Package events publishes committed ledger responses.
package events

import (
	"context"
	"time"
)

// Attribute mirrors one response attribute.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is one committed command.
type Event struct {
	Action      string      `json:"action"`
	Caller      string      `json:"caller"`
	BlockTime   uint64      `json:"block_time"`
	Attributes  []Attribute `json:"attributes"`
	CommittedAt time.Time   `json:"committed_at"`
}

// Key groups events of one poll on the same partition.
func (e Event) Key() string {
	for _, a := range e.Attributes {
		if a.Key == "id" || a.Key == "poll_id" {
			return a.Value
		}
	}
	return e.Action
}

// Publisher delivers events after their command committed.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...Event) error { return nil }
func (NoopPublisher) Close() error                            { return nil }
