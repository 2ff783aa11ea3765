// Package events publishes access grants and revokes.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/StellaShiina/julebord/access"
)

// SubjectPrefix is prepended to the event kind to form the NATS subject.
const SubjectPrefix = "julebord.access."

// Subject returns the subject an event of kind is published on.
func Subject(kind access.EventKind) string {
	return SubjectPrefix + string(kind)
}

// Publisher delivers access events. It satisfies access.Notifier.
type Publisher interface {
	Notify(ctx context.Context, event access.Event) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Notify(context.Context, access.Event) error { return nil }
func (NoopPublisher) Close() error                               { return nil }

// NATSPublisher publishes JSON-encoded events to NATS.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to url.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("julebord"))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSPublisher{conn: nc}, nil
}

func (p *NATSPublisher) Notify(_ context.Context, event access.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	return p.conn.Publish(Subject(event.Kind), data)
}

func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}

// Open returns a NATS publisher when url is set, otherwise a NoopPublisher.
func Open(url string) (Publisher, error) {
	if url == "" {
		return NoopPublisher{}, nil
	}
	return NewNATSPublisher(url)
}
