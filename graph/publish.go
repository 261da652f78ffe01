package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// DefaultIngestSubject is the subject enriched constructs are published to.
const DefaultIngestSubject = "laderr.graph.entity"

// TripleMessage is the wire form of a fact triple.
type TripleMessage struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// EntityMessage is the message format for graph ingestion downstream.
// One message is published per construct, carrying its outgoing facts.
type EntityMessage struct {
	ID        string          `json:"id"`
	RunID     string          `json:"run_id"`
	Classes   []string        `json:"classes"`
	Label     string          `json:"label,omitempty"`
	Triples   []TripleMessage `json:"triples"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Publisher sends enriched graph constructs to NATS.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// NewPublisher creates a publisher on the given connection. Subject defaults
// to DefaultIngestSubject when empty.
func NewPublisher(nc *nats.Conn, subject string) *Publisher {
	if subject == "" {
		subject = DefaultIngestSubject
	}
	return &Publisher{nc: nc, subject: subject}
}

// PublishGraph publishes every construct of the graph as an EntityMessage.
// A nil publisher or connection is a no-op so callers can degrade gracefully
// when no broker is configured.
func (p *Publisher) PublishGraph(ctx context.Context, g *Graph) error {
	if p == nil || p.nc == nil {
		return nil
	}

	runID := uuid.NewString()
	now := time.Now().UTC()

	for _, c := range g.Constructs("") {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg := EntityMessage{
			ID:        c.ID,
			RunID:     runID,
			Classes:   c.Classes(),
			Label:     c.Label,
			UpdatedAt: now,
		}
		for _, t := range g.TriplesOf(c.ID) {
			msg.Triples = append(msg.Triples, TripleMessage{
				Subject:   t.Subject,
				Predicate: t.Predicate,
				Object:    t.Object,
			})
		}

		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal entity %s: %w", c.ID, err)
		}
		if err := p.nc.Publish(p.subject, data); err != nil {
			return fmt.Errorf("publish entity %s: %w", c.ID, err)
		}
	}

	return p.nc.Flush()
}
