package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"rolodex/pkg/requestcontext"
)

// Publisher captures structured audit events. The store write is synchronous
// and fail-closed: a lifecycle transition that cannot be audited must not
// report success. The optional Kafka sink is fail-open — stream consumers are
// best-effort, the store is the source of truth.
type Publisher struct {
	store  Store
	sink   *Kafka
	logger *slog.Logger
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithSink attaches a Kafka sink for downstream consumers.
func WithSink(sink *Kafka) Option {
	return func(p *Publisher) { p.sink = sink }
}

// WithLogger sets a logger for sink error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit records an event, stamping ID, timestamp, and request ID from context
// when unset.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	if err := p.store.Append(ctx, event); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}

	if p.sink != nil {
		if err := p.sink.Produce(ctx, event); err != nil {
			p.logger.ErrorContext(ctx, "audit sink produce failed",
				"kind", event.Kind,
				"record_id", event.RecordID,
				"action", event.Action,
				"error", err,
			)
		}
	}
	return nil
}

// List returns the audit trail of one record.
func (p *Publisher) List(ctx context.Context, kind string, recordID uuid.UUID) ([]Event, error) {
	return p.store.ListByRecord(ctx, kind, recordID)
}
