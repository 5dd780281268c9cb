package audit

import (
	"context"

	"github.com/google/uuid"
)

// Store is the append-only audit trail. Interface-driven so the in-memory and
// PostgreSQL implementations swap without rewiring the publisher.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByRecord(ctx context.Context, kind string, recordID uuid.UUID) ([]Event, error)
}
