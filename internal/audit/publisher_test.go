package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rolodex/pkg/requestcontext"
)

type failingStore struct{}

func (failingStore) Append(context.Context, Event) error {
	return errors.New("disk full")
}

func (failingStore) ListByRecord(context.Context, string, uuid.UUID) ([]Event, error) {
	return nil, nil
}

func TestEmitStampsEventFromContext(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	ctx = requestcontext.WithRequestID(ctx, "req-42")

	store := NewInMemoryStore()
	publisher := NewPublisher(store)

	recordID := uuid.New()
	err := publisher.Emit(ctx, Event{
		Kind:     "customer",
		RecordID: recordID,
		Action:   ActionCreated,
	})
	require.NoError(t, err)

	events, err := store.ListByRecord(ctx, "customer", recordID)
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.NotEqual(t, uuid.Nil, events[0].ID)
	assert.Equal(t, now, events[0].Timestamp)
	assert.Equal(t, "req-42", events[0].RequestID)
}

func TestEmitPreservesExplicitFields(t *testing.T) {
	store := NewInMemoryStore()
	publisher := NewPublisher(store)

	id := uuid.New()
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	recordID := uuid.New()

	err := publisher.Emit(context.Background(), Event{
		ID:        id,
		Timestamp: ts,
		Kind:      "invoice",
		RecordID:  recordID,
		Action:    ActionUpdated,
		RequestID: "req-7",
	})
	require.NoError(t, err)

	events, err := store.ListByRecord(context.Background(), "invoice", recordID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].ID)
	assert.Equal(t, ts, events[0].Timestamp)
	assert.Equal(t, "req-7", events[0].RequestID)
}

func TestEmitFailsClosedOnStoreError(t *testing.T) {
	publisher := NewPublisher(failingStore{})

	err := publisher.Emit(context.Background(), Event{
		Kind:     "customer",
		RecordID: uuid.New(),
		Action:   ActionCreated,
	})
	require.Error(t, err)
}
