//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"rolodex/internal/audit"
	"rolodex/internal/directory/models"
	"rolodex/pkg/testutil/containers"
)

func TestKafkaSinkRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	broker := containers.GetManager().GetRedpanda(t).Broker
	topic := "rolodex.audit.test"

	sink, err := audit.NewKafka(ctx, []string{broker}, topic)
	require.NoError(t, err)
	defer sink.Close()

	event := audit.Event{
		ID:        uuid.New(),
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
		Kind:      models.KindInvoice,
		RecordID:  uuid.New(),
		Action:    audit.ActionSoftDeleted,
		RequestID: "req-9",
	}
	require.NoError(t, sink.Produce(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	pollCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	fetches := consumer.PollFetches(pollCtx)
	require.Empty(t, fetches.Errors())

	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, event.RecordID.String(), string(records[0].Key))

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, event.ID, got.ID)
	require.Equal(t, event.Action, got.Action)
	require.Equal(t, event.Kind, got.Kind)
	require.Equal(t, event.RequestID, got.RequestID)
	require.True(t, event.Timestamp.Equal(got.Timestamp))
}

// TestPublisherWithKafkaSink drives the publisher end to end: store append
// plus stream fan-out.
func TestPublisherWithKafkaSink(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	broker := containers.GetManager().GetRedpanda(t).Broker
	topic := "rolodex.audit.publisher-test"

	sink, err := audit.NewKafka(ctx, []string{broker}, topic)
	require.NoError(t, err)
	defer sink.Close()

	store := audit.NewInMemoryStore()
	publisher := audit.NewPublisher(store, audit.WithSink(sink))

	recordID := uuid.New()
	err = publisher.Emit(ctx, audit.Event{
		Kind:     models.KindCustomer,
		RecordID: recordID,
		Action:   audit.ActionCreated,
	})
	require.NoError(t, err)

	events, err := publisher.List(ctx, models.KindCustomer, recordID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.NotEqual(t, uuid.Nil, events[0].ID, "publisher must stamp an event id")
	require.False(t, events[0].Timestamp.IsZero(), "publisher must stamp a timestamp")

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	pollCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	fetches := consumer.PollFetches(pollCtx)
	require.Empty(t, fetches.Errors())
	require.Len(t, fetches.Records(), 1)
}
