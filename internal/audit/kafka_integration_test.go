//go:build integration

package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	id "tasquest/pkg/domain"
	"tasquest/pkg/testutil/containers"
)

func TestKafkaSink_ProducesKeyedEvents(t *testing.T) {
	rp := containers.GetManager().GetRedpanda(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	topic := "tasquest.audit." + id.NewAccountID().String()[:8]
	sink, err := NewKafkaSink(ctx, []string{rp.Broker}, topic)
	require.NoError(t, err)
	defer sink.Close()
	require.NoError(t, sink.EnsureTopic(ctx, 1, 1))
	require.NoError(t, sink.EnsureTopic(ctx, 1, 1), "second create is a no-op")

	accountID := id.NewAccountID()
	require.NoError(t, sink.Append(ctx, Event{
		Action:    ActionAccountCreated,
		AccountID: accountID,
		Email:     "jane@example.com",
		Timestamp: time.Now().UTC(),
	}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.Empty(t, fetches.Errors())
	records := fetches.Records()
	require.Len(t, records, 1)

	assert.Equal(t, accountID.String(), string(records[0].Key))
	var got Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, ActionAccountCreated, got.Action)
	assert.Equal(t, accountID, got.AccountID)
}
