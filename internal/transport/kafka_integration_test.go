package transport

import (
	"context"
	"testing"
	"time"

	segmentio "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkacontainer "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/lineage-audit/emitter/internal/lineage"
)

// TestKafkaTransportIntegration publishes events through a real broker and
// verifies ordering and keying guarantees end to end.
func TestKafkaTransportIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := kafkacontainer.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		kafkacontainer.WithClusterID("lineage-test-cluster"),
	)
	require.NoError(t, err, "Failed to start kafka container")

	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "Failed to resolve broker addresses")

	const topic = "openlineage.events.test"

	createTopic(t, brokers[0], topic)

	transport, err := NewKafka(&KafkaConfig{
		Brokers:      brokers,
		Topic:        topic,
		RequiredAcks: segmentio.RequireOne,
	})
	require.NoError(t, err, "Failed to create kafka transport")

	t.Cleanup(func() {
		_ = transport.Close()
	})

	// Emit a full run cycle.
	events := []*lineage.RunEvent{testEvent(), testEvent(), testEvent()}
	events[1].EventType = lineage.EventTypeRunning
	events[1].EventTime = events[0].EventTime.Add(5 * time.Second)
	events[2].EventType = lineage.EventTypeComplete
	events[2].EventTime = events[0].EventTime.Add(30 * time.Second)

	for _, event := range events {
		sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		require.NoError(t, transport.Send(sendCtx, event), "Failed to send %s event", event.EventType)
		cancel()
	}

	reader := segmentio.NewReader(segmentio.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: "lineage-test-consumer",
	})

	t.Cleanup(func() {
		_ = reader.Close()
	})

	runID := events[0].Run.ID

	for i, want := range events {
		readCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		msg, err := reader.ReadMessage(readCtx)
		cancel()
		require.NoError(t, err, "Failed to read message %d", i)

		// Key is the run ID, so one run maps to one partition.
		require.Equal(t, runID, string(msg.Key), "message %d key", i)

		decoded, err := lineage.Unmarshal(msg.Value)
		require.NoError(t, err, "Failed to decode message %d", i)

		// Order of delivery equals order of recording.
		require.Equal(t, want.EventType, decoded.EventType, "message %d event type", i)
		require.Equal(t, runID, decoded.Run.ID, "message %d run ID", i)
		require.True(t, decoded.EventTime.Equal(want.EventTime), "message %d event time", i)
	}
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := segmentio.Dial("tcp", broker)
	require.NoError(t, err, "Failed to dial broker")

	defer func() {
		_ = conn.Close()
	}()

	err = conn.CreateTopics(segmentio.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	require.NoError(t, err, "Failed to create topic")
}
