package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"

	"github.com/enderates/fishub/internal/domain"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("catch-1"),
		Value:     []byte(`{"id":"catch-1"}`),
		Topic:     "raw-catch-records",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("mobile")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("catch-1"), raw.Key)
	assert.JSONEq(t, `{"id":"catch-1"}`, string(raw.Value))
	assert.Equal(t, "raw-catch-records", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "mobile", raw.Headers["source"])
	assert.Nil(t, raw.Commit)
}

func TestMapMessageToRawEvent_NoHeaders(t *testing.T) {
	raw := mapMessageToRawEvent(kafkago.Message{Value: []byte(`{}`)})
	assert.NotNil(t, raw.Headers)
	assert.Empty(t, raw.Headers)
}

func TestToMessage(t *testing.T) {
	event := domain.OutputEvent{
		Key:   []byte("catch-1"),
		Value: []byte(`{"id":"catch-1","region":"İstanbul"}`),
		Headers: map[string]string{
			"region":      "İstanbul",
			"lunar_phase": "Full Moon",
			"enriched_at": "2024-04-26T15:10:00Z",
		},
	}

	msg := toMessage(event)

	assert.Equal(t, []byte("catch-1"), msg.Key)
	assert.Equal(t, event.Value, msg.Value)
	assert.Equal(t, []kafkago.Header{
		{Key: "enriched_at", Value: []byte("2024-04-26T15:10:00Z")},
		{Key: "lunar_phase", Value: []byte("Full Moon")},
		{Key: "region", Value: []byte("İstanbul")},
	}, msg.Headers)
}
