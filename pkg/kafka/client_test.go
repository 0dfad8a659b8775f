package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"local-chat-go/internal/config"
	"local-chat-go/pkg/events"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestProducer_PublishTurn(t *testing.T) {
	w := &fakeWriter{}
	p := &producer{writer: w}

	err := p.PublishTurn(context.Background(), events.TurnCompleted{UserMessageID: 1, AIMessageID: 2, Mode: "ollama", Model: "llama3"})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "2", string(w.msgs[0].Key))

	var got events.TurnCompleted
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "llama3", got.Model)
}

func TestProducer_PublishTurnError(t *testing.T) {
	p := &producer{writer: &fakeWriter{err: errors.New("broker down")}}
	err := p.PublishTurn(context.Background(), events.TurnCompleted{})
	assert.ErrorContains(t, err, "broker down")
}

func TestNewPublisher_DisabledIsNop(t *testing.T) {
	p := NewPublisher(config.KafkaConfig{Enabled: false})
	assert.IsType(t, NopPublisher{}, p)
	assert.NoError(t, p.PublishTurn(context.Background(), events.TurnCompleted{}))
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, splitBrokers(" a:9092, ,b:9092"))
}
