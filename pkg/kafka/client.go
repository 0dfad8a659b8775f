// Package kafka 提供了向 Kafka 投递对话事件的功能。
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/segmentio/kafka-go"

	"local-chat-go/internal/config"
	"local-chat-go/pkg/events"
	"local-chat-go/pkg/log"
)

// Publisher 把对话事件发送到外部系统。
type Publisher interface {
	PublishTurn(ctx context.Context, event events.TurnCompleted) error
	Close() error
}

// messageWriter 是 *kafka.Writer 中用到的部分，便于测试替换。
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type producer struct {
	writer messageWriter
}

// NewPublisher 根据配置创建 Publisher；未启用 Kafka 时返回 no-op 实现。
func NewPublisher(cfg config.KafkaConfig) Publisher {
	if !cfg.Enabled {
		log.Info("Kafka 未启用，对话事件不会被投递")
		return NopPublisher{}
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(splitBrokers(cfg.Brokers)...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	log.Infof("Kafka 生产者初始化成功, topic: %s", cfg.Topic)
	return &producer{writer: w}
}

// PublishTurn 以 AI 消息 ID 作为 key 发送一个 TurnCompleted 事件。
func (p *producer) PublishTurn(ctx context.Context, event events.TurnCompleted) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal turn event: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(event.AIMessageID, 10)),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to write turn event: %w", err)
	}
	return nil
}

func (p *producer) Close() error {
	return p.writer.Close()
}

// NopPublisher 丢弃所有事件。
type NopPublisher struct{}

func (NopPublisher) PublishTurn(context.Context, events.TurnCompleted) error { return nil }

func (NopPublisher) Close() error { return nil }

func splitBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
