// Package notify publishes push notifications for the delivery service.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Dispatcher delivers a notification to one user.
type Dispatcher interface {
	NotifyUser(ctx context.Context, userID uuid.UUID, title, body string) error
}

// Message is the payload written to the notification topic.
type Message struct {
	UserID uuid.UUID `json:"user_id"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaDispatcher writes notifications to a Kafka topic keyed by user id, so
// all messages for one user land on the same partition.
type KafkaDispatcher struct {
	writer messageWriter
	topic  string
}

func NewKafkaDispatcher(brokers []string, topic string) *KafkaDispatcher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		MaxAttempts:            3,
		WriteTimeout:           10 * time.Second,
		AllowAutoTopicCreation: true,
	}
	return &KafkaDispatcher{writer: w, topic: topic}
}

func (d *KafkaDispatcher) NotifyUser(ctx context.Context, userID uuid.UUID, title, body string) error {
	now := time.Now().UTC()
	value, err := json.Marshal(Message{UserID: userID, Title: title, Body: body, SentAt: now})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	err = d.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(userID.String()),
		Value: value,
		Time:  now,
	})
	if err != nil {
		return fmt.Errorf("kafka publish to %s: %w", d.topic, err)
	}
	return nil
}

func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}

// LogDispatcher only logs notifications. It is used when no brokers are
// configured.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) NotifyUser(_ context.Context, userID uuid.UUID, title, body string) error {
	d.logger.Info("notification",
		slog.String("user_id", userID.String()),
		slog.String("title", title),
		slog.String("body", body),
	)
	return nil
}
