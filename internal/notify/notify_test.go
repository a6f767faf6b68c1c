package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error { return nil }

func TestKafkaDispatcher_NotifyUser(t *testing.T) {
	w := &captureWriter{}
	d := &KafkaDispatcher{writer: w, topic: "notifications"}
	userID := uuid.New()

	err := d.NotifyUser(context.Background(), userID, "New task assigned", "Replace fuse F3")

	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, userID.String(), string(w.msgs[0].Key))

	var msg Message
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &msg))
	assert.Equal(t, userID, msg.UserID)
	assert.Equal(t, "New task assigned", msg.Title)
	assert.Equal(t, "Replace fuse F3", msg.Body)
}

func TestKafkaDispatcher_WriteError(t *testing.T) {
	d := &KafkaDispatcher{writer: &captureWriter{err: errors.New("broker down")}, topic: "notifications"}

	err := d.NotifyUser(context.Background(), uuid.New(), "t", "b")

	assert.ErrorContains(t, err, "kafka publish to notifications")
}
