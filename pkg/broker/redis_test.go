package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishRecorder struct {
	channel string
	body    []byte
	err     error
}

func (r *publishRecorder) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	r.channel = channel
	r.body, _ = message.([]byte)
	cmd := redis.NewIntCmd(ctx)
	if r.err != nil {
		cmd.SetErr(r.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestRedisPublisherPublish(t *testing.T) {
	rec := &publishRecorder{}
	pub := NewRedisPublisher(rec, "internship")

	require.NoError(t, pub.Publish(context.Background(), "task.updated", map[string]string{"taskId": "task-1"}))
	assert.Equal(t, "internship:task.updated", rec.channel)

	var msg struct {
		Topic   string            `json:"topic"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(rec.body, &msg))
	assert.Equal(t, "task.updated", msg.Topic)
	assert.Equal(t, "task-1", msg.Payload["taskId"])
}

func TestRedisPublisherPropagatesErrors(t *testing.T) {
	rec := &publishRecorder{err: errors.New("connection refused")}
	pub := NewRedisPublisher(rec, "")

	err := pub.Publish(context.Background(), "team.updated", nil)
	require.Error(t, err)
	assert.Equal(t, "team.updated", rec.channel)
}
