// Package broker fans workflow notifications out over Redis pub/sub.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/internship-api/pkg/config"
)

// NewRedis returns a connected Redis client.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// Message is the envelope published on every channel.
type Message struct {
	Topic       string      `json:"topic"`
	Payload     interface{} `json:"payload"`
	PublishedAt time.Time   `json:"publishedAt"`
}

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher publishes JSON messages to "<prefix>:<topic>" channels.
type RedisPublisher struct {
	client redisPublisher
	prefix string
}

// NewRedisPublisher wraps a Redis client.
func NewRedisPublisher(client redisPublisher, prefix string) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix}
}

// Channel returns the channel name used for topic.
func (p *RedisPublisher) Channel(topic string) string {
	if p.prefix == "" {
		return topic
	}
	return p.prefix + ":" + topic
}

// Publish marshals payload and sends it on the topic channel.
func (p *RedisPublisher) Publish(ctx context.Context, topic string, payload interface{}) error {
	body, err := json.Marshal(Message{Topic: topic, Payload: payload, PublishedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", topic, err)
	}
	if err := p.client.Publish(ctx, p.Channel(topic), body).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", topic, err)
	}
	return nil
}
