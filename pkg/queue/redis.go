package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher pushes messages onto capped Redis lists, one list per type.
type RedisPublisher struct {
	client    *redis.Client
	keyPrefix string
	maxLen    int64
}

// RedisPublisherOption configures RedisPublisher.
type RedisPublisherOption func(*RedisPublisher)

// WithKeyPrefix sets custom key prefix.
func WithKeyPrefix(prefix string) RedisPublisherOption {
	return func(r *RedisPublisher) {
		r.keyPrefix = prefix
	}
}

// WithMaxLen caps each list; older entries are trimmed. Zero disables trimming.
func WithMaxLen(n int64) RedisPublisherOption {
	return func(r *RedisPublisher) {
		r.maxLen = n
	}
}

// RedisConfig holds the connection settings for NewRedisClient.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient opens a client and verifies it with PING.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewRedisPublisher creates a publisher on an existing client.
func NewRedisPublisher(client *redis.Client, opts ...RedisPublisherOption) *RedisPublisher {
	p := &RedisPublisher{
		client:    client,
		keyPrefix: "kurelay:queue",
		maxLen:    10000,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishMessage implements QueueService.
func (r *RedisPublisher) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	data, err := json.Marshal(NewMessage(msgType, payload))
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	key := r.listKey(msgType)
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	if r.maxLen > 0 {
		pipe.LTrim(ctx, key, 0, r.maxLen-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("lpush %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisPublisher) Close() error {
	return r.client.Close()
}

func (r *RedisPublisher) listKey(msgType string) string {
	return fmt.Sprintf("%s:%s", r.keyPrefix, msgType)
}

var _ QueueService = (*RedisPublisher)(nil)
