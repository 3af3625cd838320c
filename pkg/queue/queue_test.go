package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Level string `json:"level"`
	Count int    `json:"count"`
}

func TestNewMessage(t *testing.T) {
	m := NewMessage("error_logs", "x")
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "error_logs", m.Type)
	assert.Zero(t, m.Attempts)
	assert.False(t, m.Timestamp.IsZero())

	other := NewMessage("error_logs", "x")
	assert.NotEqual(t, m.ID, other.ID)
}

func TestParsePayloadRoundTripsThroughJSON(t *testing.T) {
	raw, err := json.Marshal(NewMessage("t", sample{Level: "error", Count: 3}))
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(raw, &decoded))

	got, err := ParsePayload[sample](decoded.Payload)
	require.NoError(t, err)
	assert.Equal(t, sample{Level: "error", Count: 3}, *got)
}

func TestParsePayloadRejectsScalars(t *testing.T) {
	_, err := ParsePayload[sample](42)
	assert.Error(t, err)
}

func TestRedisPublisherKeys(t *testing.T) {
	p := NewRedisPublisher(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), WithKeyPrefix("test:logs"))
	defer p.Close()

	assert.Equal(t, "test:logs:error_logs", p.listKey("error_logs"))
}

func TestRedisPublisherUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	p := NewRedisPublisher(client)
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.Error(t, p.PublishMessage(ctx, "error_logs", []string{"a"}))
}

func TestNewRedisClientUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedisClient(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
