package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/facilityos/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// InvalidationChannel is the pub/sub channel for session invalidations
const InvalidationChannel = "sessions:invalidated"

const (
	lockPrefix     = "sessions:lock:"
	touchPrefix    = "sessions:touched:"
	lockTTL        = 5 * time.Second
	lockRetryDelay = 25 * time.Millisecond
)

// releaseScript deletes the lock only if this holder still owns it
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// NewClient creates a Redis client and verifies connectivity
func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisLocker implements Locker on Redis SETNX with an ownership token
type RedisLocker struct {
	client *redis.Client
}

// NewRedisLocker creates a new RedisLocker
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

// Acquire spins on SETNX until the lock is held or the context ends. The
// lock expires on its own if the holder dies before releasing.
func (l *RedisLocker) Acquire(ctx context.Context, userID uuid.UUID) (func(), error) {
	key := lockPrefix + userID.String()
	token := uuid.New().String()

	for {
		ok, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
}

// RedisNotifier implements Notifier on Redis pub/sub
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier creates a new RedisNotifier
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

// Publish sends an invalidation event to the shared channel
func (n *RedisNotifier) Publish(ctx context.Context, event InvalidationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, InvalidationChannel, payload).Err()
}

// Subscribe consumes invalidation events until ctx ends. Malformed
// payloads are dropped.
func (n *RedisNotifier) Subscribe(ctx context.Context) (<-chan InvalidationEvent, error) {
	sub := n.client.Subscribe(ctx, InvalidationChannel)
	if _, err := sub.Receive(ctx); err != nil {
		return nil, err
	}

	out := make(chan InvalidationEvent)
	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var event InvalidationEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// RedisActivityThrottle implements ActivityThrottle with SETNX and a TTL
// equal to the touch period
type RedisActivityThrottle struct {
	client *redis.Client
}

// NewRedisActivityThrottle creates a new RedisActivityThrottle
func NewRedisActivityThrottle(client *redis.Client) *RedisActivityThrottle {
	return &RedisActivityThrottle{client: client}
}

// ShouldTouch returns true when no touch happened within the period
func (t *RedisActivityThrottle) ShouldTouch(ctx context.Context, sessionID uuid.UUID, period time.Duration) (bool, error) {
	if period <= 0 {
		return true, nil
	}
	return t.client.SetNX(ctx, touchPrefix+sessionID.String(), "1", period).Result()
}
