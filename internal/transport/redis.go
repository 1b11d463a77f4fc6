package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ecarden/repo-indexer/internal/message"
)

// notificationBuffer bounds how far the delivery loop can run ahead of
// the dispatch workers
const notificationBuffer = 100

// RedisConsumer implements Consumer using Redis pub/sub
type RedisConsumer struct {
	client *redis.Client
	pubsub *redis.PubSub
	out    chan *message.Notification
	cancel context.CancelFunc
}

// NewRedisConsumer connects to Redis and subscribes to channel.
// Delivery starts immediately; notifications are read from
// Notifications().
func NewRedisConsumer(ctx context.Context, addr, channel string) (*RedisConsumer, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	// Test connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	loopCtx, stop := context.WithCancel(ctx)
	pubsub := client.Subscribe(loopCtx, channel)

	// Wait for the subscription to be confirmed before delivering
	if _, err := pubsub.Receive(loopCtx); err != nil {
		stop()
		_ = pubsub.Close()
		_ = client.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	rc := &RedisConsumer{
		client: client,
		pubsub: pubsub,
		out:    make(chan *message.Notification, notificationBuffer),
		cancel: stop,
	}

	go rc.deliver(loopCtx)

	return rc, nil
}

// deliver pumps broker messages into the notification channel until
// the context is done or the subscription closes
func (rc *RedisConsumer) deliver(ctx context.Context) {
	defer close(rc.out)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-rc.pubsub.Channel():
			if !ok {
				return
			}

			notification := message.NewNotification([]byte(msg.Payload))
			select {
			case rc.out <- notification:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Notifications returns the inbound notification channel
func (rc *RedisConsumer) Notifications() <-chan *message.Notification {
	return rc.out
}

// HealthCheck verifies Redis connectivity
func (rc *RedisConsumer) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Close stops delivery and cleans up resources
func (rc *RedisConsumer) Close() error {
	rc.cancel()

	var err error
	if rc.pubsub != nil {
		err = rc.pubsub.Close()
	}

	if rc.client != nil {
		if closeErr := rc.client.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	return err
}

// RedisPublisher implements Publisher using Redis pub/sub
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher connects to Redis for publishing to channel
func NewRedisPublisher(addr, channel string) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPublisher{
		client:  client,
		channel: channel,
	}, nil
}

// Publish sends one notification payload
func (rp *RedisPublisher) Publish(ctx context.Context, payload []byte) error {
	if err := rp.client.Publish(ctx, rp.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// Close releases the Redis connection
func (rp *RedisPublisher) Close() error {
	return rp.client.Close()
}
