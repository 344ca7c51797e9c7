package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"activitycheckin/internal/domain"
)

const (
	channelPrefix  = "registrations:"
	publishTimeout = 5 * time.Second
	bufferSize     = 16
)

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func channelFor(visitorID string) string {
	return channelPrefix + visitorID
}

// Redis is a RegistrationFeed over Redis pub/sub, shared by every server instance.
type Redis struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedis(client *redis.Client, logger *slog.Logger) *Redis {
	return &Redis{client: client, logger: logger}
}

func (r *Redis) Publish(ctx context.Context, change domain.RegistrationChange) error {
	body, err := json.Marshal(change)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return r.client.Publish(ctx, channelFor(change.VisitorID), body).Err()
}

// Subscribe confirms the subscription with the server before returning.
func (r *Redis) Subscribe(ctx context.Context, visitorID string) (domain.Subscription, error) {
	subCtx, cancel := context.WithCancel(context.Background())
	pubsub := r.client.Subscribe(subCtx, channelFor(visitorID))
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	sub := &redisSubscription{cancel: cancel, out: make(chan domain.RegistrationChange, bufferSize)}
	in := pubsub.Channel()
	go func() {
		defer close(sub.out)
		defer pubsub.Close()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				var change domain.RegistrationChange
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					r.logger.Warn("dropping malformed feed message", "channel", msg.Channel, "err", err)
					continue
				}
				select {
				case sub.out <- change:
				default:
				}
			}
		}
	}()
	return sub, nil
}

type redisSubscription struct {
	once   sync.Once
	cancel context.CancelFunc
	out    chan domain.RegistrationChange
}

func (s *redisSubscription) Changes() <-chan domain.RegistrationChange {
	return s.out
}

func (s *redisSubscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}
