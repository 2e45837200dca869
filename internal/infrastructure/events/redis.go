package events

import (
	"context"
	"encoding/json"

	"github.com/waste3d/lootshop-api/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher hands progression events to whatever presents them.
type Publisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}

// RedisBroker fans events out over redis pub/sub, one channel per user, so
// every API instance can stream them.
type RedisBroker struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisBroker(client *redis.Client, log *zap.Logger) *RedisBroker {
	return &RedisBroker{client: client, log: log}
}

func channel(userID uuid.UUID) string {
	return "progression:events:" + userID.String()
}

func (b *RedisBroker) Publish(ctx context.Context, events ...domain.Event) error {
	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if err := b.client.Publish(ctx, channel(e.UserID), payload).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe streams the user's events until ctx is done. The subscription is
// confirmed before Subscribe returns, so nothing published afterwards is lost.
func (b *RedisBroker) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan domain.Event, error) {
	sub := b.client.Subscribe(ctx, channel(userID))
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, err
	}

	out := make(chan domain.Event)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var e domain.Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					b.log.Warn("dropping malformed event", zap.String("channel", msg.Channel), zap.Error(err))
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
