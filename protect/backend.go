package protect

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// FeedbackNotifier is told about every accepted feedback record
type FeedbackNotifier interface {
	NotifyFeedback(ctx context.Context, feedback *FeedbackRecord) error
}

type RedisFeedbackBackend struct {
	client     *redis.Client
	pubChannel string
}

func NewRedisFeedbackBackend(redisClient *redis.Client, pubChannel string) *RedisFeedbackBackend {
	return &RedisFeedbackBackend{
		client:     redisClient,
		pubChannel: pubChannel,
	}
}

func (b *RedisFeedbackBackend) NotifyFeedback(ctx context.Context, feedback *FeedbackRecord) error {
	data, err := json.Marshal(feedback)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.pubChannel, data).Err()
}
