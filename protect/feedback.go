package protect

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type FeedbackStorage interface {
	InsertFeedback(ctx context.Context, feedback *FeedbackRecord) error
}

// Validate checks that sentiment and timestamp are present and well-formed
func (f *FeedbackRecord) Validate() error {
	if f.Sentiment == "" {
		return fmt.Errorf("%w: %w", ErrInvalidFeedback, ErrMissingSentiment)
	}
	if f.Timestamp == "" {
		return fmt.Errorf("%w: %w", ErrInvalidFeedback, ErrMissingTimestamp)
	}
	if !f.Sentiment.Valid() {
		return fmt.Errorf("%w: %w: %s", ErrInvalidFeedback, ErrUnknownSentiment, f.Sentiment)
	}
	if _, err := f.Time(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFeedback, ErrInvalidTimestamp)
	}
	return nil
}

func (f *FeedbackRecord) Time() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, f.Timestamp)
}

// NewFeedbackRecord creates record for the current moment
func NewFeedbackRecord(sentiment Sentiment, amount float64, text string, now time.Time) FeedbackRecord {
	record := FeedbackRecord{
		Sentiment: sentiment,
		Timestamp: now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
	if amount != 0 {
		record.Amount = &amount
	}
	if text != "" {
		record.Feedback = &text
	}
	return record
}

// NopFeedbackStorage discards feedback, used when no database is configured
type NopFeedbackStorage struct {
	log *zap.Logger
}

func NewNopFeedbackStorage(log *zap.Logger) *NopFeedbackStorage {
	return &NopFeedbackStorage{log: log}
}

func (s *NopFeedbackStorage) InsertFeedback(_ context.Context, feedback *FeedbackRecord) error {
	s.log.Info("Feedback discarded, no storage configured", zap.String("sentiment", string(feedback.Sentiment)))
	return nil
}
