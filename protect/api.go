package protect

import (
	"context"
	"errors"
	"time"

	"github.com/flashbots/mev-protect-demo/jsonrpcserver"
	"github.com/flashbots/mev-protect-demo/metrics"
	"go.uber.org/zap"
)

var (
	ErrFeedbackStorage = errors.New("failed to store feedback")

	feedbackWriteTimeout = 10 * time.Second
)

const (
	GetQuoteEndpointName     = "demo_getQuote"
	CompareSwapsEndpointName = "demo_compareSwaps"
	SendFeedbackEndpointName = "demo_sendFeedback"
)

type QuoteGetter interface {
	GetQuote(ctx context.Context, amount uint64) (Quote, error)
}

type API struct {
	log *zap.Logger

	quotes   QuoteGetter
	feedback FeedbackStorage
	// notifier is optional
	notifier FeedbackNotifier
}

func NewAPI(log *zap.Logger, quotes QuoteGetter, feedback FeedbackStorage, notifier FeedbackNotifier) *API {
	return &API{
		log:      log,
		quotes:   quotes,
		feedback: feedback,
		notifier: notifier,
	}
}

func (m *API) logger(ctx context.Context) *zap.Logger {
	if origin := jsonrpcserver.GetOrigin(ctx); origin != "" {
		return m.log.With(zap.String("origin", origin))
	}
	return m.log
}

// GetQuote returns quote for amount of SOL in lamports
func (m *API) GetQuote(ctx context.Context, amount uint64) (_ Quote, err error) {
	startAt := time.Now()
	defer func() {
		metrics.RecordRPCCallDuration(GetQuoteEndpointName, time.Since(startAt).Milliseconds())
		if err != nil {
			metrics.IncRPCCallFailure(GetQuoteEndpointName)
		}
	}()

	return m.quotes.GetQuote(ctx, amount)
}

// CompareSwaps fetches quote for the amount (decimal SOL, as entered by the user)
// and computes baseline and protected outcomes
func (m *API) CompareSwaps(ctx context.Context, amount string) (_ *Comparison, err error) {
	startAt := time.Now()
	defer func() {
		metrics.RecordRPCCallDuration(CompareSwapsEndpointName, time.Since(startAt).Milliseconds())
		if err != nil {
			metrics.IncRPCCallFailure(CompareSwapsEndpointName)
		}
	}()

	parsed, err := ParseTradeAmount(amount)
	if err != nil {
		m.logger(ctx).Debug("Invalid trade amount", zap.String("amount", amount), zap.Error(err))
		return nil, err
	}
	units, err := ToBaseUnits(parsed)
	if err != nil {
		return nil, err
	}

	quote, err := m.quotes.GetQuote(ctx, units)
	if err != nil {
		m.logger(ctx).Error("Failed to get quote", zap.Error(err), zap.Uint64("amount", units))
		return nil, err
	}

	solAmount, _ := parsed.Float64()
	comparison := ComputeOutcomes(solAmount, quote)
	metrics.IncComparisons()
	return &comparison, nil
}

// SendFeedback validates and stores feedback, the write is attempted once
func (m *API) SendFeedback(ctx context.Context, feedback FeedbackRecord) (_ FeedbackResponse, err error) {
	startAt := time.Now()
	defer func() {
		metrics.RecordRPCCallDuration(SendFeedbackEndpointName, time.Since(startAt).Milliseconds())
		if err != nil {
			metrics.IncRPCCallFailure(SendFeedbackEndpointName)
		}
	}()
	metrics.IncFeedbackReceived()

	logger := m.logger(ctx)
	if err := feedback.Validate(); err != nil {
		logger.Debug("Invalid feedback", zap.Error(err))
		metrics.IncFeedbackInvalid()
		return FeedbackResponse{}, err
	}

	writeCtx, cancel := context.WithTimeout(ctx, feedbackWriteTimeout)
	defer cancel()
	if err := m.feedback.InsertFeedback(writeCtx, &feedback); err != nil {
		logger.Error("Failed to store feedback", zap.Error(err), zap.String("sentiment", string(feedback.Sentiment)))
		metrics.IncFeedbackStoreFailures()
		return FeedbackResponse{}, ErrFeedbackStorage
	}
	metrics.IncFeedbackStored()

	if m.notifier != nil {
		if err := m.notifier.NotifyFeedback(writeCtx, &feedback); err != nil {
			logger.Warn("Failed to publish feedback", zap.Error(err))
			metrics.IncFeedbackNotifyErrors()
		}
	}

	return FeedbackResponse{Success: true}, nil
}
