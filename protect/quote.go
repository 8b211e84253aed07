package protect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/flashbots/mev-protect-demo/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrUpstreamStatus       = errors.New("quote upstream returned non-success status")
	ErrInvalidUpstreamQuote = errors.New("quote upstream returned invalid quote")

	DefaultQuoteTimeout = 5 * time.Second

	referencePrice = decimal.NewFromInt(ReferencePrice)
)

// QuoteBackend returns quote for the amount of input asset in base units
type QuoteBackend interface {
	Quote(ctx context.Context, amount uint64) (Quote, error)
}

type jupiterQuoteResponse struct {
	OutAmount      string `json:"outAmount"`
	PriceImpactPct string `json:"priceImpactPct"`
}

// JupiterQuoteBackend queries jupiter v6 quote API for the configured pair
type JupiterQuoteBackend struct {
	pair   PairConfig
	client *http.Client
}

func NewJupiterQuoteBackend(pair PairConfig) *JupiterQuoteBackend {
	return &JupiterQuoteBackend{
		pair:   pair,
		client: &http.Client{},
	}
}

func (b *JupiterQuoteBackend) Quote(ctx context.Context, amount uint64) (Quote, error) {
	u, err := url.Parse(b.pair.QuoteEndpoint)
	if err != nil {
		return Quote{}, err
	}
	q := u.Query()
	q.Set("inputMint", b.pair.InputMint)
	q.Set("outputMint", b.pair.OutputMint)
	q.Set("amount", strconv.FormatUint(amount, 10))
	q.Set("slippageBps", strconv.Itoa(b.pair.SlippageBps))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Quote{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Quote{}, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}

	var res jupiterQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Quote{}, fmt.Errorf("%w: %s", ErrInvalidUpstreamQuote, err.Error())
	}
	outAmount, err := strconv.ParseUint(res.OutAmount, 10, 64)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: outAmount %q", ErrInvalidUpstreamQuote, res.OutAmount)
	}

	return Quote{
		OutAmount:      outAmount,
		PriceImpactPct: res.PriceImpactPct,
	}, nil
}

// MockQuote computes substitute quote at the reference price
// floor(amount / 10^9 * 195 * 10^6)
func MockQuote(amount uint64) Quote {
	out := FromBaseUnits(amount, SourceDecimals).Mul(referencePrice).Shift(OutputDecimals).Floor()
	return Quote{
		OutAmount:      out.BigInt().Uint64(),
		PriceImpactPct: MockPriceImpactPct,
		IsMock:         true,
	}
}

// QuoteService makes exactly one upstream call per quote and never fails the caller
// when upstream is unavailable, the mock quote is returned instead
type QuoteService struct {
	log     *zap.Logger
	backend QuoteBackend
	timeout time.Duration
}

func NewQuoteService(log *zap.Logger, backend QuoteBackend, timeout time.Duration) *QuoteService {
	if timeout <= 0 {
		timeout = DefaultQuoteTimeout
	}
	return &QuoteService{
		log:     log,
		backend: backend,
		timeout: timeout,
	}
}

func (s *QuoteService) GetQuote(ctx context.Context, amount uint64) (Quote, error) {
	if amount == 0 {
		return Quote{}, ErrInvalidAmount
	}
	metrics.IncQuoteRequests()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startAt := time.Now()
	quote, err := s.backend.Quote(ctx, amount)
	metrics.RecordQuoteUpstreamDuration(time.Since(startAt).Milliseconds())
	if err != nil {
		s.log.Warn("Quote upstream unavailable, using mock quote", zap.Error(err), zap.Uint64("amount", amount))
		metrics.IncQuoteUpstreamErrors()
		metrics.IncQuoteMockFallbacks()
		return MockQuote(amount), nil
	}
	return quote, nil
}
