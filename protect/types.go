package protect

import "errors"

var (
	ErrMissingAmount = errors.New("amount is required")
	ErrInvalidAmount = errors.New("amount must be a positive number")

	ErrInvalidFeedback  = errors.New("invalid feedback")
	ErrMissingSentiment = errors.New("sentiment is required")
	ErrMissingTimestamp = errors.New("timestamp is required")
	ErrUnknownSentiment = errors.New("unknown sentiment")
	ErrInvalidTimestamp = errors.New("timestamp must be ISO-8601")
)

// Quote is the swap quote for the configured pair.
// OutAmount is denominated in output asset base units.
type Quote struct {
	OutAmount      uint64 `json:"outAmount,string"`
	PriceImpactPct string `json:"priceImpactPct"`
	IsMock         bool   `json:"_mock,omitempty"`
}

type RiskTier string

const (
	RiskLow    RiskTier = "Low"
	RiskMedium RiskTier = "Medium"
	RiskHigh   RiskTier = "High"
)

type Path string

const (
	PathBaseline  Path = "baseline"
	PathProtected Path = "protected"
)

// OutcomeRecord describes the result of executing the swap on one path.
// Amounts are in output asset units, SlippageBoundPct is in percent.
type OutcomeRecord struct {
	Path             Path     `json:"path"`
	Output           float64  `json:"output"`
	RiskTier         RiskTier `json:"risk"`
	SlippageBoundPct float64  `json:"slippageBoundPct"`
	RangeLow         float64  `json:"rangeLow"`
	RangeHigh        float64  `json:"rangeHigh"`
}

type Comparison struct {
	Amount       float64 `json:"amount"`
	Quote        Quote   `json:"quote"`
	ExposureRate float64 `json:"exposureRate"`
	// MevSavings is the value the baseline path loses to bots
	MevSavings  float64 `json:"mevSavings"`
	PlatformFee float64 `json:"platformFee"`
	// NetSavings is MevSavings minus PlatformFee
	NetSavings     float64 `json:"netSavings"`
	LossPct        float64 `json:"lossPct"`
	ImprovementPct float64 `json:"improvementPct"`

	Baseline  OutcomeRecord `json:"baseline"`
	Protected OutcomeRecord `json:"protected"`
}

type Sentiment string

const (
	SentimentConfused    Sentiment = "confused"
	SentimentInteresting Sentiment = "interesting"
	SentimentWantThis    Sentiment = "want_this"
)

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentConfused, SentimentInteresting, SentimentWantThis:
		return true
	default:
		return false
	}
}

// FeedbackRecord is a single piece of user feedback, it is appended once and never read back
type FeedbackRecord struct {
	Sentiment Sentiment `json:"sentiment"`
	Amount    *float64  `json:"amount,omitempty"`
	Timestamp string    `json:"timestamp"`
	Feedback  *string   `json:"feedback,omitempty"`
}

type FeedbackResponse struct {
	Success bool `json:"success"`
}
