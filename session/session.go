// Package session holds the per-visitor state of the comparison page.
//
// Each visitor owns one Session. It moves through the states
//
//	idle -> quoting -> showing-results -> feedback-open
//
// only by applying discrete events; nothing else mutates it.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/flashbots/mev-protect-demo/metrics"
	"github.com/flashbots/mev-protect-demo/protect"
	"github.com/google/uuid"
)

var ErrInvalidTransition = errors.New("invalid session transition")

type State string

const (
	StateIdle           State = "idle"
	StateQuoting        State = "quoting"
	StateShowingResults State = "showing-results"
	StateFeedbackOpen   State = "feedback-open"
)

const DefaultAmount = "5"

type Session struct {
	ID    string `json:"id"`
	State State  `json:"state"`

	Amount  string              `json:"amount"`
	Results *protect.Comparison `json:"results,omitempty"`
	// Error is shown to the visitor after a failed comparison
	Error string `json:"error,omitempty"`

	SelectedSentiment protect.Sentiment `json:"selectedSentiment,omitempty"`
	FeedbackSent      bool              `json:"feedbackSent"`
	EducationOpen     bool              `json:"educationOpen"`

	UpdatedAt time.Time `json:"updatedAt"`
}

func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		State:     StateIdle,
		Amount:    DefaultAmount,
		UpdatedAt: time.Now(),
	}
}

type Event interface {
	Name() string
}

type (
	SubmitAmount struct {
		Amount string
	}
	QuoteReceived struct {
		Comparison protect.Comparison
	}
	QuoteFailed struct {
		Reason string
	}
	OpenFeedback struct {
		Sentiment protect.Sentiment
	}
	CloseFeedback     struct{}
	FeedbackSubmitted struct{}
	// FeedbackFailed closes the feedback form without marking feedback as sent, the failure is not shown
	FeedbackFailed  struct{}
	ToggleEducation struct{}
)

func (SubmitAmount) Name() string      { return "submit_amount" }
func (QuoteReceived) Name() string     { return "quote_received" }
func (QuoteFailed) Name() string       { return "quote_failed" }
func (OpenFeedback) Name() string      { return "open_feedback" }
func (CloseFeedback) Name() string     { return "close_feedback" }
func (FeedbackSubmitted) Name() string { return "feedback_submitted" }
func (FeedbackFailed) Name() string    { return "feedback_failed" }
func (ToggleEducation) Name() string   { return "toggle_education" }

// Apply moves session to the next state, the session is left untouched on error
func (s *Session) Apply(event Event) error {
	from := s.State
	err := s.apply(event)
	if err != nil {
		metrics.IncSessionRejectedEvent(event.Name())
		return err
	}
	s.UpdatedAt = time.Now()
	if from != s.State {
		metrics.IncSessionTransition(string(from), string(s.State))
	}
	return nil
}

func (s *Session) apply(event Event) error {
	switch e := event.(type) {
	case SubmitAmount:
		if s.State == StateQuoting || s.State == StateFeedbackOpen {
			return s.rejected(event)
		}
		s.State = StateQuoting
		s.Amount = e.Amount
		s.Results = nil
		s.Error = ""
		s.FeedbackSent = false
	case QuoteReceived:
		if s.State != StateQuoting {
			return s.rejected(event)
		}
		comparison := e.Comparison
		s.State = StateShowingResults
		s.Results = &comparison
	case QuoteFailed:
		if s.State != StateQuoting {
			return s.rejected(event)
		}
		s.State = StateIdle
		s.Error = e.Reason
	case OpenFeedback:
		if s.State != StateShowingResults || s.FeedbackSent {
			return s.rejected(event)
		}
		if !e.Sentiment.Valid() {
			return fmt.Errorf("%w: %s", protect.ErrUnknownSentiment, e.Sentiment)
		}
		s.State = StateFeedbackOpen
		s.SelectedSentiment = e.Sentiment
	case CloseFeedback, FeedbackFailed:
		if s.State != StateFeedbackOpen {
			return s.rejected(event)
		}
		s.State = StateShowingResults
		s.SelectedSentiment = ""
	case FeedbackSubmitted:
		if s.State != StateFeedbackOpen {
			return s.rejected(event)
		}
		s.State = StateShowingResults
		s.SelectedSentiment = ""
		s.FeedbackSent = true
	case ToggleEducation:
		s.EducationOpen = !s.EducationOpen
	default:
		return s.rejected(event)
	}
	return nil
}

func (s *Session) rejected(event Event) error {
	return fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, event.Name(), s.State)
}

// Clone returns a copy that does not share results with s
func (s *Session) Clone() *Session {
	c := *s
	if s.Results != nil {
		results := *s.Results
		c.Results = &results
	}
	return &c
}
