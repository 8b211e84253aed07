package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/flashbots/mev-protect-demo/protect"
	"github.com/flashbots/mev-protect-demo/session"
	"go.uber.org/zap"
)

const (
	sessionCookieName = "demo_session"

	errQuoteFailedMsg   = "Failed to fetch quote. Please try again."
	errInvalidAmountMsg = "Please enter an amount greater than 0."
)

type outcomeView struct {
	Output    string
	Risk      protect.RiskTier
	RangeLow  string
	RangeHigh string
	Slippage  string
}

type sentimentOption struct {
	Value protect.Sentiment
	Label string
}

type pageView struct {
	Session       *session.Session
	EstimatedLoss string

	HasResults  bool
	IsMock      bool
	Baseline    outcomeView
	Protected   outcomeView
	Loss        string
	Saved       string
	MevSavings  string
	PlatformFee string

	Sentiments        []sentimentOption
	SelectedSentiment string
}

var sentimentOptions = []sentimentOption{
	{protect.SentimentConfused, "Confused"},
	{protect.SentimentInteresting, "Interesting"},
	{protect.SentimentWantThis, "I want this"},
}

func newOutcomeView(o protect.OutcomeRecord) outcomeView {
	return outcomeView{
		Output:    protect.FormatAmount(o.Output, 2),
		Risk:      o.RiskTier,
		RangeLow:  protect.FormatAmount(o.RangeLow, 2),
		RangeHigh: protect.FormatAmount(o.RangeHigh, 2),
		Slippage:  protect.FormatAmount(o.SlippageBoundPct, 1),
	}
}

func newPageView(sess *session.Session) pageView {
	view := pageView{
		Session:    sess,
		Sentiments: sentimentOptions,
	}
	if amount, err := strconv.ParseFloat(sess.Amount, 64); err == nil && amount > 0 {
		view.EstimatedLoss = protect.FormatAmount(protect.EstimateLoss(amount), 2)
	}
	for _, o := range sentimentOptions {
		if o.Value == sess.SelectedSentiment {
			view.SelectedSentiment = o.Label
		}
	}
	if c := sess.Results; c != nil {
		view.HasResults = true
		view.IsMock = c.Quote.IsMock
		view.Baseline = newOutcomeView(c.Baseline)
		view.Protected = newOutcomeView(c.Protected)
		view.Loss = protect.FormatAmount(c.MevSavings, 2)
		view.Saved = protect.FormatAmount(c.NetSavings, 2)
		view.MevSavings = protect.FormatAmount(c.MevSavings, 3)
		view.PlatformFee = protect.FormatAmount(c.PlatformFee, 3)
	}
	return view
}

// loadSession returns the visitor's session, a new one is created and the cookie is set when missing
func (s *Server) loadSession(ctx context.Context, w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		sess, err := s.sessions.Get(ctx, cookie.Value)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, session.ErrSessionNotFound) {
			return nil, err
		}
	}

	sess := session.New()
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

// updateSession loads session, lets fn apply events and stores the result, then redirects back to the page
func (s *Server) updateSession(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, sess *session.Session) error) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sess, err := s.loadSession(ctx, w, r)
	if err != nil {
		s.log.Error("Failed to load session", zap.Error(err))
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	if err := fn(ctx, sess); err != nil {
		// stale form posts are ignored, the page shows the current state
		s.log.Debug("Session event rejected", zap.Error(err), zap.String("session", sess.ID))
	}

	if err := s.sessions.Put(ctx, sess); err != nil {
		s.log.Error("Failed to store session", zap.Error(err))
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	sess, err := s.loadSession(r.Context(), w, r)
	if err != nil {
		s.log.Error("Failed to load session", zap.Error(err))
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, newPageView(sess)); err != nil {
		s.log.Error("Failed to render page", zap.Error(err))
	}
}

func (s *Server) handleCompareForm(w http.ResponseWriter, r *http.Request) {
	s.updateSession(w, r, func(ctx context.Context, sess *session.Session) error {
		amount := r.PostFormValue("amount")
		if err := sess.Apply(session.SubmitAmount{Amount: amount}); err != nil {
			return err
		}

		comparison, err := s.api.CompareSwaps(ctx, amount)
		if errors.Is(err, protect.ErrMissingAmount) || errors.Is(err, protect.ErrInvalidAmount) {
			return sess.Apply(session.QuoteFailed{Reason: errInvalidAmountMsg})
		} else if err != nil {
			return sess.Apply(session.QuoteFailed{Reason: errQuoteFailedMsg})
		}
		return sess.Apply(session.QuoteReceived{Comparison: *comparison})
	})
}

func (s *Server) handleFeedbackOpen(w http.ResponseWriter, r *http.Request) {
	s.updateSession(w, r, func(_ context.Context, sess *session.Session) error {
		return sess.Apply(session.OpenFeedback{Sentiment: protect.Sentiment(r.PostFormValue("sentiment"))})
	})
}

func (s *Server) handleFeedbackClose(w http.ResponseWriter, r *http.Request) {
	s.updateSession(w, r, func(_ context.Context, sess *session.Session) error {
		return sess.Apply(session.CloseFeedback{})
	})
}

func (s *Server) handleFeedbackForm(w http.ResponseWriter, r *http.Request) {
	s.updateSession(w, r, func(ctx context.Context, sess *session.Session) error {
		if sess.State != session.StateFeedbackOpen {
			return sess.Apply(session.FeedbackSubmitted{})
		}

		amount, _ := strconv.ParseFloat(sess.Amount, 64)
		record := protect.NewFeedbackRecord(sess.SelectedSentiment, amount, r.PostFormValue("feedback"), s.now())
		if _, err := s.api.SendFeedback(ctx, record); err != nil {
			// the visitor can carry on, failure is only logged
			return sess.Apply(session.FeedbackFailed{})
		}
		return sess.Apply(session.FeedbackSubmitted{})
	})
}

func (s *Server) handleEducation(w http.ResponseWriter, r *http.Request) {
	s.updateSession(w, r, func(_ context.Context, sess *session.Session) error {
		return sess.Apply(session.ToggleEducation{})
	})
}
