package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flashbots/mev-protect-demo/protect"
)

// handleQuote serves GET /api/quote?amount=<lamports>
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	amount, err := protect.ParseBaseUnits(r.URL.Query().Get("amount"))
	if errors.Is(err, protect.ErrMissingAmount) {
		s.writeError(w, http.StatusBadRequest, "Amount is required")
		return
	} else if err != nil {
		s.writeError(w, http.StatusBadRequest, "Amount must be a positive integer")
		return
	}

	quote, err := s.api.GetQuote(r.Context(), amount)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to fetch quote")
		return
	}
	s.writeJSON(w, http.StatusOK, quote)
}

// handleCompare serves GET /api/compare?amount=<SOL>
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	comparison, err := s.api.CompareSwaps(r.Context(), r.URL.Query().Get("amount"))
	switch {
	case errors.Is(err, protect.ErrMissingAmount):
		s.writeError(w, http.StatusBadRequest, "Amount is required")
	case errors.Is(err, protect.ErrInvalidAmount):
		s.writeError(w, http.StatusBadRequest, "Amount must be a positive number")
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, "Failed to compare swaps")
	default:
		s.writeJSON(w, http.StatusOK, comparison)
	}
}

// handleFeedback serves POST /api/feedback
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var feedback protect.FeedbackRecord
	if err := json.NewDecoder(r.Body).Decode(&feedback); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := s.api.SendFeedback(r.Context(), feedback)
	switch {
	case errors.Is(err, protect.ErrMissingSentiment), errors.Is(err, protect.ErrMissingTimestamp):
		s.writeError(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, protect.ErrInvalidFeedback):
		s.writeError(w, http.StatusBadRequest, "Invalid feedback")
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, "Failed to store feedback")
	default:
		s.writeJSON(w, http.StatusOK, res)
	}
}
