// Package metrics contains all application-logic metrics
package metrics

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
)

var (
	quoteRequests         = metrics.NewCounter("quote_requests_total")
	quoteUpstreamErrors   = metrics.NewCounter("quote_upstream_errors_total")
	quoteMockFallbacks    = metrics.NewCounter("quote_mock_fallbacks_total")
	quoteUpstreamDuration = metrics.NewSummary("quote_upstream_duration_milliseconds")

	comparisons = metrics.NewCounter("comparisons_total")

	feedbackReceived      = metrics.NewCounter("feedback_received_total")
	feedbackInvalid       = metrics.NewCounter("feedback_invalid_total")
	feedbackStored        = metrics.NewCounter("feedback_stored_total")
	feedbackStoreFailures = metrics.NewCounter("feedback_store_failures_total")
	feedbackNotifyErrors  = metrics.NewCounter("feedback_notify_errors_total")
)

func IncQuoteRequests() {
	quoteRequests.Inc()
}

func IncQuoteUpstreamErrors() {
	quoteUpstreamErrors.Inc()
}

func IncQuoteMockFallbacks() {
	quoteMockFallbacks.Inc()
}

func RecordQuoteUpstreamDuration(ms int64) {
	quoteUpstreamDuration.Update(float64(ms))
}

func IncComparisons() {
	comparisons.Inc()
}

func IncFeedbackReceived() {
	feedbackReceived.Inc()
}

func IncFeedbackInvalid() {
	feedbackInvalid.Inc()
}

func IncFeedbackStored() {
	feedbackStored.Inc()
}

func IncFeedbackStoreFailures() {
	feedbackStoreFailures.Inc()
}

func IncFeedbackNotifyErrors() {
	feedbackNotifyErrors.Inc()
}

func IncSessionTransition(from, to string) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`session_transitions_total{from=%q,to=%q}`, from, to)).Inc()
}

func IncSessionRejectedEvent(event string) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`session_rejected_events_total{event=%q}`, event)).Inc()
}

func RecordHTTPRequestDuration(handler string, ms int64) {
	metrics.GetOrCreateSummary(fmt.Sprintf(`http_request_duration_milliseconds{handler=%q}`, handler)).Update(float64(ms))
}

func IncHTTPRequestFailure(handler string, code int) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`http_request_failures_total{handler=%q,code="%d"}`, handler, code)).Inc()
}

func RecordRPCCallDuration(method string, ms int64) {
	metrics.GetOrCreateSummary(fmt.Sprintf(`rpc_call_duration_milliseconds{method=%q}`, method)).Update(float64(ms))
}

func IncRPCCallFailure(method string) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`rpc_call_failures_total{method=%q}`, method)).Inc()
}
