// Package web serves the comparison page, the REST endpoints used by browsers
// and the JSON-RPC endpoint used by scripts
package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/flashbots/mev-protect-demo/jsonrpcserver"
	"github.com/flashbots/mev-protect-demo/metrics"
	"github.com/flashbots/mev-protect-demo/protect"
	"github.com/flashbots/mev-protect-demo/session"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templates embed.FS

type Server struct {
	log      *zap.Logger
	api      *protect.API
	sessions session.Store
	rpc      *jsonrpcserver.Handler
	page     *template.Template

	now func() time.Time
}

func NewServer(log *zap.Logger, api *protect.API, sessions session.Store) (*Server, error) {
	rpc, err := jsonrpcserver.NewHandler(jsonrpcserver.Methods{
		protect.GetQuoteEndpointName:     api.GetQuote,
		protect.CompareSwapsEndpointName: api.CompareSwaps,
		protect.SendFeedbackEndpointName: api.SendFeedback,
	})
	if err != nil {
		return nil, err
	}

	page, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, err
	}

	return &Server{
		log:      log,
		api:      api,
		sessions: sessions,
		rpc:      rpc,
		page:     page,
		now:      time.Now,
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/rpc", s.instrument("rpc", s.rpc))

	mux.Handle("/api/quote", s.instrument("api_quote", http.HandlerFunc(s.handleQuote)))
	mux.Handle("/api/compare", s.instrument("api_compare", http.HandlerFunc(s.handleCompare)))
	mux.Handle("/api/feedback", s.instrument("api_feedback", http.HandlerFunc(s.handleFeedback)))

	mux.Handle("/compare", s.instrument("page_compare", http.HandlerFunc(s.handleCompareForm)))
	mux.Handle("/feedback/open", s.instrument("page_feedback_open", http.HandlerFunc(s.handleFeedbackOpen)))
	mux.Handle("/feedback/close", s.instrument("page_feedback_close", http.HandlerFunc(s.handleFeedbackClose)))
	mux.Handle("/feedback", s.instrument("page_feedback", http.HandlerFunc(s.handleFeedbackForm)))
	mux.Handle("/education", s.instrument("page_education", http.HandlerFunc(s.handleEducation)))
	mux.Handle("/", s.instrument("page", http.HandlerFunc(s.handlePage)))
	return mux
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) instrument(name string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startAt := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.RecordHTTPRequestDuration(name, time.Since(startAt).Milliseconds())
		if rec.status >= http.StatusBadRequest {
			metrics.IncHTTPRequestFailure(name, rec.status)
		}
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Debug("Failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}
