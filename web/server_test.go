package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/flashbots/mev-protect-demo/protect"
	"github.com/flashbots/mev-protect-demo/session"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingQuoteBackend struct{}

func (failingQuoteBackend) Quote(context.Context, uint64) (protect.Quote, error) {
	return protect.Quote{}, errors.New("upstream unreachable") //nolint:goerr113
}

type memoryFeedbackStorage struct {
	records []protect.FeedbackRecord
	err     error
}

func (m *memoryFeedbackStorage) InsertFeedback(_ context.Context, feedback *protect.FeedbackRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, *feedback)
	return nil
}

type testEnv struct {
	server   *Server
	handler  http.Handler
	storage  *memoryFeedbackStorage
	sessions *session.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()
	storage := &memoryFeedbackStorage{}
	quotes := protect.NewQuoteService(log, failingQuoteBackend{}, time.Second)
	api := protect.NewAPI(log, quotes, storage, nil)
	sessions := session.NewMemoryStore(time.Minute)

	server, err := NewServer(log, api, sessions)
	require.NoError(t, err)
	server.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	return &testEnv{
		server:   server,
		handler:  server.Handler(),
		storage:  storage,
		sessions: sessions,
	}
}

func (e *testEnv) do(t *testing.T, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	switch {
	case strings.HasPrefix(body, "{"):
		req.Header.Set("Content-Type", "application/json")
	case body != "":
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func form(values map[string]string) string {
	v := url.Values{}
	for k, val := range values {
		v.Set(k, val)
	}
	return v.Encode()
}
