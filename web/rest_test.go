package web

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandleQuote(t *testing.T) {
	env := newTestEnv(t)

	testCases := map[string]struct {
		method           string
		target           string
		expectedCode     int
		expectedResponse string
	}{
		"mock fallback": {
			method:           http.MethodGet,
			target:           "/api/quote?amount=5000000000",
			expectedCode:     http.StatusOK,
			expectedResponse: `{"outAmount":"975000000","priceImpactPct":"0.01","_mock":true}`,
		},
		"missing amount": {
			method:           http.MethodGet,
			target:           "/api/quote",
			expectedCode:     http.StatusBadRequest,
			expectedResponse: `{"error":"Amount is required"}`,
		},
		"invalid amount": {
			method:           http.MethodGet,
			target:           "/api/quote?amount=-1",
			expectedCode:     http.StatusBadRequest,
			expectedResponse: `{"error":"Amount must be a positive integer"}`,
		},
		"zero amount": {
			method:           http.MethodGet,
			target:           "/api/quote?amount=0",
			expectedCode:     http.StatusBadRequest,
			expectedResponse: `{"error":"Amount must be a positive integer"}`,
		},
	}
	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			rr := env.do(t, testCase.method, testCase.target, "")
			require.Equal(t, testCase.expectedCode, rr.Code)
			require.JSONEq(t, testCase.expectedResponse, rr.Body.String())
		})
	}

	rr := env.do(t, http.MethodPost, "/api/quote?amount=1", "")
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandleCompare(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/compare?amount=5", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"outAmount":"975000000"`)
	require.Contains(t, rr.Body.String(), `"output":975,`)
	require.Contains(t, rr.Body.String(), `"risk":"Medium"`)

	rr = env.do(t, http.MethodGet, "/api/compare?amount=nope", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/compare", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.JSONEq(t, `{"error":"Amount is required"}`, rr.Body.String())
}

func TestHandleFeedback(t *testing.T) {
	env := newTestEnv(t)

	testCases := map[string]struct {
		body             string
		expectedCode     int
		expectedResponse string
	}{
		"success": {
			body:             `{"sentiment":"confused","timestamp":"2024-01-01T00:00:00Z"}`,
			expectedCode:     http.StatusOK,
			expectedResponse: `{"success":true}`,
		},
		"with optional fields": {
			body:             `{"sentiment":"want_this","amount":5,"timestamp":"2024-01-01T00:00:00.000Z","feedback":null}`,
			expectedCode:     http.StatusOK,
			expectedResponse: `{"success":true}`,
		},
		"missing sentiment": {
			body:             `{"timestamp":"2024-01-01T00:00:00Z"}`,
			expectedCode:     http.StatusBadRequest,
			expectedResponse: `{"error":"Missing required fields"}`,
		},
		"missing timestamp": {
			body:             `{"sentiment":"interesting"}`,
			expectedCode:     http.StatusBadRequest,
			expectedResponse: `{"error":"Missing required fields"}`,
		},
		"unknown sentiment": {
			body:             `{"sentiment":"bored","timestamp":"2024-01-01T00:00:00Z"}`,
			expectedCode:     http.StatusBadRequest,
			expectedResponse: `{"error":"Invalid feedback"}`,
		},
		"invalid body": {
			body:             `{"sentiment":`,
			expectedCode:     http.StatusBadRequest,
			expectedResponse: `{"error":"Invalid request body"}`,
		},
	}
	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/api/feedback", testCase.body)
			require.Equal(t, testCase.expectedCode, rr.Code)
			require.JSONEq(t, testCase.expectedResponse, rr.Body.String())
		})
	}
	require.Len(t, env.storage.records, 2)
	require.NotNil(t, env.storage.records[1].Amount)
	require.Equal(t, 5.0, *env.storage.records[1].Amount)
	require.Nil(t, env.storage.records[1].Feedback)
}

func TestHandleFeedback_StorageFailure(t *testing.T) {
	env := newTestEnv(t)
	env.storage.err = errors.New("db down") //nolint:goerr113

	rr := env.do(t, http.MethodPost, "/api/feedback", `{"sentiment":"confused","timestamp":"2024-01-01T00:00:00Z"}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.JSONEq(t, `{"error":"Failed to store feedback"}`, rr.Body.String())
}

func TestHandleRPC(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/rpc", `{"jsonrpc":"2.0","id":1,"method":"demo_getQuote","params":[5000000000]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"jsonrpc":"2.0","id":1,"result":{"outAmount":"975000000","priceImpactPct":"0.01","_mock":true}}`, rr.Body.String())

	rr = env.do(t, http.MethodPost, "/rpc", `{"jsonrpc":"2.0","id":2,"method":"demo_sendFeedback","params":[{"sentiment":"interesting","timestamp":"2024-01-01T00:00:00Z"}]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"jsonrpc":"2.0","id":2,"result":{"success":true}}`, rr.Body.String())

	rr = env.do(t, http.MethodPost, "/rpc", `{"jsonrpc":"2.0","id":3,"method":"demo_compareSwaps","params":["0"]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"jsonrpc":"2.0","id":3,"error":{"code":-32000,"message":"amount must be a positive number"}}`, rr.Body.String())
}
