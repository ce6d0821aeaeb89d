package upstox

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchHistoryReversesToChronological(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		// Newest-first rows, the order the live API serves.
		fmt.Fprint(w, `{"status":"success","data":{"candles":[
			["2026-01-02T10:05:00+05:30",101,102,100.5,101.5,1200,0],
			["2026-01-02T10:00:00+05:30",100,101,99.5,101,1000,0]
		]}}`)
	}))
	defer srv.Close()

	u := New(Params{AccessToken: "token", BaseURL: srv.URL})
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	candles, err := u.FetchHistory(context.Background(), "RELIANCE", "5minute", from, to)
	require.NoError(t, err)
	require.Len(t, candles, 2)

	assert.Equal(t, "/historical-candle/NSE_EQ|RELIANCE/5minute/2026-01-02/2026-01-01", gotPath)
	assert.Equal(t, "Bearer token", gotAuth)

	assert.Less(t, candles[0].Ts, candles[1].Ts, "candles must be chronological")
	assert.InDelta(t, 100, candles[0].Open, 1e-9)
	assert.InDelta(t, 101.5, candles[1].Close, 1e-9)
	assert.InDelta(t, 1200, candles[1].Vol, 1e-9)
}

func TestFetchHistoryRejectsFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"error","data":{"candles":[]}}`)
	}))
	defer srv.Close()

	u := New(Params{AccessToken: "token", BaseURL: srv.URL})
	_, err := u.FetchHistory(context.Background(), "RELIANCE", "5minute", time.Now().Add(-time.Hour), time.Now())
	assert.ErrorContains(t, err, "status error")
}

func TestFetchHistoryRejectsMalformedRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success","data":{"candles":[["2026-01-02T10:00:00+05:30",100]]}}`)
	}))
	defer srv.Close()

	u := New(Params{AccessToken: "token", BaseURL: srv.URL})
	_, err := u.FetchHistory(context.Background(), "RELIANCE", "5minute", time.Now().Add(-time.Hour), time.Now())
	assert.ErrorContains(t, err, "short candle row")
}

func TestLTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "NSE_EQ|RELIANCE", r.URL.Query().Get("instrument_key"))
		fmt.Fprint(w, `{"status":"success","data":{"NSE_EQ:RELIANCE":{"last_price":2514.35}}}`)
	}))
	defer srv.Close()

	u := New(Params{AccessToken: "token", BaseURL: srv.URL})
	ltp, err := u.LTP(context.Background(), "RELIANCE")
	require.NoError(t, err)
	assert.InDelta(t, 2514.35, ltp, 1e-9)
}

func TestLTPEmptyPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success","data":{}}`)
	}))
	defer srv.Close()

	u := New(Params{AccessToken: "token", BaseURL: srv.URL})
	_, err := u.LTP(context.Background(), "RELIANCE")
	assert.ErrorContains(t, err, "no ltp returned")
}

func TestUnexpectedHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	u := New(Params{AccessToken: "token", BaseURL: srv.URL})
	_, err := u.LTP(context.Background(), "RELIANCE")
	assert.ErrorContains(t, err, "unexpected status 429")
}

func TestAuthenticationRequiresToken(t *testing.T) {
	assert.False(t, New(Params{}).IsAuthenticated())
	assert.True(t, New(Params{AccessToken: "token"}).IsAuthenticated())
}
