package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sar-trading-bot/internal/types"
)

type stubSource struct {
	name          string
	authenticated bool
	candles       []types.Candle
	fetchErr      error
	ltp           float64
}

func (s *stubSource) Name() string          { return s.name }
func (s *stubSource) IsAuthenticated() bool { return s.authenticated }

func (s *stubSource) FetchHistory(ctx context.Context, symbol, interval string, from, to time.Time) ([]types.Candle, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.candles, nil
}

func (s *stubSource) LTP(ctx context.Context, symbol string) (float64, error) {
	return s.ltp, nil
}

func TestSelectPrefersSandboxUnconditionally(t *testing.T) {
	s := NewSelector("samples",
		&stubSource{name: "zerodha", authenticated: false},
		&stubSource{name: "upstox", authenticated: false},
		&stubSource{name: "samples"},
	)
	assert.Equal(t, "samples", s.Select())
}

func TestSelectReturnsPreferredWhenAllAuthenticated(t *testing.T) {
	s := NewSelector("zerodha",
		&stubSource{name: "zerodha", authenticated: true},
		&stubSource{name: "upstox", authenticated: true},
		&stubSource{name: "samples"},
	)
	assert.Equal(t, "zerodha", s.Select())
}

func TestSelectFallsBackToOnlyAuthenticated(t *testing.T) {
	s := NewSelector("zerodha",
		&stubSource{name: "zerodha", authenticated: false},
		&stubSource{name: "upstox", authenticated: true},
		&stubSource{name: "samples"},
	)
	assert.Equal(t, "upstox", s.Select())
}

func TestSelectEmptyWhenNoneAuthenticated(t *testing.T) {
	s := NewSelector("zerodha",
		&stubSource{name: "zerodha"},
		&stubSource{name: "upstox"},
		&stubSource{name: "samples"},
	)
	assert.Equal(t, "", s.Select())

	_, err := s.FetchHistory(context.Background(), "RELIANCE", "5minute", time.Now().Add(-time.Hour), time.Now())
	assert.ErrorIs(t, err, ErrNoBrokerSelected)
}

func TestFetchHistoryUnsupportedPreferred(t *testing.T) {
	s := NewSelector("binance",
		&stubSource{name: "zerodha", authenticated: true},
	)

	_, err := s.FetchHistory(context.Background(), "RELIANCE", "5minute", time.Now().Add(-time.Hour), time.Now())
	assert.ErrorIs(t, err, ErrUnsupportedBroker)
}

func TestFetchHistoryDispatchesToSelected(t *testing.T) {
	want := []types.Candle{{Ts: 1, Close: 100}}
	s := NewSelector("zerodha",
		&stubSource{name: "zerodha", authenticated: true, candles: want},
		&stubSource{name: "upstox", authenticated: true},
	)

	got, err := s.FetchHistory(context.Background(), "RELIANCE", "5minute", time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFetchHistoryWrapsProviderError(t *testing.T) {
	s := NewSelector("zerodha",
		&stubSource{name: "zerodha", authenticated: true, fetchErr: errors.New("session expired")},
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := s.FetchHistory(ctx, "RELIANCE", "5minute", time.Now().Add(-time.Hour), time.Now())
	require.Error(t, err)
	assert.True(t, IsProviderError(err))

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "zerodha", pe.Provider)
}
