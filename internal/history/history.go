// Package history resolves which market-data provider serves candle and
// quote requests, with automatic fallback when a broker session expires.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"sar-trading-bot/internal/interfaces"
	"sar-trading-bot/internal/logger"
	"sar-trading-bot/internal/trace"
	"sar-trading-bot/internal/types"
)

// SandboxSource is the synthetic provider id that bypasses auth checks.
const SandboxSource = "samples"

const (
	fetchRetryInterval = 500 * time.Millisecond
	fetchRetryTimeout  = 10 * time.Second
)

// Selector picks a data source per call based on configured preference and
// the live authentication state of each known provider.
type Selector struct {
	preferred string
	sources   map[string]interfaces.DataSource
	// real provider ids in priority order, sandbox excluded
	real []string
}

func NewSelector(preferred string, sources ...interfaces.DataSource) *Selector {
	s := &Selector{preferred: preferred, sources: map[string]interfaces.DataSource{}}
	for _, src := range sources {
		s.sources[src.Name()] = src
		if src.Name() != SandboxSource {
			s.real = append(s.real, src.Name())
		}
	}
	return s
}

// Select resolves the provider id for the next call. Empty result means no
// provider is usable.
func (s *Selector) Select() string {
	if s.preferred == SandboxSource {
		return SandboxSource
	}

	authenticated := make([]string, 0, len(s.real))
	for _, name := range s.real {
		if s.sources[name].IsAuthenticated() {
			authenticated = append(authenticated, name)
		}
	}

	switch {
	case len(authenticated) == len(s.real) && len(authenticated) > 0:
		return s.preferred
	case len(authenticated) > 0:
		return authenticated[0]
	default:
		return ""
	}
}

func (s *Selector) resolve() (interfaces.DataSource, error) {
	name := s.Select()
	if name == "" {
		return nil, ErrNoBrokerSelected
	}
	src, ok := s.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBroker, name)
	}
	return src, nil
}

// FetchHistory fetches candles from the selected provider, retrying
// transient failures with exponential backoff.
func (s *Selector) FetchHistory(ctx context.Context, symbol, interval string, from, to time.Time) ([]types.Candle, error) {
	ctx, span := trace.StartSpan(ctx, "history.FetchHistory")
	defer span.End()

	src, err := s.resolve()
	if err != nil {
		return nil, err
	}

	logger.Debug(ctx, "Fetching history", "provider", src.Name(), "symbol", symbol, "interval", interval)

	var candles []types.Candle
	op := func() error {
		var ferr error
		candles, ferr = src.FetchHistory(ctx, symbol, interval, from, to)
		return ferr
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = fetchRetryInterval
	bo.MaxElapsedTime = fetchRetryTimeout
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, &ProviderError{Provider: src.Name(), Err: err}
	}

	return candles, nil
}

// LTP fetches the last traded price from the selected provider.
func (s *Selector) LTP(ctx context.Context, symbol string) (float64, error) {
	src, err := s.resolve()
	if err != nil {
		return 0, err
	}
	price, err := src.LTP(ctx, symbol)
	if err != nil {
		return 0, &ProviderError{Provider: src.Name(), Err: err}
	}
	return price, nil
}
