// Package samples is the sandbox data source: deterministic synthetic
// candles, always authenticated.
package samples

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"sync"
	"time"

	"sar-trading-bot/internal/interfaces"
	"sar-trading-bot/internal/types"
)

type Samples struct {
	mu        sync.Mutex
	lastClose map[string]float64
}

var _ interfaces.DataSource = (*Samples)(nil)

func New() *Samples {
	return &Samples{lastClose: make(map[string]float64)}
}

func (s *Samples) Name() string { return "samples" }

func (s *Samples) IsAuthenticated() bool { return true }

// FetchHistory generates a reproducible random-walk series seeded by symbol,
// so repeated runs against the sandbox behave the same.
func (s *Samples) FetchHistory(ctx context.Context, symbol, interval string, from, to time.Time) ([]types.Candle, error) {
	step := intervalDuration(interval)
	n := int(to.Sub(from) / step)
	if n <= 0 {
		n = 1
	}

	rng := rand.New(rand.NewSource(int64(seedFor(symbol))))
	base := 500 + float64(seedFor(symbol)%2000)

	candles := make([]types.Candle, 0, n)
	close := base
	for i := 0; i < n; i++ {
		drift := (rng.Float64() - 0.5) * base * 0.004
		open := close
		close = math.Max(1, open+drift)
		high := math.Max(open, close) + rng.Float64()*base*0.001
		low := math.Min(open, close) - rng.Float64()*base*0.001
		candles = append(candles, types.Candle{
			Ts:    from.Add(time.Duration(i) * step).Unix(),
			Open:  open,
			High:  high,
			Low:   low,
			Close: close,
			Vol:   1000 + rng.Float64()*9000,
		})
	}

	s.mu.Lock()
	s.lastClose[symbol] = close
	s.mu.Unlock()

	return candles, nil
}

func (s *Samples) LTP(ctx context.Context, symbol string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.lastClose[symbol]; ok {
		return c, nil
	}
	return 500 + float64(seedFor(symbol)%2000), nil
}

func seedFor(symbol string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return h.Sum32()
}

func intervalDuration(interval string) time.Duration {
	switch interval {
	case "minute":
		return time.Minute
	case "5minute":
		return 5 * time.Minute
	case "15minute":
		return 15 * time.Minute
	case "day":
		return 24 * time.Hour
	default:
		return 5 * time.Minute
	}
}
