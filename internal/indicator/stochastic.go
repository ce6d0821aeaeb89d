package indicator

import (
	"math"

	"sar-trading-bot/internal/interfaces"
	"sar-trading-bot/internal/types"
)

const (
	stochOverbought = 80.0
	stochOversold   = 20.0
)

// Stochastic is the oscillator capability used for choppy-regime momentum.
type Stochastic struct {
	k float64
	d float64
}

var _ interfaces.Momentum = (*Stochastic)(nil)

func NewStochastic(candles []types.Candle, kPeriod, dPeriod int) (*Stochastic, error) {
	if len(candles) < kPeriod+dPeriod-1 {
		return nil, insufficientData("Stochastic", kPeriod+dPeriod-1, len(candles))
	}

	ks := make([]float64, 0, dPeriod)
	for off := dPeriod - 1; off >= 0; off-- {
		end := len(candles) - off
		ks = append(ks, percentK(candles[:end], kPeriod))
	}

	return &Stochastic{k: ks[len(ks)-1], d: sma(ks, dPeriod)}, nil
}

func percentK(candles []types.Candle, period int) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := len(candles) - period; i < len(candles); i++ {
		lo = math.Min(lo, candles[i].Low)
		hi = math.Max(hi, candles[i].High)
	}
	if hi == lo {
		return 50
	}
	return 100 * (candles[len(candles)-1].Close - lo) / (hi - lo)
}

// ConfirmMomentum holds when %K leads %D in the move direction and the
// oscillator is not already exhausted.
func (s *Stochastic) ConfirmMomentum(upTrend bool) bool {
	if upTrend {
		return s.k > s.d && s.k < stochOverbought
	}
	return s.k < s.d && s.k > stochOversold
}

// Values returns the raw %K and %D readings.
func (s *Stochastic) Values() (k, d float64) { return s.k, s.d }
