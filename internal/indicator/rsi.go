package indicator

import (
	"sar-trading-bot/internal/interfaces"
	"sar-trading-bot/internal/types"
)

const (
	rsiBullish    = 55.0
	rsiBearish    = 45.0
	rsiOverbought = 80.0
	rsiOversold   = 20.0
)

// RSI is the trend-momentum confirmation capability.
type RSI struct {
	value float64
}

var _ interfaces.Momentum = (*RSI)(nil)

func NewRSI(candles []types.Candle, period int) (*RSI, error) {
	if len(candles) < period+1 {
		return nil, insufficientData("RSI", period+1, len(candles))
	}
	cl := closes(candles)
	gain, loss := 0.0, 0.0
	for i := len(cl) - period; i < len(cl); i++ {
		d := cl[i] - cl[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return &RSI{value: 100}, nil
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return &RSI{value: 100 - (100 / (1 + rs))}, nil
}

// ConfirmMomentum reports whether RSI supports a move in the given
// direction without being exhausted.
func (r *RSI) ConfirmMomentum(upTrend bool) bool {
	if upTrend {
		return r.value >= rsiBullish && r.value < rsiOverbought
	}
	return r.value <= rsiBearish && r.value > rsiOversold
}

// Value returns the raw RSI reading.
func (r *RSI) Value() float64 { return r.value }
