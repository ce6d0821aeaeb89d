package indicator

import (
	"sort"

	"sar-trading-bot/internal/interfaces"
	"sar-trading-bot/internal/types"
)

// pivotLookback is the number of candles on each side a swing high/low must
// dominate to count as a level.
const pivotLookback = 3

// minLevelCandles keeps the level set meaningful on short windows.
const minLevelCandles = 2*pivotLookback + 1

// SAR is the support-and-resistance capability: pivot-derived price levels
// with breakout/breakdown state relative to the last close.
type SAR struct {
	resistances []float64 // sorted ascending
	supports    []float64 // sorted ascending
	lastClose   float64
}

var _ interfaces.Levels = (*SAR)(nil)

func NewSAR(candles []types.Candle) (*SAR, error) {
	if len(candles) < minLevelCandles {
		return nil, insufficientData("SAR", minLevelCandles, len(candles))
	}

	s := &SAR{lastClose: candles[len(candles)-1].Close}
	for i := pivotLookback; i < len(candles)-pivotLookback; i++ {
		if isPivotHigh(candles, i) {
			s.resistances = append(s.resistances, candles[i].High)
		}
		if isPivotLow(candles, i) {
			s.supports = append(s.supports, candles[i].Low)
		}
	}
	sort.Float64s(s.resistances)
	sort.Float64s(s.supports)
	return s, nil
}

func isPivotHigh(cs []types.Candle, i int) bool {
	for j := i - pivotLookback; j <= i+pivotLookback; j++ {
		if j != i && cs[j].High >= cs[i].High {
			return false
		}
	}
	return true
}

func isPivotLow(cs []types.Candle, i int) bool {
	for j := i - pivotLookback; j <= i+pivotLookback; j++ {
		if j != i && cs[j].Low <= cs[i].Low {
			return false
		}
	}
	return true
}

// NearestLevel returns the closest level beyond price in the move direction:
// the next resistance above for an up move, the next support below for a
// down move.
func (s *SAR) NearestLevel(price float64, upTrend bool) (float64, bool) {
	if upTrend {
		i := sort.SearchFloat64s(s.resistances, price)
		for ; i < len(s.resistances); i++ {
			if s.resistances[i] > price {
				return s.resistances[i], true
			}
		}
		return 0, false
	}
	i := sort.SearchFloat64s(s.supports, price)
	for i--; i >= 0; i-- {
		if s.supports[i] < price {
			return s.supports[i], true
		}
	}
	return 0, false
}

// BreakoutPoint is the resistance the price must clear for a confirmed
// breakout, anchored at the last traced close.
func (s *SAR) BreakoutPoint(price float64) float64 {
	if level, ok := s.NearestLevel(s.lastClose, true); ok {
		return level
	}
	return price
}

// BreakdownPoint is the support the price must lose for a confirmed
// breakdown, anchored at the last traced close.
func (s *SAR) BreakdownPoint(price float64) float64 {
	if level, ok := s.NearestLevel(s.lastClose, false); ok {
		return level
	}
	return price
}

// IsBreakout reports whether price has cleared the resistance above the
// last traced close. With no resistance overhead the move is unobstructed.
func (s *SAR) IsBreakout(price float64) bool {
	level, ok := s.NearestLevel(s.lastClose, true)
	if !ok {
		return true
	}
	return price > level
}

// IsBreakdown reports whether price has lost the support below the last
// traced close.
func (s *SAR) IsBreakdown(price float64) bool {
	level, ok := s.NearestLevel(s.lastClose, false)
	if !ok {
		return true
	}
	return price < level
}
