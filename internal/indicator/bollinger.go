package indicator

import (
	"sar-trading-bot/internal/interfaces"
	"sar-trading-bot/internal/types"
)

// volatileBandwidth is the minimum (upper-lower)/middle ratio for the
// market to count as volatile.
const volatileBandwidth = 0.04

// BollingerBands is the volatility capability.
type BollingerBands struct {
	middle, upper, lower float64
	last                 types.Candle
}

var _ interfaces.Volatility = (*BollingerBands)(nil)

func NewBollingerBands(candles []types.Candle, window int, stdDevs float64) (*BollingerBands, error) {
	if len(candles) < window {
		return nil, insufficientData("BollingerBands", window, len(candles))
	}
	cl := closes(candles)
	mid := sma(cl, window)
	sd := stdDev(cl, window)
	return &BollingerBands{
		middle: mid,
		upper:  mid + stdDevs*sd,
		lower:  mid - stdDevs*sd,
		last:   candles[len(candles)-1],
	}, nil
}

func (bb *BollingerBands) IsVolatile() bool {
	if bb.middle == 0 {
		return false
	}
	return (bb.upper-bb.lower)/bb.middle >= volatileBandwidth
}

// InContact reports band contact on the trend side.
func (bb *BollingerBands) InContact(upTrend bool) bool {
	if upTrend {
		return bb.last.High >= bb.upper
	}
	return bb.last.Low <= bb.lower
}

// InContactMeanReversion reports band contact on the entry side of a range:
// lower band before an up move, upper band before a down move.
func (bb *BollingerBands) InContactMeanReversion(upTrend bool) bool {
	if upTrend {
		return bb.last.Low <= bb.lower
	}
	return bb.last.High >= bb.upper
}

// Bands returns the computed band levels.
func (bb *BollingerBands) Bands() (middle, upper, lower float64) {
	return bb.middle, bb.upper, bb.lower
}
