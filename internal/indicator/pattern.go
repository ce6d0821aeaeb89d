package indicator

import (
	"math"

	"sar-trading-bot/internal/interfaces"
	"sar-trading-bot/internal/types"
)

// CandlePatterns answers candlestick confirmation queries over the most
// recent candles: engulfing, hammer/shooting star and marubozu shapes.
type CandlePatterns struct {
	prev, last types.Candle
}

var _ interfaces.Patterns = (*CandlePatterns)(nil)

func NewCandlePatterns(candles []types.Candle) (*CandlePatterns, error) {
	if len(candles) < 2 {
		return nil, insufficientData("CandlePatterns", 2, len(candles))
	}
	return &CandlePatterns{
		prev: candles[len(candles)-2],
		last: candles[len(candles)-1],
	}, nil
}

func body(c types.Candle) float64      { return math.Abs(c.Close - c.Open) }
func isGreen(c types.Candle) bool      { return c.Close > c.Open }
func upperWick(c types.Candle) float64 { return c.High - math.Max(c.Open, c.Close) }
func lowerWick(c types.Candle) float64 { return math.Min(c.Open, c.Close) - c.Low }

func (p *CandlePatterns) Bullish() bool {
	return p.bullishEngulfing() || p.hammer() || p.bullishMarubozu()
}

func (p *CandlePatterns) Bearish() bool {
	return p.bearishEngulfing() || p.shootingStar() || p.bearishMarubozu()
}

func (p *CandlePatterns) bullishEngulfing() bool {
	return isGreen(p.last) && !isGreen(p.prev) &&
		p.last.Open < p.prev.Close && p.last.Close > p.prev.Open &&
		body(p.last) > body(p.prev)*1.2
}

func (p *CandlePatterns) bearishEngulfing() bool {
	return !isGreen(p.last) && isGreen(p.prev) &&
		p.last.Open > p.prev.Close && p.last.Close < p.prev.Open &&
		body(p.last) > body(p.prev)*1.2
}

func (p *CandlePatterns) hammer() bool {
	b := body(p.last)
	return b > 0 && lowerWick(p.last) > b*2 && upperWick(p.last) < b*0.5
}

func (p *CandlePatterns) shootingStar() bool {
	b := body(p.last)
	return b > 0 && upperWick(p.last) > b*2 && lowerWick(p.last) < b*0.5
}

func (p *CandlePatterns) bullishMarubozu() bool {
	rng := p.last.High - p.last.Low
	return isGreen(p.last) && rng > 0 && body(p.last) > rng*0.9
}

func (p *CandlePatterns) bearishMarubozu() bool {
	rng := p.last.High - p.last.Low
	return !isGreen(p.last) && rng > 0 && body(p.last) > rng*0.9
}
