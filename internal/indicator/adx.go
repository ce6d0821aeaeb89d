package indicator

import (
	"math"

	"sar-trading-bot/internal/interfaces"
	"sar-trading-bot/internal/types"
)

const (
	trendingADX    = 25.0
	strongTrendADX = 40.0
)

// ADX is the trend-strength capability, computed with Wilder smoothing.
type ADX struct {
	adx     float64
	plusDI  float64
	minusDI float64
}

var _ interfaces.Trend = (*ADX)(nil)

func NewADX(candles []types.Candle, period int) (*ADX, error) {
	if len(candles) < 2*period+1 {
		return nil, insufficientData("ADX", 2*period+1, len(candles))
	}

	n := len(candles)
	trs := make([]float64, n-1)
	plusDM := make([]float64, n-1)
	minusDM := make([]float64, n-1)
	for i := 1; i < n; i++ {
		cur, prev := candles[i], candles[i-1]
		tr := math.Max(cur.High-cur.Low,
			math.Max(math.Abs(cur.High-prev.Close), math.Abs(cur.Low-prev.Close)))
		trs[i-1] = tr

		up := cur.High - prev.High
		down := prev.Low - cur.Low
		if up > down && up > 0 {
			plusDM[i-1] = up
		}
		if down > up && down > 0 {
			minusDM[i-1] = down
		}
	}

	smTR := wilderSum(trs, period)
	smPlus := wilderSum(plusDM, period)
	smMinus := wilderSum(minusDM, period)

	dxs := make([]float64, 0, len(smTR))
	var lastPlusDI, lastMinusDI float64
	for i := range smTR {
		if smTR[i] == 0 {
			dxs = append(dxs, 0)
			continue
		}
		pdi := 100 * smPlus[i] / smTR[i]
		mdi := 100 * smMinus[i] / smTR[i]
		lastPlusDI, lastMinusDI = pdi, mdi
		if pdi+mdi == 0 {
			dxs = append(dxs, 0)
			continue
		}
		dxs = append(dxs, 100*math.Abs(pdi-mdi)/(pdi+mdi))
	}
	if len(dxs) < period {
		return nil, insufficientData("ADX", 2*period+1, len(candles))
	}

	// ADX is the Wilder moving average of DX.
	adx := sma(dxs[:period], period)
	for i := period; i < len(dxs); i++ {
		adx = (adx*float64(period-1) + dxs[i]) / float64(period)
	}

	return &ADX{adx: adx, plusDI: lastPlusDI, minusDI: lastMinusDI}, nil
}

// wilderSum computes running Wilder-smoothed sums over the series.
func wilderSum(vals []float64, period int) []float64 {
	if len(vals) < period {
		return nil
	}
	out := make([]float64, 0, len(vals)-period+1)
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += vals[i]
	}
	out = append(out, sum)
	for i := period; i < len(vals); i++ {
		sum = sum - sum/float64(period) + vals[i]
		out = append(out, sum)
	}
	return out
}

func (a *ADX) IsTrending() bool    { return a.adx >= trendingADX }
func (a *ADX) IsStrongTrend() bool { return a.adx >= strongTrendADX }
func (a *ADX) IsUpTrend() bool     { return a.plusDI > a.minusDI }

// Value returns the raw ADX reading.
func (a *ADX) Value() float64 { return a.adx }
