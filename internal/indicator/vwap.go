package indicator

import (
	"sar-trading-bot/internal/interfaces"
	"sar-trading-bot/internal/types"
)

// VWAP derives trade direction from the volume-weighted average price.
type VWAP struct {
	vwap      float64
	lastClose float64
}

var _ interfaces.VolumeTrend = (*VWAP)(nil)

func NewVWAP(candles []types.Candle) (*VWAP, error) {
	if len(candles) == 0 {
		return nil, insufficientData("VWAP", 1, 0)
	}
	var pv, vol float64
	for _, c := range candles {
		tp := (c.High + c.Low + c.Close) / 3
		pv += tp * c.Vol
		vol += c.Vol
	}
	v := &VWAP{lastClose: candles[len(candles)-1].Close}
	if vol > 0 {
		v.vwap = pv / vol
	} else {
		v.vwap = v.lastClose
	}
	return v, nil
}

func (v *VWAP) IsUpTrend() bool { return v.lastClose > v.vwap }

// Value returns the raw VWAP reading.
func (v *VWAP) Value() float64 { return v.vwap }
