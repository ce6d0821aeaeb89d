// Package indicator provides the technical-indicator capability objects
// consumed by the regime-classification chain.
package indicator

import (
	"sar-trading-bot/internal/interfaces"
	"sar-trading-bot/internal/types"
)

// Config carries the indicator periods from strategy configuration.
type Config struct {
	ADXPeriod    int
	RSIPeriod    int
	BBWindow     int
	BBStdDev     float64
	StochKPeriod int
	StochDPeriod int
}

func DefaultConfig() Config {
	return Config{
		ADXPeriod:    14,
		RSIPeriod:    14,
		BBWindow:     20,
		BBStdDev:     2,
		StochKPeriod: 14,
		StochDPeriod: 3,
	}
}

// Gateway constructs capability objects from candle windows.
type Gateway struct {
	cfg Config
}

var _ interfaces.IndicatorGateway = (*Gateway)(nil)

func NewGateway(cfg Config) *Gateway {
	return &Gateway{cfg: cfg}
}

func (g *Gateway) Trend(candles []types.Candle) (interfaces.Trend, error) {
	return NewADX(candles, g.cfg.ADXPeriod)
}

func (g *Gateway) Volatility(candles []types.Candle) (interfaces.Volatility, error) {
	return NewBollingerBands(candles, g.cfg.BBWindow, g.cfg.BBStdDev)
}

func (g *Gateway) Momentum(candles []types.Candle) (interfaces.Momentum, error) {
	return NewRSI(candles, g.cfg.RSIPeriod)
}

func (g *Gateway) Oscillator(candles []types.Candle) (interfaces.Momentum, error) {
	return NewStochastic(candles, g.cfg.StochKPeriod, g.cfg.StochDPeriod)
}

func (g *Gateway) VolumeTrend(candles []types.Candle) (interfaces.VolumeTrend, error) {
	return NewVWAP(candles)
}

func (g *Gateway) Levels(candles []types.Candle) (interfaces.Levels, error) {
	return NewSAR(candles)
}

func (g *Gateway) Patterns(candles []types.Candle) (interfaces.Patterns, error) {
	return NewCandlePatterns(candles)
}
