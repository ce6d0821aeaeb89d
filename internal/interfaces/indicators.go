package interfaces

import "sar-trading-bot/internal/types"

// Trend answers trend-strength queries over a candle window (ADX family).
type Trend interface {
	IsTrending() bool
	IsStrongTrend() bool
	IsUpTrend() bool
}

// Volatility answers band queries over a candle window (Bollinger family).
type Volatility interface {
	IsVolatile() bool
	// InContact reports whether the last candle touched the band on the
	// trend side: upper band for an uptrend, lower band for a downtrend.
	InContact(upTrend bool) bool
	// InContactMeanReversion reports band contact on the entry side of a
	// ranging market: lower band for an up move, upper band for a down move.
	InContactMeanReversion(upTrend bool) bool
}

// Momentum confirms whether momentum supports a move in the given direction.
type Momentum interface {
	ConfirmMomentum(upTrend bool) bool
}

// VolumeTrend derives trade direction from volume-weighted price (VWAP).
type VolumeTrend interface {
	IsUpTrend() bool
}

// Levels exposes support/resistance lookups and breakout state.
type Levels interface {
	// NearestLevel returns the closest level at or beyond price in the move
	// direction: resistance above for up, support below for down.
	NearestLevel(price float64, upTrend bool) (float64, bool)
	IsBreakout(price float64) bool
	IsBreakdown(price float64) bool
	BreakoutPoint(price float64) float64
	BreakdownPoint(price float64) float64
}

// Patterns answers candlestick confirmation queries over recent candles.
type Patterns interface {
	Bullish() bool
	Bearish() bool
}

// IndicatorGateway constructs capability objects from a candle window.
// Implementations must return an error when the window is too short for the
// requested computation.
type IndicatorGateway interface {
	Trend(candles []types.Candle) (Trend, error)
	Volatility(candles []types.Candle) (Volatility, error)
	Momentum(candles []types.Candle) (Momentum, error)
	Oscillator(candles []types.Candle) (Momentum, error)
	VolumeTrend(candles []types.Candle) (VolumeTrend, error)
	Levels(candles []types.Candle) (Levels, error)
	Patterns(candles []types.Candle) (Patterns, error)
}
