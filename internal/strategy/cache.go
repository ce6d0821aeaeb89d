package strategy

import "sar-trading-bot/internal/types"

// SymbolCache holds the per-instrument candle windows and the open signals
// fanned out per broker. Owned exclusively by one strategy instance.
type SymbolCache struct {
	TradingSymbol string
	// TraceCandles is the long window used for indicator computation.
	TraceCandles []types.Candle
	// Candles is the short recent window, a tail of TraceCandles when not
	// separately supplied.
	Candles []types.Candle

	BuyTradeSignal  map[string]*types.TradeSignal
	SellTradeSignal map[string]*types.TradeSignal

	IsTradeSignalGenerated bool
}

func newSymbolCache(symbol string) *SymbolCache {
	return &SymbolCache{
		TradingSymbol:   symbol,
		BuyTradeSignal:  make(map[string]*types.TradeSignal),
		SellTradeSignal: make(map[string]*types.TradeSignal),
	}
}

// setTraceCandles stores the long window and refreshes the derived tail.
func (sc *SymbolCache) setTraceCandles(candles []types.Candle, tail int) {
	sc.TraceCandles = candles
	if len(candles) > tail {
		sc.Candles = candles[len(candles)-tail:]
	} else {
		sc.Candles = candles
	}
}
