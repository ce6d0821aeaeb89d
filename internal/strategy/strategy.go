// Package strategy contains the per-cycle decision loop: candle cache
// refresh, regime classification into trade signals, and the gating chain
// that confirms or disables pending signals against live quotes.
package strategy

import (
	"context"
	"math"
	"time"

	"sar-trading-bot/internal/history"
	"sar-trading-bot/internal/interfaces"
	"sar-trading-bot/internal/logger"
	"sar-trading-bot/internal/sizing"
	"sar-trading-bot/internal/store"
	"sar-trading-bot/internal/trademanager"
	"sar-trading-bot/internal/types"
)

var ist = time.FixedZone("IST", 19800)

// BaseStrategy carries the runtime state and gates shared by strategies.
type BaseStrategy struct {
	name     string
	cfg      *store.Config
	scfg     store.StrategyConfig
	selector *history.Selector
	tm       *trademanager.Manager
	gateway  interfaces.IndicatorGateway
	sizer    *sizing.Sizer

	stocksCache map[string]*SymbolCache

	strategyStartTime     time.Time
	strategyStopTimestamp time.Time
	maxTradesReached      bool
}

func newBaseStrategy(name string, cfg *store.Config, selector *history.Selector, tm *trademanager.Manager, gateway interfaces.IndicatorGateway) *BaseStrategy {
	b := &BaseStrategy{
		name:        name,
		cfg:         cfg,
		scfg:        cfg.Strategy,
		selector:    selector,
		tm:          tm,
		gateway:     gateway,
		sizer:       sizing.New(cfg.Strategy, cfg.Tick),
		stocksCache: make(map[string]*SymbolCache),
	}
	b.strategyStartTime = sessionTime(cfg.Strategy.StartTime)
	b.strategyStopTimestamp = sessionTime(cfg.Strategy.StopTime)
	for _, symbol := range cfg.Strategy.Stocks {
		b.stocksCache[symbol] = newSymbolCache(symbol)
	}
	return b
}

func (b *BaseStrategy) Name() string { return b.name }

func (b *BaseStrategy) Stocks() []string { return b.scfg.Stocks }

// sessionTime resolves "HH:MM" to today's wall-clock time in IST.
func sessionTime(hhmm string) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		t, _ = time.Parse("15:04", "09:30")
	}
	now := time.Now().In(ist)
	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, ist)
}

// fetchTraceCandlesHistory refreshes the long candle window for every
// tracked symbol. A fetch failure for one symbol is logged and skipped so
// the cycle continues for the others.
func (b *BaseStrategy) fetchTraceCandlesHistory(ctx context.Context) {
	to := time.Now().In(ist)
	from := to.Add(-time.Duration(b.cfg.Candles.TraceCount) * intervalDuration(b.cfg.Candles.Interval))

	for _, symbol := range b.scfg.Stocks {
		candles, err := b.selector.FetchHistory(ctx, symbol, b.cfg.Candles.Interval, from, to)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to fetch trace candles", err, "symbol", symbol)
			continue
		}
		b.stocksCache[symbol].setTraceCandles(candles, b.cfg.Candles.TailCount)
	}
}

func intervalDuration(interval string) time.Duration {
	switch interval {
	case "minute":
		return time.Minute
	case "15minute":
		return 15 * time.Minute
	case "day":
		return 24 * time.Hour
	default:
		return 5 * time.Minute
	}
}

// baseShouldPlaceTrade applies the eligibility gates common to all
// strategies: terminal state, trade cut-off time, tracked symbol, quantity.
func (b *BaseStrategy) baseShouldPlaceTrade(ctx context.Context, ts *types.TradeSignal) bool {
	if ts.IsDisabled || ts.IsTriggered {
		return false
	}
	if !time.Now().Before(ts.TradeCutOffTime) {
		b.tm.DisableTradeSignal(ctx, ts, "Trade cut-off time reached")
		return false
	}
	if _, tracked := b.stocksCache[ts.TradingSymbol]; !tracked {
		return false
	}
	return ts.Quantity > 0
}

// priceActionable is the direction-aware placement rule: the entry is only
// worth taking while price sits between the stop and the target.
func priceActionable(ts *types.TradeSignal, cmp float64) bool {
	if ts.IsBuy {
		return cmp > ts.StopLoss && cmp < ts.Target
	}
	return cmp < ts.StopLoss && cmp > ts.Target
}

// isNearPct reports whether a is within tol (as a fraction of b) of b.
func isNearPct(a, b, tol float64) bool {
	return math.Abs(a-b) <= math.Abs(b)*tol
}
