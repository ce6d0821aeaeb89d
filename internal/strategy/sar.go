package strategy

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"sar-trading-bot/internal/history"
	"sar-trading-bot/internal/interfaces"
	"sar-trading-bot/internal/logger"
	"sar-trading-bot/internal/sizing"
	"sar-trading-bot/internal/store"
	"sar-trading-bot/internal/tradelog"
	"sar-trading-bot/internal/trademanager"
	"sar-trading-bot/internal/types"
)

// confirmNear is the absolute price tolerance around the trigger within
// which a pending signal is still considered confirmable.
const confirmNear = 0.1

// triggerNearPct is how close (fraction of price) a support/resistance
// level must be to the last close to serve as the trigger.
const triggerNearPct = 0.01

// SARStrategy classifies market regime per symbol and manages the resulting
// trade signals through the gating chain.
type SARStrategy struct {
	*BaseStrategy
}

var _ interfaces.Strategy = (*SARStrategy)(nil)

func NewSAR(cfg *store.Config, selector *history.Selector, tm *trademanager.Manager, gateway interfaces.IndicatorGateway) *SARStrategy {
	return &SARStrategy{
		BaseStrategy: newBaseStrategy(cfg.Strategy.Name, cfg, selector, tm, gateway),
	}
}

// Process is one composition cycle: refresh candle caches, then classify
// each symbol's regime and emit pending trade signals.
func (s *SARStrategy) Process(ctx context.Context) error {
	logger.Info(ctx, "Strategy process cycle", "strategy", s.name)
	if s.maxTradesReached {
		return nil
	}

	s.fetchTraceCandlesHistory(ctx)

	if !s.cfg.SandboxTesting && time.Now().In(ist).Before(s.strategyStartTime) {
		logger.Info(ctx, "Before strategy start time", "strategy", s.name, "start_time", s.strategyStartTime)
		return nil
	}

	s.classifyRegimes(ctx)
	return nil
}

// classifyRegimes runs the indicator gate chain per symbol. Indicator
// failures (for example insufficient history) are logged per symbol and do
// not abort the batch.
func (s *SARStrategy) classifyRegimes(ctx context.Context) {
	for _, symbol := range s.scfg.Stocks {
		data := s.stocksCache[symbol]
		if data == nil || len(data.TraceCandles) == 0 {
			continue
		}
		if err := s.classifySymbol(ctx, data); err != nil {
			logger.ErrorWithErr(ctx, "Regime classification failed", err, "symbol", symbol)
		}
	}
}

func (s *SARStrategy) classifySymbol(ctx context.Context, data *SymbolCache) error {
	trace := data.TraceCandles

	trend, err := s.gateway.Trend(trace)
	if err != nil {
		return err
	}
	vol, err := s.gateway.Volatility(trace)
	if err != nil {
		return err
	}

	if trend.IsTrending() {
		momentum, err := s.gateway.Momentum(trace)
		if err != nil {
			return err
		}
		if !momentum.ConfirmMomentum(trend.IsUpTrend()) {
			logger.Debug(ctx, "Momentum disconfirmed", "symbol", data.TradingSymbol, "up_trend", trend.IsUpTrend())
			return nil
		}

		if vol.IsVolatile() {
			if vol.InContact(trend.IsUpTrend()) && s.patternConfirm(data.Candles, trend.IsUpTrend()) {
				trigger, err := s.getTrigger(trace, trend.IsUpTrend())
				if err != nil {
					return err
				}
				s.generateTradeSignals(ctx, data, trend.IsUpTrend(), trigger, types.SignalByTrendingRSIVolatile)
			}
			return nil
		}
		if trend.IsStrongTrend() && vol.InContact(trend.IsUpTrend()) && s.patternConfirm(data.Candles, trend.IsUpTrend()) {
			trigger, err := s.getTrigger(trace, trend.IsUpTrend())
			if err != nil {
				return err
			}
			s.generateTradeSignals(ctx, data, trend.IsUpTrend(), trigger, types.SignalByTrendingRSINonVolatile)
		}
		return nil
	}

	// Choppy market: only the volatile flavor is tradable.
	if !vol.IsVolatile() {
		return nil
	}
	vwap, err := s.gateway.VolumeTrend(trace)
	if err != nil {
		return err
	}
	if !vol.InContactMeanReversion(vwap.IsUpTrend()) {
		return nil
	}
	osc, err := s.gateway.Oscillator(trace)
	if err != nil {
		return err
	}
	if !osc.ConfirmMomentum(vwap.IsUpTrend()) {
		return nil
	}
	trigger, err := s.getTrigger(trace, vwap.IsUpTrend())
	if err != nil {
		return err
	}
	s.generateTradeSignals(ctx, data, vwap.IsUpTrend(), trigger, types.SignalByChoppyStochasticVWAP)
	return nil
}

// patternConfirm checks the recent tail window for a direction-matching
// candlestick pattern.
func (s *SARStrategy) patternConfirm(recent []types.Candle, upTrend bool) bool {
	patterns, err := s.gateway.Patterns(recent)
	if err != nil {
		return false
	}
	if upTrend {
		return patterns.Bullish()
	}
	return patterns.Bearish()
}

// getTrigger picks the nearest support/resistance level in the signal
// direction; when none is near the last close it falls back to a small
// offset from it.
func (s *SARStrategy) getTrigger(trace []types.Candle, upTrend bool) (float64, error) {
	price := trace[len(trace)-1].Close

	levels, err := s.gateway.Levels(trace)
	if err != nil {
		return 0, err
	}
	if level, ok := levels.NearestLevel(price, upTrend); ok && isNearPct(level, price, triggerNearPct) {
		return sizing.RoundToTick(level, s.sizer.Tick()), nil
	}

	n := math.Max(price*0.0001, 0.05)
	if upTrend {
		return sizing.RoundToTick(price+n, s.sizer.Tick()), nil
	}
	return sizing.RoundToTick(price-n, s.sizer.Tick()), nil
}

// generateTradeSignals fans one signal out per configured broker and
// registers each with the trade manager.
func (s *SARStrategy) generateTradeSignals(ctx context.Context, data *SymbolCache, longPosition bool, trigger float64, signalBy types.SignalBy) {
	for _, broker := range s.scfg.Brokers {
		ts := s.createTradeSignal(data, longPosition, trigger, broker, signalBy)
		if longPosition {
			data.BuyTradeSignal[broker] = ts
		} else {
			data.SellTradeSignal[broker] = ts
		}
		s.tm.AddTradeSignal(ctx, ts)

		logger.Signal(ctx, ts.TradingSymbol, broker, "GENERATED", ts.IsBuy, ts.Trigger,
			"signal_by", string(ts.SignalBy), "correlation_id", ts.CorrelationID, "quantity", ts.Quantity)
		if err := tradelog.AppendSignal(tradelog.SignalEntry{
			Symbol:        ts.TradingSymbol,
			Broker:        broker,
			Strategy:      s.name,
			Event:         "GENERATED",
			IsBuy:         ts.IsBuy,
			Trigger:       ts.Trigger,
			StopLoss:      ts.StopLoss,
			Target:        ts.Target,
			Quantity:      ts.Quantity,
			SignalBy:      string(ts.SignalBy),
			CorrelationID: ts.CorrelationID,
		}); err != nil {
			logger.Warn(ctx, "Failed to append signal audit entry", "error", err)
		}
	}
	data.IsTradeSignalGenerated = true
}

func (s *SARStrategy) createTradeSignal(data *SymbolCache, longPosition bool, trigger float64, broker string, signalBy types.SignalBy) *types.TradeSignal {
	lastCandle := data.TraceCandles[len(data.TraceCandles)-1]
	stopLoss, target := s.sizer.StopLossTarget(trigger, longPosition)

	ts := &types.TradeSignal{
		TradingSymbol:   data.TradingSymbol,
		Broker:          broker,
		Strategy:        s.name,
		IsBuy:           longPosition,
		Trigger:         trigger,
		StopLoss:        stopLoss,
		Target:          target,
		Quantity:        s.sizer.Quantity(trigger, stopLoss),
		SignalBy:        signalBy,
		Timestamp:       lastCandle.Ts,
		TradeCutOffTime: s.strategyStopTimestamp,
	}

	if old := s.tm.TradeSignalOfSame(ts); old != nil {
		ts.CorrelationID = old.CorrelationID
	} else {
		ts.CorrelationID = uuid.NewString()
	}
	return ts
}

// EvaluateQuotes runs the gating chain for every pending signal against a
// fresh quote, marking confirmed signals triggered.
func (s *SARStrategy) EvaluateQuotes(ctx context.Context) {
	pending := s.tm.PendingSignals(s.name)
	quotes := make(map[string]float64)

	for _, ts := range pending {
		cmp, ok := quotes[ts.TradingSymbol]
		if !ok {
			var err error
			cmp, err = s.selector.LTP(ctx, ts.TradingSymbol)
			if err != nil {
				logger.ErrorWithErr(ctx, "Failed to fetch live quote", err, "symbol", ts.TradingSymbol)
				continue
			}
			quotes[ts.TradingSymbol] = cmp
		}

		quote := types.LiveQuote{TradingSymbol: ts.TradingSymbol, CMP: cmp, Ts: time.Now().Unix()}
		if s.ShouldPlaceTrade(ctx, ts, quote) {
			s.markTriggered(ctx, ts, quote)
		}
	}
}

func (s *SARStrategy) markTriggered(ctx context.Context, ts *types.TradeSignal, quote types.LiveQuote) {
	ts.IsTriggered = true
	s.tm.MarkTradePlaced(ts, s.name)

	logger.Signal(ctx, ts.TradingSymbol, ts.Broker, "TRIGGERED", ts.IsBuy, ts.Trigger,
		"cmp", quote.CMP, "quantity", ts.Quantity, "correlation_id", ts.CorrelationID)
	if err := tradelog.AppendSignal(tradelog.SignalEntry{
		Symbol:        ts.TradingSymbol,
		Broker:        ts.Broker,
		Strategy:      s.name,
		Event:         "TRIGGERED",
		IsBuy:         ts.IsBuy,
		Trigger:       ts.Trigger,
		StopLoss:      ts.StopLoss,
		Target:        ts.Target,
		Quantity:      ts.Quantity,
		SignalBy:      string(ts.SignalBy),
		CorrelationID: ts.CorrelationID,
	}); err != nil {
		logger.Warn(ctx, "Failed to append signal audit entry", "error", err)
	}
}

// ShouldPlaceTrade is the gating chain evaluated per live-quote tick,
// short-circuiting at the first failing gate.
func (s *SARStrategy) ShouldPlaceTrade(ctx context.Context, ts *types.TradeSignal, quote types.LiveQuote) bool {
	if !s.baseShouldPlaceTrade(ctx, ts) {
		return false
	}
	if !priceActionable(ts, quote.CMP) {
		return false
	}
	if s.tm.IsTradeAlreadyPlaced(ts, s.name) {
		return false
	}

	isReverseTrade := false
	if opp := s.tm.OppositeTradeSignal(ts); opp != nil && opp.IsTriggered {
		if !opp.ConsiderOppositeTrade {
			return false
		}
		isReverseTrade = true
	}

	// Daily cap, bypassed for reverse trades.
	if !isReverseTrade && s.scfg.EnableRiskManagement {
		maxTrades := s.scfg.WithRiskManagement.MaxTrades
		placed := s.tm.NumberOfStocksTradesPlaced(s.name)
		if placed >= maxTrades {
			logger.Risk(ctx, ts.TradingSymbol, "MAX_TRADES_REACHED", "placed", placed, "max", maxTrades)
			s.tm.DisableTradeSignal(ctx, ts, "Max trades per day reached")
			s.maxTradesReached = true
			return false
		}
	}

	return s.ConfirmTrade(ctx, ts, quote)
}

// ConfirmTrade re-checks the entry against the live quote: trigger not
// already crossed, momentum still confirming for the oscillator regime, and
// the level breakout/breakdown confirmed. A false return without a disable
// means "wait for the next tick".
func (s *SARStrategy) ConfirmTrade(ctx context.Context, ts *types.TradeSignal, quote types.LiveQuote) bool {
	data := s.stocksCache[ts.TradingSymbol]
	if data == nil || len(data.TraceCandles) == 0 {
		return false
	}

	cmp := quote.CMP
	if math.Abs(ts.Trigger-cmp) > confirmNear {
		// Price ran past the entry without triggering.
		if (ts.IsBuy && ts.Trigger < cmp) || (!ts.IsBuy && ts.Trigger > cmp) {
			s.tm.DisableTradeSignal(ctx, ts, "Trigger already crossed")
			return false
		}
	}

	switch ts.SignalBy {
	case types.SignalByChoppyStochasticVWAP:
		osc, err := s.gateway.Oscillator(data.TraceCandles)
		if err != nil {
			logger.ErrorWithErr(ctx, "Oscillator reconfirmation failed", err, "symbol", ts.TradingSymbol)
			return false
		}
		if !osc.ConfirmMomentum(ts.IsBuy) {
			s.tm.DisableTradeSignal(ctx, ts, "Momentum lost")
			return false
		}
	case types.SignalByTrendingRSIVolatile, types.SignalByTrendingRSINonVolatile:
		// Trend regimes need no momentum reconfirmation here.
	default:
		logger.Error(ctx, "Unknown signal regime", "signal_by", string(ts.SignalBy))
		return false
	}

	levels, err := s.gateway.Levels(data.TraceCandles)
	if err != nil {
		logger.ErrorWithErr(ctx, "Level reconfirmation failed", err, "symbol", ts.TradingSymbol)
		return false
	}
	if ts.IsBuy {
		if !levels.IsBreakout(cmp) {
			logger.Debug(ctx, "Waiting for breakout", "symbol", ts.TradingSymbol,
				"cmp", cmp, "breakout_point", fmt.Sprintf("%.2f", levels.BreakoutPoint(cmp)))
			return false
		}
	} else if !levels.IsBreakdown(cmp) {
		logger.Debug(ctx, "Waiting for breakdown", "symbol", ts.TradingSymbol,
			"cmp", cmp, "breakdown_point", fmt.Sprintf("%.2f", levels.BreakdownPoint(cmp)))
		return false
	}

	return true
}
