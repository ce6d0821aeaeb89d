// Package trademanager is the process-wide trade signal registry, shared by
// all strategies and brokers for the trading session. All mutations hold the
// registry lock so signal generation and confirmation are strictly ordered
// per (symbol, broker, strategy, direction) key.
package trademanager

import (
	"context"
	"fmt"
	"sync"

	"sar-trading-bot/internal/logger"
	"sar-trading-bot/internal/tradelog"
	"sar-trading-bot/internal/types"
)

type Manager struct {
	mu      sync.Mutex
	signals []*types.TradeSignal
	// placed tracks dedup keys with an order already placed
	placed map[string]bool
	// placedStocks tracks, per strategy, the distinct symbols traded today
	placedStocks map[string]map[string]bool
}

func New() *Manager {
	return &Manager{
		placed:       make(map[string]bool),
		placedStocks: make(map[string]map[string]bool),
	}
}

// AddTradeSignal registers a signal. An open (pending, untriggered) signal
// with the same dedup key is superseded: the newcomer must carry its
// correlation id (the caller propagates it via TradeSignalOfSame). A
// same-key open signal with a different correlation id is a programming
// error. Triggered signals are terminal and stay registered so the opposite
// direction's gates keep seeing them.
func (m *Manager) AddTradeSignal(ctx context.Context, ts *types.TradeSignal) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old := m.openSignalOfSameLocked(ts); old != nil {
		if old.CorrelationID != ts.CorrelationID {
			panic(fmt.Sprintf("trademanager: duplicate open signal for key %s outside supersede path", ts.Key()))
		}
		m.removeLocked(old)
		logger.Debug(ctx, "Trade signal superseded", "key", ts.Key(), "old_trigger", old.Trigger, "new_trigger", ts.Trigger)
	}

	m.signals = append(m.signals, ts)
}

// TradeSignalOfSame returns the open signal with the same dedup key, used to
// propagate correlation ids across regenerations.
func (m *Manager) TradeSignalOfSame(ts *types.TradeSignal) *types.TradeSignal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.openSignalOfSameLocked(ts)
}

func (m *Manager) openSignalOfSameLocked(ts *types.TradeSignal) *types.TradeSignal {
	key := ts.Key()
	for _, s := range m.signals {
		if s != ts && s.Key() == key && !s.IsDisabled && !s.IsTriggered {
			return s
		}
	}
	return nil
}

func (m *Manager) removeLocked(ts *types.TradeSignal) {
	for i, s := range m.signals {
		if s == ts {
			m.signals = append(m.signals[:i], m.signals[i+1:]...)
			return
		}
	}
}

// OppositeTradeSignal returns the live signal for the same symbol, broker
// and strategy in the opposite direction. Disabled signals are ignored; a
// triggered signal takes precedence over a pending regeneration of the same
// key.
func (m *Manager) OppositeTradeSignal(ts *types.TradeSignal) *types.TradeSignal {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pending *types.TradeSignal
	for _, s := range m.signals {
		if s.TradingSymbol != ts.TradingSymbol ||
			s.Broker != ts.Broker ||
			s.Strategy != ts.Strategy ||
			s.IsBuy == ts.IsBuy ||
			s.IsDisabled {
			continue
		}
		if s.IsTriggered {
			return s
		}
		if pending == nil {
			pending = s
		}
	}
	return pending
}

// DisableTradeSignal marks a signal terminal-disabled with the reason
// recorded on the signal. Idempotent: a second disable neither changes state
// nor duplicates the message.
func (m *Manager) DisableTradeSignal(ctx context.Context, ts *types.TradeSignal, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ts.IsDisabled {
		return
	}
	ts.IsDisabled = true
	ts.AddMessage(reason)

	logger.Signal(ctx, ts.TradingSymbol, ts.Broker, "DISABLED", ts.IsBuy, ts.Trigger, "reason", reason)
	if err := tradelog.AppendSignal(tradelog.SignalEntry{
		Symbol:        ts.TradingSymbol,
		Broker:        ts.Broker,
		Strategy:      ts.Strategy,
		Event:         "DISABLED",
		IsBuy:         ts.IsBuy,
		Trigger:       ts.Trigger,
		SignalBy:      string(ts.SignalBy),
		CorrelationID: ts.CorrelationID,
		Reason:        reason,
	}); err != nil {
		logger.Warn(ctx, "Failed to append signal audit entry", "error", err)
	}
}

// MarkTradePlaced records that an order went out for this signal's key.
func (m *Manager) MarkTradePlaced(ts *types.TradeSignal, strategyName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.placed[ts.Key()] = true
	stocks := m.placedStocks[strategyName]
	if stocks == nil {
		stocks = make(map[string]bool)
		m.placedStocks[strategyName] = stocks
	}
	stocks[ts.TradingSymbol] = true
}

// IsTradeAlreadyPlaced reports whether an order has already been placed for
// this signal's dedup key.
func (m *Manager) IsTradeAlreadyPlaced(ts *types.TradeSignal, strategyName string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.placed[ts.Key()]
}

// NumberOfStocksTradesPlaced counts distinct symbols traded today for the
// strategy, feeding the daily cap gate.
func (m *Manager) NumberOfStocksTradesPlaced(strategyName string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.placedStocks[strategyName])
}

// PendingSignals returns the open, untriggered signals for a strategy.
func (m *Manager) PendingSignals(strategyName string) []*types.TradeSignal {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*types.TradeSignal
	for _, s := range m.signals {
		if s.Strategy == strategyName && !s.IsDisabled && !s.IsTriggered {
			out = append(out, s)
		}
	}
	return out
}

// AllSignals returns a snapshot of every registered signal.
func (m *Manager) AllSignals() []*types.TradeSignal {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*types.TradeSignal, len(m.signals))
	copy(out, m.signals)
	return out
}
