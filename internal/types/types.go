package types

import "time"

type Candle struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}

// LiveQuote is the latest traded price snapshot for a symbol.
type LiveQuote struct {
	TradingSymbol string  `json:"symbol"`
	CMP           float64 `json:"cmp"`
	Ts            int64   `json:"ts"`
}

// SignalBy identifies the market regime branch that produced a trade signal.
type SignalBy string

const (
	SignalByTrendingRSIVolatile    SignalBy = "Trending-RSI-Volatile"
	SignalByTrendingRSINonVolatile SignalBy = "Trending-RSI-NonVolatile"
	SignalByChoppyStochasticVWAP   SignalBy = "Choppy-Stochastic-VWAP"
)

// MessageEntry is one audit note on a signal's lifecycle.
type MessageEntry struct {
	Reason string    `json:"reason"`
	Time   time.Time `json:"time"`
}

// TradeSignal is the unit of decision output. A signal is identified by
// (TradingSymbol, Broker, Strategy, IsBuy); regenerated signals for the same
// key share a CorrelationID.
type TradeSignal struct {
	TradingSymbol string   `json:"symbol"`
	Broker        string   `json:"broker"`
	Strategy      string   `json:"strategy"`
	IsBuy         bool     `json:"is_buy"`
	Trigger       float64  `json:"trigger"`
	StopLoss      float64  `json:"stop_loss"`
	Target        float64  `json:"target"`
	Quantity      int      `json:"quantity"`
	SignalBy      SignalBy `json:"signal_by"`
	CorrelationID string   `json:"correlation_id"`

	IsTriggered           bool           `json:"is_triggered"`
	IsDisabled            bool           `json:"is_disabled"`
	ConsiderOppositeTrade bool           `json:"consider_opposite_trade"`
	IsTrailingSL          bool           `json:"is_trailing_sl"`
	Messages              []MessageEntry `json:"messages,omitempty"`

	Timestamp       int64     `json:"timestamp"`
	TradeCutOffTime time.Time `json:"trade_cut_off_time"`
}

// Key returns the dedup key for the signal.
func (ts *TradeSignal) Key() string {
	side := "SELL"
	if ts.IsBuy {
		side = "BUY"
	}
	return ts.TradingSymbol + "|" + ts.Broker + "|" + ts.Strategy + "|" + side
}

// AddMessage appends a lifecycle note without overwriting earlier ones.
func (ts *TradeSignal) AddMessage(reason string) {
	ts.Messages = append(ts.Messages, MessageEntry{Reason: reason, Time: time.Now()})
}

// LastMessage returns the most recent lifecycle note, if any.
func (ts *TradeSignal) LastMessage() string {
	if len(ts.Messages) == 0 {
		return ""
	}
	return ts.Messages[len(ts.Messages)-1].Reason
}
