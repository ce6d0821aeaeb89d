package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTradeSignalKeyEncodesDirection(t *testing.T) {
	buy := &TradeSignal{TradingSymbol: "RELIANCE", Broker: "zerodha", Strategy: "SAR", IsBuy: true}
	sell := &TradeSignal{TradingSymbol: "RELIANCE", Broker: "zerodha", Strategy: "SAR", IsBuy: false}

	assert.Equal(t, "RELIANCE|zerodha|SAR|BUY", buy.Key())
	assert.Equal(t, "RELIANCE|zerodha|SAR|SELL", sell.Key())
	assert.NotEqual(t, buy.Key(), sell.Key())
}

func TestMessagesAccumulateInOrder(t *testing.T) {
	ts := &TradeSignal{}
	assert.Empty(t, ts.LastMessage())

	ts.AddMessage("first")
	ts.AddMessage("second")

	assert.Len(t, ts.Messages, 2)
	assert.Equal(t, "second", ts.LastMessage())
	assert.Equal(t, "first", ts.Messages[0].Reason)
}
