package eod

import (
	"encoding/csv"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sar-trading-bot/internal/tradelog"
)

func seedSignals(t *testing.T) {
	t.Helper()
	entries := []tradelog.SignalEntry{
		{Symbol: "RELIANCE", Event: "GENERATED", IsBuy: true, Trigger: 2500},
		{Symbol: "RELIANCE", Event: "TRIGGERED", IsBuy: true, Trigger: 2500},
		{Symbol: "TCS", Event: "GENERATED", IsBuy: false, Trigger: 3400},
		{Symbol: "TCS", Event: "DISABLED", IsBuy: false, Trigger: 3400, Reason: "Trigger already crossed"},
		{Symbol: "INFY", Event: "GENERATED", IsBuy: true, Trigger: 1500},
	}
	for _, e := range entries {
		require.NoError(t, tradelog.AppendSignal(e))
	}
}

func TestSummarizeDayAggregatesPerSymbol(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", t.TempDir())
	seedSignals(t)

	path, err := SummarizeDay(time.Now().In(time.FixedZone("IST", 19800)))
	require.NoError(t, err)
	require.NotEmpty(t, path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 4, "header plus one row per symbol")
	assert.Equal(t, []string{"symbol", "generated", "buy", "sell", "triggered", "disabled", "last_event"}, rows[0])

	// Rows are sorted by symbol.
	assert.Equal(t, []string{"INFY", "1", "1", "0", "0", "0", "GENERATED"}, rows[1])
	assert.Equal(t, []string{"RELIANCE", "1", "1", "0", "1", "0", "TRIGGERED"}, rows[2])
	assert.Equal(t, []string{"TCS", "1", "0", "1", "0", "1", "DISABLED"}, rows[3])
}

func TestSummarizeDayWithoutLogReturnsEmpty(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", t.TempDir())

	path, err := SummarizeDay(time.Now())
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestShouldRunNowHonorsExistingSummary(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", t.TempDir())
	seedSignals(t)

	now := time.Now().In(time.FixedZone("IST", 19800))
	beforeClose := now.Hour() < 15 || (now.Hour() == 15 && now.Minute() < 35)

	if beforeClose {
		assert.False(t, ShouldRunNow(), "must not run before the EOD window")
		return
	}
	assert.True(t, ShouldRunNow())

	_, err := SummarizeToday()
	require.NoError(t, err)

	assert.False(t, ShouldRunNow(), "summary already written today")
}
