package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimalConfig = `
mode: DRY_RUN
preferred_history_source: samples
strategy:
  stocks: [RELIANCE, TCS]
  brokers: [zerodha]
`

func TestLoadConfigAppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.PollSeconds)
	assert.Equal(t, 5, cfg.QuotePollSeconds)
	assert.Equal(t, "5minute", cfg.Candles.Interval)
	assert.Equal(t, 250, cfg.Candles.TraceCount)
	assert.Equal(t, 75, cfg.Candles.TailCount)

	assert.Equal(t, "SAR", cfg.Strategy.Name)
	assert.Equal(t, "09:30", cfg.Strategy.StartTime)
	assert.Equal(t, "15:00", cfg.Strategy.StopTime)
	assert.InDelta(t, 0.2, cfg.Strategy.SLPercentage, 1e-9)
	assert.InDelta(t, 0.6, cfg.Strategy.TargetPercentage, 1e-9)
	assert.InDelta(t, 1000, cfg.Strategy.WithoutRiskManagement.CapitalPerTrade, 1e-9)
	assert.InDelta(t, 1, cfg.Strategy.WithoutRiskManagement.Margin, 1e-9)

	assert.Equal(t, 14, cfg.Indicators.ADXPeriod)
	assert.Equal(t, 14, cfg.Indicators.RSIPeriod)
	assert.Equal(t, 20, cfg.Indicators.BBWindow)
	assert.InDelta(t, 2, cfg.Indicators.BBStdDev, 1e-9)
	assert.InDelta(t, 0.05, cfg.Tick, 1e-9)
}

func TestLoadConfigExplicitValuesSurviveDefaulting(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
mode: LIVE
sandbox_testing: true
preferred_history_source: upstox
poll_seconds: 30
strategy:
  name: SAR-15
  stocks: [INFY]
  brokers: [zerodha, upstox]
  start_time: "10:00"
  enable_risk_management: true
  with_risk_management:
    total_capital: 50000
    risk_percentage_per_trade: 0.5
    max_trades: 3
candles:
  interval: 15minute
`))
	require.NoError(t, err)

	assert.Equal(t, "LIVE", cfg.Mode)
	assert.True(t, cfg.SandboxTesting)
	assert.Equal(t, 30, cfg.PollSeconds)
	assert.Equal(t, "SAR-15", cfg.Strategy.Name)
	assert.Equal(t, "10:00", cfg.Strategy.StartTime)
	assert.Equal(t, "15minute", cfg.Candles.Interval)
	assert.True(t, cfg.Strategy.EnableRiskManagement)
	assert.Equal(t, 3, cfg.Strategy.WithRiskManagement.MaxTrades)
}

func TestValidateRejectsBadMode(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
mode: PAPER
preferred_history_source: samples
strategy:
  stocks: [RELIANCE]
  brokers: [zerodha]
`))
	assert.ErrorContains(t, err, "invalid mode")
}

func TestValidateRejectsUnknownHistorySource(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
mode: DRY_RUN
preferred_history_source: bloomberg
strategy:
  stocks: [RELIANCE]
  brokers: [zerodha]
`))
	assert.ErrorContains(t, err, "invalid preferred_history_source")
}

func TestValidateRejectsEmptyUniverse(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
mode: DRY_RUN
preferred_history_source: samples
strategy:
  brokers: [zerodha]
`))
	assert.ErrorContains(t, err, "stocks cannot be empty")
}

func TestValidateRejectsRiskManagementWithoutCapital(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
mode: DRY_RUN
preferred_history_source: samples
strategy:
  stocks: [RELIANCE]
  brokers: [zerodha]
  enable_risk_management: true
  with_risk_management:
    risk_percentage_per_trade: 1
    max_trades: 2
`))
	assert.ErrorContains(t, err, "with_risk_management")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
