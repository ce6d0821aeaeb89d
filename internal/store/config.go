package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type StrategyConfig struct {
	Name      string   `yaml:"name"`
	Stocks    []string `yaml:"stocks"`
	Brokers   []string `yaml:"brokers"`
	StartTime string   `yaml:"start_time"`
	StopTime  string   `yaml:"stop_time"`

	SLPercentage     float64 `yaml:"sl_percentage"`
	TargetPercentage float64 `yaml:"target_percentage"`

	EnableRiskManagement bool `yaml:"enable_risk_management"`
	WithRiskManagement   struct {
		TotalCapital           float64 `yaml:"total_capital"`
		RiskPercentagePerTrade float64 `yaml:"risk_percentage_per_trade"`
		MaxTrades              int     `yaml:"max_trades"`
	} `yaml:"with_risk_management"`
	WithoutRiskManagement struct {
		CapitalPerTrade float64 `yaml:"capital_per_trade"`
		Margin          float64 `yaml:"margin"`
	} `yaml:"without_risk_management"`
}

type Config struct {
	Mode                   string `yaml:"mode"` // DRY_RUN or LIVE
	SandboxTesting         bool   `yaml:"sandbox_testing"`
	Exchange               string `yaml:"exchange"`
	PreferredHistorySource string `yaml:"preferred_history_source"`
	PollSeconds            int    `yaml:"poll_seconds"`
	QuotePollSeconds       int    `yaml:"quote_poll_seconds"`

	Strategy StrategyConfig `yaml:"strategy"`

	Candles struct {
		Interval   string `yaml:"interval"`
		TraceCount int    `yaml:"trace_count"`
		TailCount  int    `yaml:"tail_count"`
	} `yaml:"candles"`

	Indicators struct {
		ADXPeriod    int     `yaml:"adx_period"`
		RSIPeriod    int     `yaml:"rsi_period"`
		BBWindow     int     `yaml:"bb_window"`
		BBStdDev     float64 `yaml:"bb_stddev"`
		StochKPeriod int     `yaml:"stoch_k_period"`
		StochDPeriod int     `yaml:"stoch_d_period"`
	} `yaml:"indicators"`

	Tick float64 `yaml:"tick"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	switch c.PreferredHistorySource {
	case "zerodha", "upstox", "samples":
	default:
		return fmt.Errorf("invalid preferred_history_source '%s'", c.PreferredHistorySource)
	}
	if len(c.Strategy.Stocks) == 0 {
		return errors.New("strategy.stocks cannot be empty")
	}
	if len(c.Strategy.Brokers) == 0 {
		return errors.New("strategy.brokers cannot be empty")
	}
	if c.Strategy.SLPercentage <= 0 || c.Strategy.TargetPercentage <= 0 {
		return errors.New("strategy.sl_percentage and strategy.target_percentage must be positive")
	}
	if c.Strategy.EnableRiskManagement {
		rm := c.Strategy.WithRiskManagement
		if rm.TotalCapital <= 0 || rm.RiskPercentagePerTrade <= 0 || rm.RiskPercentagePerTrade > 100 {
			return fmt.Errorf("with_risk_management: total_capital %.2f / risk_percentage_per_trade %.2f out of range",
				rm.TotalCapital, rm.RiskPercentagePerTrade)
		}
		if rm.MaxTrades <= 0 {
			return errors.New("with_risk_management.max_trades must be positive")
		}
	} else if c.Strategy.WithoutRiskManagement.CapitalPerTrade <= 0 {
		return errors.New("without_risk_management.capital_per_trade must be positive")
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.PollSeconds == 0 {
		c.PollSeconds = 60
	}
	if c.QuotePollSeconds == 0 {
		c.QuotePollSeconds = 5
	}
	if c.Candles.Interval == "" {
		c.Candles.Interval = "5minute"
	}
	if c.Candles.TraceCount == 0 {
		c.Candles.TraceCount = 250
	}
	if c.Candles.TailCount == 0 {
		c.Candles.TailCount = 75
	}
	if c.Strategy.Name == "" {
		c.Strategy.Name = "SAR"
	}
	if c.Strategy.StartTime == "" {
		c.Strategy.StartTime = "09:30"
	}
	if c.Strategy.StopTime == "" {
		c.Strategy.StopTime = "15:00"
	}
	if c.Strategy.SLPercentage == 0 {
		c.Strategy.SLPercentage = 0.2
	}
	if c.Strategy.TargetPercentage == 0 {
		c.Strategy.TargetPercentage = 0.6
	}
	if !c.Strategy.EnableRiskManagement {
		if c.Strategy.WithoutRiskManagement.CapitalPerTrade == 0 {
			c.Strategy.WithoutRiskManagement.CapitalPerTrade = 1000
		}
		if c.Strategy.WithoutRiskManagement.Margin == 0 {
			c.Strategy.WithoutRiskManagement.Margin = 1
		}
	}
	if c.Indicators.ADXPeriod == 0 {
		c.Indicators.ADXPeriod = 14
	}
	if c.Indicators.RSIPeriod == 0 {
		c.Indicators.RSIPeriod = 14
	}
	if c.Indicators.BBWindow == 0 {
		c.Indicators.BBWindow = 20
	}
	if c.Indicators.BBStdDev == 0 {
		c.Indicators.BBStdDev = 2
	}
	if c.Indicators.StochKPeriod == 0 {
		c.Indicators.StochKPeriod = 14
	}
	if c.Indicators.StochDPeriod == 0 {
		c.Indicators.StochDPeriod = 3
	}
	if c.Tick == 0 {
		c.Tick = 0.05
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
