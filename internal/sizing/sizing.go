// Package sizing computes order quantity and stop/target prices for trade
// signals.
package sizing

import (
	"math"

	"sar-trading-bot/internal/store"
)

// DefaultTick is the minimum price increment on NSE equities.
const DefaultTick = 0.05

// RoundToTick rounds a price to the nearest valid tick.
func RoundToTick(price, tick float64) float64 {
	if tick <= 0 {
		return price
	}
	return math.Round(price/tick) * tick
}

// Sizer computes quantities under one of two mutually exclusive policies:
// risk-percentage (risk a fixed slice of capital per trade) or
// fixed-capital (deploy a fixed notional per trade).
type Sizer struct {
	cfg  store.StrategyConfig
	tick float64
}

func New(cfg store.StrategyConfig, tick float64) *Sizer {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Sizer{cfg: cfg, tick: tick}
}

// Quantity returns the order quantity for the given entry and stop. Zero
// means "do not place".
func (s *Sizer) Quantity(trigger, stopLoss float64) int {
	if trigger <= 0 {
		return 0
	}
	if s.cfg.EnableRiskManagement {
		return SharesWithRiskFactor(
			s.cfg.WithRiskManagement.TotalCapital,
			trigger, stopLoss,
			s.cfg.WithRiskManagement.RiskPercentagePerTrade,
		)
	}
	return int(s.cfg.WithoutRiskManagement.CapitalPerTrade * s.cfg.WithoutRiskManagement.Margin / trigger)
}

// SharesWithRiskFactor sizes a position so a stop-out loses exactly
// riskPct% of totalCapital.
func SharesWithRiskFactor(totalCapital, trigger, stopLoss, riskPct float64) int {
	if totalCapital <= 0 || riskPct <= 0 {
		return 0
	}
	perShareRisk := math.Abs(trigger - stopLoss)
	if perShareRisk == 0 {
		return 0
	}
	riskAmount := totalCapital * riskPct / 100
	// The subtraction carries float error (0.2 is not exact in binary), so
	// nudge before flooring or exact ratios truncate one share low.
	return int(math.Floor(riskAmount/perShareRisk + 1e-9))
}

// StopLossTarget derives the stop and target from the trigger by the
// configured percentage offsets, tick-rounded, direction-aware.
func (s *Sizer) StopLossTarget(trigger float64, isBuy bool) (stopLoss, target float64) {
	slOff := trigger * s.cfg.SLPercentage / 100
	tgtOff := trigger * s.cfg.TargetPercentage / 100
	if isBuy {
		stopLoss = RoundToTick(trigger-slOff, s.tick)
		target = RoundToTick(trigger+tgtOff, s.tick)
	} else {
		stopLoss = RoundToTick(trigger+slOff, s.tick)
		target = RoundToTick(trigger-tgtOff, s.tick)
	}
	return stopLoss, target
}

// Tick returns the configured tick size.
func (s *Sizer) Tick() float64 { return s.tick }
