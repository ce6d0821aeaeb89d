package interfaces

import (
	"context"
	"time"

	"sar-trading-bot/internal/types"
)

// DataSource is a market-data provider (broker session or sandbox samples).
type DataSource interface {
	Name() string
	IsAuthenticated() bool
	FetchHistory(ctx context.Context, symbol, interval string, from, to time.Time) ([]types.Candle, error)
	LTP(ctx context.Context, symbol string) (float64, error)
}
