// Package zerodha implements the Zerodha Kite data source.
package zerodha

import (
	"context"
	"fmt"
	"sync"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"sar-trading-bot/internal/interfaces"
	"sar-trading-bot/internal/logger"
	"sar-trading-bot/internal/types"
)

const authCheckInterval = time.Minute

type Params struct {
	APIKey      string
	AccessToken string
	Exchange    string
}

type Zerodha struct {
	p  Params
	kc *kiteconnect.Client

	mapper *instrumentMapper

	mu            sync.Mutex
	lastAuthCheck time.Time
	authenticated bool
}

var _ interfaces.DataSource = (*Zerodha)(nil)

func New(p Params) *Zerodha {
	kc := kiteconnect.New(p.APIKey)
	kc.SetAccessToken(p.AccessToken)
	if p.Exchange == "" {
		p.Exchange = "NSE"
	}
	return &Zerodha{p: p, kc: kc, mapper: newInstrumentMapper()}
}

func (z *Zerodha) Name() string { return "zerodha" }

// IsAuthenticated reports whether the Kite session is usable. The profile
// call result is cached so the selector can poll cheaply.
func (z *Zerodha) IsAuthenticated() bool {
	if z.p.APIKey == "" || z.p.AccessToken == "" {
		return false
	}

	z.mu.Lock()
	defer z.mu.Unlock()
	if time.Since(z.lastAuthCheck) < authCheckInterval {
		return z.authenticated
	}

	_, err := z.kc.GetUserProfile()
	z.lastAuthCheck = time.Now()
	z.authenticated = err == nil
	return z.authenticated
}

func (z *Zerodha) FetchHistory(ctx context.Context, symbol, interval string, from, to time.Time) ([]types.Candle, error) {
	token, err := z.instrumentToken(ctx, symbol)
	if err != nil {
		return nil, err
	}

	data, err := z.kc.GetHistoricalData(token, interval, from, to, false, false)
	if err != nil {
		return nil, fmt.Errorf("historical data for %s: %w", symbol, err)
	}

	candles := make([]types.Candle, 0, len(data))
	for _, d := range data {
		candles = append(candles, types.Candle{
			Ts:    d.Date.Unix(),
			Open:  d.Open,
			High:  d.High,
			Low:   d.Low,
			Close: d.Close,
			Vol:   float64(d.Volume),
		})
	}
	return candles, nil
}

func (z *Zerodha) LTP(ctx context.Context, symbol string) (float64, error) {
	instrument := z.p.Exchange + ":" + symbol
	quotes, err := z.kc.GetLTP(instrument)
	if err != nil {
		return 0, fmt.Errorf("ltp for %s: %w", symbol, err)
	}
	q, ok := quotes[instrument]
	if !ok {
		return 0, fmt.Errorf("no ltp returned for %s", instrument)
	}
	return q.LastPrice, nil
}

// instrumentToken resolves the numeric instrument token for a trading
// symbol, loading the exchange instrument dump on first use.
func (z *Zerodha) instrumentToken(ctx context.Context, symbol string) (int, error) {
	if token, ok := z.mapper.getToken(symbol); ok {
		return token, nil
	}

	logger.Debug(ctx, "Loading instrument dump", "exchange", z.p.Exchange)
	instruments, err := z.kc.GetInstrumentsByExchange(z.p.Exchange)
	if err != nil {
		return 0, fmt.Errorf("instrument dump: %w", err)
	}
	for _, in := range instruments {
		z.mapper.addMapping(in.Tradingsymbol, in.InstrumentToken)
	}

	token, ok := z.mapper.getToken(symbol)
	if !ok {
		return 0, fmt.Errorf("unknown trading symbol %s on %s", symbol, z.p.Exchange)
	}
	return token, nil
}
