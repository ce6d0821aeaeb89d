// Package upstox implements the Upstox v2 REST data source.
package upstox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"sar-trading-bot/internal/interfaces"
	"sar-trading-bot/internal/types"
)

const (
	defaultBaseURL = "https://api.upstox.com/v2"

	// Upstox caps quote/history endpoints at 25 req/s per session.
	requestsPerSecond = 25
)

type Params struct {
	AccessToken string
	Exchange    string
	BaseURL     string
}

type Upstox struct {
	p       Params
	client  *http.Client
	limiter *rate.Limiter
}

var _ interfaces.DataSource = (*Upstox)(nil)

func New(p Params) *Upstox {
	if p.BaseURL == "" {
		p.BaseURL = defaultBaseURL
	}
	if p.Exchange == "" {
		p.Exchange = "NSE_EQ"
	}
	return &Upstox{
		p:       p,
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

func (u *Upstox) Name() string { return "upstox" }

func (u *Upstox) IsAuthenticated() bool {
	return u.p.AccessToken != ""
}

type historicalResponse struct {
	Status string `json:"status"`
	Data   struct {
		Candles [][]any `json:"candles"`
	} `json:"data"`
}

func (u *Upstox) FetchHistory(ctx context.Context, symbol, interval string, from, to time.Time) ([]types.Candle, error) {
	key := u.instrumentKey(symbol)
	endpoint := fmt.Sprintf("%s/historical-candle/%s/%s/%s/%s",
		u.p.BaseURL, url.PathEscape(key), interval,
		to.Format("2006-01-02"), from.Format("2006-01-02"))

	var resp historicalResponse
	if err := u.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, fmt.Errorf("upstox history for %s: status %s", symbol, resp.Status)
	}

	candles := make([]types.Candle, 0, len(resp.Data.Candles))
	for _, row := range resp.Data.Candles {
		c, err := parseCandleRow(row)
		if err != nil {
			return nil, fmt.Errorf("upstox history for %s: %w", symbol, err)
		}
		candles = append(candles, c)
	}
	// Upstox returns newest first; callers expect chronological order.
	for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
		candles[i], candles[j] = candles[j], candles[i]
	}
	return candles, nil
}

type ltpResponse struct {
	Status string `json:"status"`
	Data   map[string]struct {
		LastPrice float64 `json:"last_price"`
	} `json:"data"`
}

func (u *Upstox) LTP(ctx context.Context, symbol string) (float64, error) {
	key := u.instrumentKey(symbol)
	endpoint := fmt.Sprintf("%s/market-quote/ltp?instrument_key=%s", u.p.BaseURL, url.QueryEscape(key))

	var resp ltpResponse
	if err := u.get(ctx, endpoint, &resp); err != nil {
		return 0, err
	}
	for _, q := range resp.Data {
		return q.LastPrice, nil
	}
	return 0, fmt.Errorf("no ltp returned for %s", symbol)
}

func (u *Upstox) instrumentKey(symbol string) string {
	return u.p.Exchange + "|" + symbol
}

func (u *Upstox) get(ctx context.Context, endpoint string, out any) error {
	if err := u.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+u.p.AccessToken)

	resp, err := u.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstox: unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// parseCandleRow decodes one [ts, open, high, low, close, volume, oi] row.
func parseCandleRow(row []any) (types.Candle, error) {
	if len(row) < 6 {
		return types.Candle{}, fmt.Errorf("short candle row: %d fields", len(row))
	}
	tsStr, ok := row[0].(string)
	if !ok {
		return types.Candle{}, fmt.Errorf("candle timestamp is not a string")
	}
	t, err := time.Parse(time.RFC3339, tsStr)
	if err != nil {
		return types.Candle{}, err
	}
	vals := make([]float64, 5)
	for i := 1; i <= 5; i++ {
		v, ok := row[i].(float64)
		if !ok {
			return types.Candle{}, fmt.Errorf("candle field %d is not numeric", i)
		}
		vals[i-1] = v
	}
	return types.Candle{
		Ts:    t.Unix(),
		Open:  vals[0],
		High:  vals[1],
		Low:   vals[2],
		Close: vals[3],
		Vol:   vals[4],
	}, nil
}
