// Package eod writes an end-of-day CSV summary of signal activity from the
// daily signal log.
package eod

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"sar-trading-bot/internal/tradelog"
)

type aggRow struct {
	Symbol    string
	Generated int
	Triggered int
	Disabled  int
	BuyCount  int
	SellCount int
	LastEvent string
}

func logDir() string {
	if v := os.Getenv("TRADER_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func istNow() time.Time { return time.Now().In(time.FixedZone("IST", 19800)) }

func signalFile(t time.Time) string {
	d := t.Format("2006-01-02")
	return filepath.Join(logDir(), "signals", d+".txt")
}

func eodCSVPath(t time.Time) string {
	d := t.Format("2006-01-02")
	return filepath.Join(logDir(), "eod", d+".csv")
}

// SummarizeToday aggregates today's signal log into a CSV. Returns the CSV
// path, or empty when there is nothing to summarize.
func SummarizeToday() (string, error) {
	return SummarizeDay(istNow())
}

func SummarizeDay(t time.Time) (string, error) {
	inPath := signalFile(t)
	if _, err := os.Stat(inPath); err != nil {
		return "", nil
	}
	f, err := os.Open(inPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	aggs := map[string]*aggRow{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e tradelog.SignalEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		row := aggs[e.Symbol]
		if row == nil {
			row = &aggRow{Symbol: e.Symbol}
			aggs[e.Symbol] = row
		}
		switch e.Event {
		case "GENERATED":
			row.Generated++
			if e.IsBuy {
				row.BuyCount++
			} else {
				row.SellCount++
			}
		case "TRIGGERED":
			row.Triggered++
		case "DISABLED":
			row.Disabled++
		}
		row.LastEvent = e.Event
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	if len(aggs) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outPath := eodCSVPath(t)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()

	headers := []string{"symbol", "generated", "buy", "sell", "triggered", "disabled", "last_event"}
	if err := w.Write(headers); err != nil {
		return "", err
	}
	for _, k := range keys {
		row := aggs[k]
		rec := []string{
			row.Symbol,
			strconv.Itoa(row.Generated),
			strconv.Itoa(row.BuyCount),
			strconv.Itoa(row.SellCount),
			strconv.Itoa(row.Triggered),
			strconv.Itoa(row.Disabled),
			row.LastEvent,
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	return outPath, nil
}

// ShouldRunNow reports whether the scheduled EOD window (after market close)
// has been entered today and the summary has not been written yet.
func ShouldRunNow() bool {
	now := istNow()
	if now.Hour() < 15 || (now.Hour() == 15 && now.Minute() < 35) {
		return false
	}
	if _, err := os.Stat(eodCSVPath(now)); err == nil {
		return false
	}
	return true
}
