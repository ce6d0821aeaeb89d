// Package tradelog appends signal lifecycle events to daily JSONL files for
// audit and end-of-day summarization.
package tradelog

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var mu sync.Mutex

// SignalEntry is one lifecycle event (GENERATED, DISABLED, TRIGGERED) for a
// trade signal.
type SignalEntry struct {
	Time          string  `json:"time"`
	Symbol        string  `json:"symbol"`
	Broker        string  `json:"broker"`
	Strategy      string  `json:"strategy"`
	Event         string  `json:"event"`
	IsBuy         bool    `json:"is_buy"`
	Trigger       float64 `json:"trigger"`
	StopLoss      float64 `json:"stop_loss,omitempty"`
	Target        float64 `json:"target,omitempty"`
	Quantity      int     `json:"quantity,omitempty"`
	SignalBy      string  `json:"signal_by"`
	CorrelationID string  `json:"correlation_id"`
	Reason        string  `json:"reason,omitempty"`
}

func ist() *time.Location { return time.FixedZone("IST", 19800) }

func logDir() string {
	if v := os.Getenv("TRADER_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func dailyFilepath(t time.Time) string {
	d := t.In(ist()).Format("2006-01-02")
	return filepath.Join(logDir(), "signals", d+".txt")
}

// AppendSignal appends one lifecycle event to today's signal log.
func AppendSignal(e SignalEntry) error {
	mu.Lock()
	defer mu.Unlock()

	now := time.Now().In(ist())
	e.Time = now.Format("2006-01-02 15:04:05")
	p := dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = f.Write(append(b, '\n'))
	return err
}

// CompressOlder gzips signal logs older than the given number of days.
func CompressOlder(days int) error {
	if days <= 0 {
		return nil
	}
	dir := filepath.Join(logDir(), "signals")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	cutoff := time.Now().In(ist()).AddDate(0, 0, -days)
	for _, entry := range entries {
		name := entry.Name()
		if filepath.Ext(name) != ".txt" {
			continue
		}
		day, err := time.ParseInLocation("2006-01-02", name[:len(name)-len(".txt")], ist())
		if err != nil || !day.Before(cutoff) {
			continue
		}
		if err := gzipFile(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

func gzipFile(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	defer out.Close()

	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		return err
	}
	if err := gw.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}
