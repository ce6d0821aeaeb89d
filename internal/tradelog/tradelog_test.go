package tradelog

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendSignalWritesDailyJSONL(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRADER_LOG_DIR", dir)

	require.NoError(t, AppendSignal(SignalEntry{
		Symbol: "RELIANCE", Broker: "zerodha", Strategy: "SAR",
		Event: "GENERATED", IsBuy: true, Trigger: 2500.05,
		Quantity: 10, SignalBy: "Trending-RSI-Volatile", CorrelationID: "c-1",
	}))
	require.NoError(t, AppendSignal(SignalEntry{
		Symbol: "RELIANCE", Broker: "zerodha", Strategy: "SAR",
		Event: "DISABLED", IsBuy: true, Trigger: 2500.05,
		SignalBy: "Trending-RSI-Volatile", CorrelationID: "c-1",
		Reason: "Trigger already crossed",
	}))

	day := time.Now().In(time.FixedZone("IST", 19800)).Format("2006-01-02")
	f, err := os.Open(filepath.Join(dir, "signals", day+".txt"))
	require.NoError(t, err)
	defer f.Close()

	var entries []SignalEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e SignalEntry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, sc.Err())

	require.Len(t, entries, 2)
	assert.Equal(t, "GENERATED", entries[0].Event)
	assert.NotEmpty(t, entries[0].Time)
	assert.Equal(t, "DISABLED", entries[1].Event)
	assert.Equal(t, "Trigger already crossed", entries[1].Reason)
	assert.Equal(t, "c-1", entries[1].CorrelationID)
}

func TestCompressOlderGzipsStaleLogsOnly(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRADER_LOG_DIR", dir)

	sigDir := filepath.Join(dir, "signals")
	require.NoError(t, os.MkdirAll(sigDir, 0o755))

	ist := time.FixedZone("IST", 19800)
	stale := time.Now().In(ist).AddDate(0, 0, -10).Format("2006-01-02")
	fresh := time.Now().In(ist).Format("2006-01-02")
	content := []byte(`{"event":"GENERATED"}` + "\n")
	require.NoError(t, os.WriteFile(filepath.Join(sigDir, stale+".txt"), content, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sigDir, fresh+".txt"), content, 0o644))

	require.NoError(t, CompressOlder(7))

	_, err := os.Stat(filepath.Join(sigDir, stale+".txt"))
	assert.True(t, os.IsNotExist(err), "stale plain file must be removed")
	_, err = os.Stat(filepath.Join(sigDir, fresh+".txt"))
	assert.NoError(t, err, "fresh file must stay uncompressed")

	gz, err := os.Open(filepath.Join(sigDir, stale+".txt.gz"))
	require.NoError(t, err)
	defer gz.Close()
	gr, err := gzip.NewReader(gz)
	require.NoError(t, err)
	got, err := io.ReadAll(gr)
	require.NoError(t, err)
	assert.Equal(t, content, got, "gzip round-trips the original content")
}

func TestCompressOlderNoSignalsDirIsNoop(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", t.TempDir())
	assert.NoError(t, CompressOlder(7))
}

func TestCompressOlderDisabledByNonPositiveRetention(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", t.TempDir())
	assert.NoError(t, CompressOlder(0))
}
