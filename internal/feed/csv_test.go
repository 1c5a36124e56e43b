package feed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const sampleCsv = `time,open,high,low,close,volume
2026-01-05 08:00:00+00:00,2050.0,2052.5,2049.0,2051.0,1200
2026-01-05 08:15:00+00:00,2051.0,2053.0,2050.5,2052.0,900
2026-01-05 08:30:00+00:00,2052.0,2054.0,2051.0,2053.5,1100
2026-01-05 08:45:00+00:00,2053.5,2055.0,2052.0,2054.0,800
`

func writeSample(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(sampleCsv), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestCsvFeed_Candles(t *testing.T) {
	dir := writeSample(t, "XAUUSD_M15.csv")
	f := NewCsvFeed(dir)

	klines, err := f.Candles(context.Background(), "xauusd", "M15", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(klines) != 4 {
		t.Fatalf("expected 4 klines, got %d", len(klines))
	}
	first := klines[0]
	if first.Open != 2050.0 || first.High != 2052.5 || first.Low != 2049.0 || first.Close != 2051.0 || first.Vol != 1200 {
		t.Fatalf("first kline = %+v", first)
	}
	for i := 1; i < len(klines); i++ {
		if !klines[i].Timestamp.After(klines[i-1].Timestamp) {
			t.Fatalf("klines not ascending at %d", i)
		}
	}
}

func TestCsvFeed_LimitTakesTail(t *testing.T) {
	dir := writeSample(t, "XAUUSD_M15.csv")
	f := NewCsvFeed(dir)

	klines, err := f.Candles(context.Background(), "XAUUSD", "M15", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(klines) != 2 {
		t.Fatalf("expected 2 klines, got %d", len(klines))
	}
	if klines[1].Close != 2054.0 {
		t.Fatalf("tail not taken: %+v", klines)
	}
}

func TestCsvFeed_Mt5ExportName(t *testing.T) {
	dir := writeSample(t, "GBPJPY_M15_mt5.csv")
	f := NewCsvFeed(dir)

	if _, err := f.Candles(context.Background(), "GBPJPY", "M15", 0); err != nil {
		t.Fatal(err)
	}
}

func TestCsvFeed_MissingFile(t *testing.T) {
	f := NewCsvFeed(t.TempDir())
	if _, err := f.Candles(context.Background(), "EURUSD", "H1", 0); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSplitSymbolWithSlash(t *testing.T) {
	dir := writeSample(t, "BTCUSDT_M15.csv")
	f := NewCsvFeed(dir)

	// BTC/USDT 的斜杠在文件名里被去掉
	if _, err := f.Candles(context.Background(), "BTC/USDT", "M15", 0); err != nil {
		t.Fatal(err)
	}
}
