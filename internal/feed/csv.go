package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cast"

	"liqflow/internal/consts"
	"liqflow/internal/model"
	"liqflow/pkg/utils"
)

// 本地csv回放数据源，读取mt5导出的行情文件
// 列格式: time,open,high,low,close,volume，行按时间从旧到新

type CsvFeed struct {
	dir string
}

func NewCsvFeed(dir string) *CsvFeed {
	return &CsvFeed{dir: dir}
}

// 导出文件里的time列可能带时区后缀，也可能是裸的秒级格式
var csvTimeLayouts = []string{
	"2006-01-02 15:04:05-07:00",
	time.RFC3339,
	consts.TimeLayout,
	consts.DateLayout,
}

func parseCsvTime(s string) (time.Time, error) {
	for _, layout := range csvTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time value: %q", s)
}

// Candles 读取 <SYMBOL>_<TF>.csv（或带 _mt5 后缀的导出名），返回最后limit行
func (f *CsvFeed) Candles(ctx context.Context, symbol, timeframe string, limit int) ([]model.Kline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := strings.ReplaceAll(utils.NormalizeSymbol(symbol), "/", "") + "_" + timeframe
	var file *os.File
	var err error
	for _, name := range []string{base + ".csv", base + "_mt5.csv"} {
		file, err = os.Open(filepath.Join(f.dir, name))
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("csv feed: no data file for %s %s in %s", symbol, timeframe, f.dir)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("csv feed: read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"time", "open", "high", "low", "close", "volume"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("csv feed: missing column %s", required)
		}
	}

	var klines []model.Kline
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv feed: read row: %w", err)
		}
		ts, err := parseCsvTime(row[col["time"]])
		if err != nil {
			return nil, fmt.Errorf("csv feed: %w", err)
		}
		klines = append(klines, model.Kline{
			Timestamp: ts,
			Open:      cast.ToFloat64(row[col["open"]]),
			High:      cast.ToFloat64(row[col["high"]]),
			Low:       cast.ToFloat64(row[col["low"]]),
			Close:     cast.ToFloat64(row[col["close"]]),
			Vol:       cast.ToFloat64(row[col["volume"]]),
		})
	}

	if limit > 0 && len(klines) > limit {
		klines = klines[len(klines)-limit:]
	}
	return klines, nil
}
