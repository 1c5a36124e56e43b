package feed

import (
	"context"
	"fmt"

	"liqflow/conf"
	"liqflow/internal/model"
)

// 行情数据源抽象
// 扫描服务只关心拿到一段按时间升序排列的k线，不关心来自交易所还是本地回放文件

type Feed interface {
	// Candles 返回指定symbol+周期最近的limit根k线，按时间从旧到新排列
	Candles(ctx context.Context, symbol, timeframe string, limit int) ([]model.Kline, error)
}

// NewFeed 按配置选择数据源实现
func NewFeed(cfg conf.FeedConfig) (Feed, error) {
	switch cfg.Provider {
	case "okx", "":
		return NewOkxFeed(cfg.BaseURL), nil
	case "csv":
		return NewCsvFeed(cfg.CsvDir), nil
	default:
		return nil, fmt.Errorf("unknown feed provider: %s", cfg.Provider)
	}
}
