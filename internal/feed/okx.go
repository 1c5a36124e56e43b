package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"

	"liqflow/internal/model"
	"liqflow/pkg/utils"
)

// okx的公开行情接口，不需要apikey

const defaultOkxBaseURL = "https://www.okx.com/api/v5"

// 周期标签 -> okx的bar参数
var okxBars = map[string]string{
	"M5":  "5m",
	"M15": "15m",
	"M30": "30m",
	"H1":  "1H",
	"H4":  "4H",
	"D1":  "1D",
}

type OkxFeed struct {
	httpClient *http.Client
	baseURL    string
}

func NewOkxFeed(baseURL string) *OkxFeed {
	if baseURL == "" {
		baseURL = defaultOkxBaseURL
	}
	return &OkxFeed{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Candles 拉取最近limit根k线并转为升序
// okx返回的candles是最新的在前，这里反转成引擎需要的从旧到新
func (f *OkxFeed) Candles(ctx context.Context, symbol, timeframe string, limit int) ([]model.Kline, error) {
	bar, ok := okxBars[timeframe]
	if !ok {
		return nil, fmt.Errorf("okx feed: unsupported timeframe %s", timeframe)
	}
	if limit <= 0 {
		limit = 100
	}

	instId := utils.FormatInstId(symbol)
	endpoint := fmt.Sprintf("/market/candles?instId=%s&bar=%s&limit=%d", instId, bar, limit)

	// 每行: [ts, o, h, l, c, vol, volCcy, volCcyQuote, confirm]
	var rows [][]string
	err := utils.Retry(3, 2*time.Second, true, func() error {
		return f.doPublicGet(ctx, endpoint, &rows)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch candles %s %s: %w", instId, bar, err)
	}

	klines := make([]model.Kline, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if len(row) < 6 {
			return nil, fmt.Errorf("okx feed: malformed candle row %v", row)
		}
		klines = append(klines, model.Kline{
			Timestamp: time.UnixMilli(cast.ToInt64(row[0])).UTC(),
			Open:      cast.ToFloat64(row[1]),
			High:      cast.ToFloat64(row[2]),
			Low:       cast.ToFloat64(row[3]),
			Close:     cast.ToFloat64(row[4]),
			Vol:       cast.ToFloat64(row[5]),
		})
	}
	return klines, nil
}

// doPublicGet 执行通用的GET请求，处理okx的标准响应格式 {"code":"0","msg":"","data":[...]}
func (f *OkxFeed) doPublicGet(ctx context.Context, endpoint string, result interface{}) error {
	url := fmt.Sprintf("%s%s", f.baseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API返回非成功状态码: %d", resp.StatusCode)
	}

	var apiResponse struct {
		Code string          `json:"code"`
		Msg  string          `json:"msg"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return fmt.Errorf("解析API响应JSON失败: %w", err)
	}
	if apiResponse.Code != "0" {
		return fmt.Errorf("OKX API错误, Code: %s, Msg: %s", apiResponse.Code, apiResponse.Msg)
	}
	if err := json.Unmarshal(apiResponse.Data, result); err != nil {
		return fmt.Errorf("解析Data字段失败: %w", err)
	}
	return nil
}
