package model

// 扫描接口的请求/响应体

// EngineOverrides 单次扫描对默认引擎参数的覆盖，nil字段表示沿用配置
type EngineOverrides struct {
	Tolerance      *float64 `json:"tolerance" binding:"omitempty,gt=0"`
	MinBarsBetween *int     `json:"min_bars_between" binding:"omitempty,gte=0"`
	MinPoints      *int     `json:"min_points" binding:"omitempty,gte=2"`
	EntryBuffer    *float64 `json:"entry_buffer" binding:"omitempty,gte=0"`
	SlBuffer       *float64 `json:"sl_buffer" binding:"omitempty,gte=0"`
	MinTarget      *float64 `json:"min_target" binding:"omitempty,gte=0"`
	MinRR          *float64 `json:"min_rr" binding:"omitempty,gt=0"`
}

type ScanReq struct {
	Symbol    string `json:"symbol" binding:"required"`
	Timeframe string `json:"timeframe"`
	// 研究场景可以直接内联bar数组，跳过行情数据源
	Highs []float64 `json:"highs"`
	Lows  []float64 `json:"lows"`
	// 从数据源拉取的k线数量，0表示用配置默认值
	Bars      int              `json:"bars" binding:"omitempty,gte=3"`
	Overrides *EngineOverrides `json:"overrides"`
	// 扫描结果是否落库并广播，纯研究调用可以关掉
	DryRun bool `json:"dry_run"`
}

type ScanRes struct {
	Symbol    string   `json:"symbol"`
	Timeframe string   `json:"timeframe"`
	Count     int      `json:"count"`
	Signals   []Signal `json:"signals"`
}

type SignalDetailReq struct {
	SignalID string `json:"signal_id" form:"signal_id" binding:"required"`
}

type ActiveSignalsReq struct {
	Symbol string `json:"symbol" form:"symbol"`
	Limit  int    `json:"limit" form:"limit"`
}
