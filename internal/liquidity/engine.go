package liquidity

import (
	"liqflow/internal/model"
	"liqflow/pkg/utils"
	"sort"

	"go.uber.org/multierr"
)

// EngineConfig 扫描引擎参数，调用方构造一次后不再修改
type EngineConfig struct {
	// 流动性检测
	Tolerance      float64 // 价格单位的聚类容差（pips请在调用侧先换算）
	MinBarsBetween int
	MinPoints      int

	// 交易构造
	EntryBuffer float64 // 流动性价位上下的入场区间半宽
	SlBuffer    float64 // 越过价位的止损缓冲

	// 过滤
	MinTarget float64 // 到目标的最小距离（价格单位）
	MinRR     float64 // 最小盈亏比

	// 输出
	Timeframe         string
	RiskLabel         model.RiskLabel
	ConfidenceDefault int
}

// DefaultEngineConfig v1默认参数
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Tolerance:         0.15,
		MinBarsBetween:    5,
		MinPoints:         2,
		EntryBuffer:       0.20,
		SlBuffer:          0.50,
		MinTarget:         1.00,
		MinRR:             1.2,
		Timeframe:         "M15",
		RiskLabel:         model.RiskMedium,
		ConfidenceDefault: 70,
	}
}

// Validate 聚合所有的参数问题一次性返回，任何一条都会让整个扫描失败
func (c EngineConfig) Validate() error {
	var err error
	if c.Tolerance <= 0 {
		err = multierr.Append(err, &ConfigError{Field: "tolerance", Reason: "must be > 0"})
	}
	if c.MinBarsBetween < 0 {
		err = multierr.Append(err, &ConfigError{Field: "min_bars_between", Reason: "must be >= 0"})
	}
	if c.MinPoints < 2 {
		err = multierr.Append(err, &ConfigError{Field: "min_points", Reason: "must be >= 2"})
	}
	if c.EntryBuffer < 0 {
		err = multierr.Append(err, &ConfigError{Field: "entry_buffer", Reason: "must be >= 0"})
	}
	if c.SlBuffer < 0 {
		err = multierr.Append(err, &ConfigError{Field: "sl_buffer", Reason: "must be >= 0"})
	}
	if c.MinTarget < 0 {
		err = multierr.Append(err, &ConfigError{Field: "min_target", Reason: "must be >= 0"})
	}
	if c.MinRR <= 0 {
		err = multierr.Append(err, &ConfigError{Field: "min_rr", Reason: "must be > 0"})
	}
	if !model.IsValidTimeframe(c.Timeframe) {
		err = multierr.Append(err, &ConfigError{Field: "timeframe", Reason: "unsupported: " + c.Timeframe})
	}
	if c.ConfidenceDefault < 0 || c.ConfidenceDefault > 100 {
		err = multierr.Append(err, &ConfigError{Field: "confidence_default", Reason: "must be in [0,100]"})
	}
	return err
}

// ScanSignals 主入口：
// 给定highs/lows数组，检测EQH/EQL并生成信号。
//
// 每个EQH聚类尝试一个SELL，每个EQL聚类尝试一个BUY，按 (confidence, rr)
// 降序稳定排序后返回。confidence在一次扫描内是常量，实际退化为按rr降序，
// rr相同的保持生成顺序。纯函数：不修改输入，不触碰任何共享状态。
//
// timeframe为空时使用cfg.Timeframe。硬错误（参数、输入）直接中止，
// 不返回部分结果；被过滤的候选只是静默跳过。
func ScanSignals(symbol string, highs, lows []float64, cfg EngineConfig, timeframe string) ([]model.Signal, error) {
	if timeframe == "" {
		timeframe = cfg.Timeframe
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !model.IsValidTimeframe(timeframe) {
		return nil, &ConfigError{Field: "timeframe", Reason: "unsupported: " + timeframe}
	}
	symbol = utils.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, &InputError{Reason: "symbol must not be empty"}
	}

	eqhClusters, eqlClusters, err := DetectEqhEql(highs, lows, cfg.Tolerance, cfg.MinBarsBetween, cfg.MinPoints)
	if err != nil {
		return nil, err
	}

	var signals []model.Signal

	// SELL候选：EQH -> 下方最近的EQL
	for _, eqh := range eqhClusters {
		s, err := buildSellFromEqh(symbol, timeframe, eqh, eqlClusters, cfg)
		if err != nil {
			return nil, err
		}
		if s != nil {
			signals = append(signals, *s)
		}
	}

	// BUY候选：EQL -> 上方最近的EQH
	for _, eql := range eqlClusters {
		s, err := buildBuyFromEql(symbol, timeframe, eql, eqhClusters, cfg)
		if err != nil {
			return nil, err
		}
		if s != nil {
			signals = append(signals, *s)
		}
	}

	sort.SliceStable(signals, func(i, j int) bool {
		if signals[i].Confidence != signals[j].Confidence {
			return signals[i].Confidence > signals[j].Confidence
		}
		return signals[i].RR > signals[j].RR
	})
	return signals, nil
}
