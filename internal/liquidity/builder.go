package liquidity

import (
	"liqflow/internal/model"
	"math"
)

// 单个聚类 -> 至多一个信号
// 经济过滤（风险/收益非正、目标太近、盈亏比不够、没有对侧目标）是正常丢弃，
// 返回 (nil, nil)；构造出的信号没通过模型校验则是程序缺陷，错误原样上抛。

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}

// buildSellFromEqh 从一个EQH聚类构造SELL候选，目标取下方最近的EQL
func buildSellFromEqh(symbol, timeframe string, eqh LiquidityCluster, eqlClusters []LiquidityCluster, cfg EngineConfig) (*model.Signal, error) {
	entryZone := model.EntryZone{Low: eqh.Level - cfg.EntryBuffer, High: eqh.Level + cfg.EntryBuffer}
	sl := eqh.Level + cfg.SlBuffer

	target := NearestLiquidityBelow(eqh.Level, eqlClusters)
	if target == nil {
		return nil, nil
	}

	entry := entryZone.Mid()
	tp1 := target.Level

	risk := sl - entry
	reward := entry - tp1

	if risk <= 0 || reward <= 0 {
		return nil, nil
	}

	rr := reward / risk

	// 过滤
	if reward < cfg.MinTarget {
		return nil, nil
	}
	if rr < cfg.MinRR {
		return nil, nil
	}

	level := eqh.Level
	s, err := model.NewSignal(model.Signal{
		Symbol:        symbol,
		Timeframe:     timeframe,
		Direction:     model.DirectionSell,
		EntryZone:     entryZone,
		StopLoss:      sl,
		Targets:       []float64{tp1},
		RR:            round4(rr),
		LiquidityType: model.LiquidityEqhToEql,
		Confidence:    cfg.ConfidenceDefault,
		Risk:          cfg.RiskLabel,
		Level:         &level,
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// buildBuyFromEql 镜像：从一个EQL聚类构造BUY候选，目标取上方最近的EQH
func buildBuyFromEql(symbol, timeframe string, eql LiquidityCluster, eqhClusters []LiquidityCluster, cfg EngineConfig) (*model.Signal, error) {
	entryZone := model.EntryZone{Low: eql.Level - cfg.EntryBuffer, High: eql.Level + cfg.EntryBuffer}
	sl := eql.Level - cfg.SlBuffer

	target := NearestLiquidityAbove(eql.Level, eqhClusters)
	if target == nil {
		return nil, nil
	}

	entry := entryZone.Mid()
	tp1 := target.Level

	risk := entry - sl
	reward := tp1 - entry

	if risk <= 0 || reward <= 0 {
		return nil, nil
	}

	rr := reward / risk

	if reward < cfg.MinTarget {
		return nil, nil
	}
	if rr < cfg.MinRR {
		return nil, nil
	}

	level := eql.Level
	s, err := model.NewSignal(model.Signal{
		Symbol:        symbol,
		Timeframe:     timeframe,
		Direction:     model.DirectionBuy,
		EntryZone:     entryZone,
		StopLoss:      sl,
		Targets:       []float64{tp1},
		RR:            round4(rr),
		LiquidityType: model.LiquidityEqlToEqh,
		Confidence:    cfg.ConfidenceDefault,
		Risk:          cfg.RiskLabel,
		Level:         &level,
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}
