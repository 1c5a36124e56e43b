package liquidity

import (
	"fmt"
	"sort"
)

// LiquidityCluster 一个EQH或EQL聚类
// Level是定型时成员价格的算术平均，定型后不再更新
type LiquidityCluster struct {
	Side   Side
	Level  float64
	Points []SwingPoint
}

// ConfigError 聚类/引擎参数非法，整个扫描在任何计算之前失败
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

func mean(points []SwingPoint) float64 {
	sum := 0.0
	for _, p := range points {
		sum += p.Price
	}
	return sum / float64(len(points))
}

// ClusterEqualLevels 把单侧摆动点按价格容差聚成等高/等低簇。
//
// 逐点按时间顺序处理，对每个点按“聚类创建顺序”线性扫描已有聚类，
// 命中条件：与聚类最后一个点的bar间隔 >= minBarsBetween，且与聚类当前均值的
// 距离 <= tolerance（均值在判断时用当前成员实时重算）。点落进第一个命中的
// 聚类就停止扫描；都不命中则新开一个单点聚类。
//
// 这是刻意保留的first-fit贪心：一个点可能落进更早创建、距离偏大的聚类，
// 即使后面某个聚类的均值更近。这个次序相关的归属是可观测行为，
// 不要“修复”成最近聚类分配。
//
// 处理完后丢弃成员数 < minPoints 的聚类，幸存聚类按Level升序返回。
func ClusterEqualLevels(swings []SwingPoint, side Side, tolerance float64, minBarsBetween, minPoints int) ([]LiquidityCluster, error) {
	if tolerance <= 0 {
		return nil, &ConfigError{Field: "tolerance", Reason: "must be > 0"}
	}
	if minBarsBetween < 0 {
		return nil, &ConfigError{Field: "min_bars_between", Reason: "must be >= 0"}
	}
	if minPoints < 2 {
		return nil, &ConfigError{Field: "min_points", Reason: "must be >= 2"}
	}

	var pts []SwingPoint
	for _, s := range swings {
		if s.Side == side {
			pts = append(pts, s)
		}
	}
	if len(pts) == 0 {
		return nil, nil
	}

	var clusters [][]SwingPoint

	for _, p := range pts {
		placed := false

		for i := range clusters {
			last := clusters[i][len(clusters[i])-1]
			// bar间隔不够直接跳过这个聚类
			if (p.Index - last.Index) < minBarsBetween {
				continue
			}

			level := mean(clusters[i])
			if abs(p.Price-level) <= tolerance {
				clusters[i] = append(clusters[i], p)
				placed = true
				break
			}
		}

		if !placed {
			clusters = append(clusters, []SwingPoint{p})
		}
	}

	out := make([]LiquidityCluster, 0, len(clusters))
	for _, c := range clusters {
		if len(c) >= minPoints {
			out = append(out, LiquidityCluster{Side: side, Level: mean(c), Points: c})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out, nil
}

// DetectEqhEql 跑一次摆动检测，然后用同一组参数分别对HIGH和LOW两侧聚类，
// 返回 (eqh, eql)
func DetectEqhEql(highs, lows []float64, tolerance float64, minBarsBetween, minPoints int) (eqh, eql []LiquidityCluster, err error) {
	swings, err := DetectSwings(highs, lows)
	if err != nil {
		return nil, nil, err
	}
	eqh, err = ClusterEqualLevels(swings, SideHigh, tolerance, minBarsBetween, minPoints)
	if err != nil {
		return nil, nil, err
	}
	eql, err = ClusterEqualLevels(swings, SideLow, tolerance, minBarsBetween, minPoints)
	if err != nil {
		return nil, nil, err
	}
	return eqh, eql, nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
