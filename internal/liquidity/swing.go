// Package liquidity 实现流动性扫描的核心管线：
// 摆动点检测 -> 等高/等低聚类 -> 最近对侧目标选择 -> 信号组装与过滤。
//
// 整个包是纯计算，不做IO也不持有共享状态，不同的扫描可以并发调用。
// 复杂度：摆动检测 O(n)；聚类 O(n·k)，k为同时打开的聚类数（几乎不合并时最坏O(n²)）；
// 目标选择每个聚类 O(k)，合计 O(k²)。实际输入里 k 远小于 n。
package liquidity

// Side 摆动点方向
type Side string

const (
	SideHigh Side = "HIGH"
	SideLow  Side = "LOW"
)

// SwingPoint 一个局部极值点（3-bar分形）
type SwingPoint struct {
	Index int     // bar下标
	Price float64 // 极值价格
	Side  Side
}

// InputError bar数组不满足输入契约
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Reason
}

// DetectSwings 3-bar分形摆动点检测：
//
//	i为swing high当且仅当 high[i] > high[i-1] 且 high[i] > high[i+1]
//	i为swing low 当且仅当 low[i]  < low[i-1]  且 low[i]  < low[i+1]
//
// 同一个下标可以同时产出HIGH和LOW两个点。结果按下标升序。
// 长度不足3根时返回空序列，不算错误。
func DetectSwings(highs, lows []float64) ([]SwingPoint, error) {
	if len(highs) != len(lows) {
		return nil, &InputError{Reason: "highs and lows must have same length"}
	}
	n := len(highs)
	if n < 3 {
		return nil, nil
	}

	swings := make([]SwingPoint, 0, n/4)
	for i := 1; i <= n-2; i++ {
		if highs[i] > highs[i-1] && highs[i] > highs[i+1] {
			swings = append(swings, SwingPoint{Index: i, Price: highs[i], Side: SideHigh})
		}
		if lows[i] < lows[i-1] && lows[i] < lows[i+1] {
			swings = append(swings, SwingPoint{Index: i, Price: lows[i], Side: SideLow})
		}
	}
	// 外层循环本身按下标推进，天然有序
	return swings, nil
}
