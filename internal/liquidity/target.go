package liquidity

// NearestLiquidityBelow 在严格低于level的聚类里取Level最大的那个
// 没有则返回nil。多个聚类并列时取升序排列中最先遇到的，单次运行内确定
func NearestLiquidityBelow(level float64, clusters []LiquidityCluster) *LiquidityCluster {
	var best *LiquidityCluster
	for i := range clusters {
		c := &clusters[i]
		if c.Level >= level {
			continue
		}
		if best == nil || c.Level > best.Level {
			best = c
		}
	}
	return best
}

// NearestLiquidityAbove 镜像：严格高于level的聚类里取Level最小的
func NearestLiquidityAbove(level float64, clusters []LiquidityCluster) *LiquidityCluster {
	var best *LiquidityCluster
	for i := range clusters {
		c := &clusters[i]
		if c.Level <= level {
			continue
		}
		if best == nil || c.Level < best.Level {
			best = c
		}
	}
	return best
}
