package liquidity

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) <= eps
}

func mkSwings(side Side, idx []int, price []float64) []SwingPoint {
	out := make([]SwingPoint, len(idx))
	for i := range idx {
		out[i] = SwingPoint{Index: idx[i], Price: price[i], Side: side}
	}
	return out
}

func TestClusterEqualLevels_BadConfig(t *testing.T) {
	swings := mkSwings(SideHigh, []int{1, 3}, []float64{10, 10.1})

	cases := []struct {
		name           string
		tolerance      float64
		minBarsBetween int
		minPoints      int
	}{
		{"zero tolerance", 0, 1, 2},
		{"negative tolerance", -0.1, 1, 2},
		{"negative spacing", 0.15, -1, 2},
		{"min points too small", 0.15, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ClusterEqualLevels(swings, SideHigh, tc.tolerance, tc.minBarsBetween, tc.minPoints)
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
		})
	}
}

// 黄金用例：聚类结果一经固定就不允许漂移
func TestClusterEqualLevels_GoldenFixture(t *testing.T) {
	highs := []float64{10, 12, 11, 12.1, 11.2, 12.05, 11.0, 13, 12.9}
	lows := []float64{9, 8, 9, 8.1, 9.1, 8.05, 9.2, 9, 9.1}

	eqh, eql, err := DetectEqhEql(highs, lows, 0.15, 1, 2)
	if err != nil {
		t.Fatal(err)
	}

	// EQH: (12, 12.1, 12.05)聚成一簇，13单点被丢弃
	if len(eqh) != 1 {
		t.Fatalf("expected 1 EQH cluster, got %d: %+v", len(eqh), eqh)
	}
	if !approx(eqh[0].Level, (12+12.1+12.05)/3) {
		t.Fatalf("EQH level = %v", eqh[0].Level)
	}
	if len(eqh[0].Points) != 3 {
		t.Fatalf("EQH points = %d", len(eqh[0].Points))
	}
	wantIdx := []int{1, 3, 5}
	for i, p := range eqh[0].Points {
		if p.Index != wantIdx[i] {
			t.Fatalf("EQH member %d index = %d, want %d", i, p.Index, wantIdx[i])
		}
		if p.Side != SideHigh {
			t.Fatalf("EQH member has side %s", p.Side)
		}
	}

	// EQL: (8, 8.1, 8.05)聚成一簇，9单点被丢弃
	if len(eql) != 1 {
		t.Fatalf("expected 1 EQL cluster, got %d: %+v", len(eql), eql)
	}
	if !approx(eql[0].Level, (8+8.1+8.05)/3) {
		t.Fatalf("EQL level = %v", eql[0].Level)
	}
	if len(eql[0].Points) != 3 {
		t.Fatalf("EQL points = %d", len(eql[0].Points))
	}
}

// level必须等于成员价格的精确算术平均
func TestClusterEqualLevels_LevelIsExactMean(t *testing.T) {
	swings := mkSwings(SideLow, []int{1, 4, 8}, []float64{100.0, 100.1, 99.95})
	clusters, err := ClusterEqualLevels(swings, SideLow, 0.2, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	want := (100.0 + 100.1 + 99.95) / 3
	if clusters[0].Level != want {
		t.Fatalf("level = %v, want exact mean %v", clusters[0].Level, want)
	}
}

// first-fit的次序相关归属：点落进先创建的聚类，即使后创建的均值更近。
// 这个用例故意钉住该行为，改成best-fit会直接挂掉
func TestClusterEqualLevels_FirstFitNotBestFit(t *testing.T) {
	// p3=100.25距离c1(均值100.0)恰好0.25=tolerance，距离c2(100.4)只有0.15，
	// 但扫描顺序先命中c1
	swings := mkSwings(SideHigh, []int{1, 3, 5}, []float64{100.0, 100.4, 100.25})
	clusters, err := ClusterEqualLevels(swings, SideHigh, 0.25, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	// c2只有一个成员被丢弃，幸存的是c1=[100.0, 100.25]
	if len(clusters) != 1 {
		t.Fatalf("expected 1 surviving cluster, got %d: %+v", len(clusters), clusters)
	}
	if len(clusters[0].Points) != 2 {
		t.Fatalf("expected 2 members, got %d", len(clusters[0].Points))
	}
	if clusters[0].Points[0].Price != 100.0 || clusters[0].Points[1].Price != 100.25 {
		t.Fatalf("first-fit assignment broken: %+v", clusters[0].Points)
	}
	if !approx(clusters[0].Level, (100.0+100.25)/2) {
		t.Fatalf("level = %v", clusters[0].Level)
	}
}

// 命中判断用的是聚类当前均值，不是第一个点
func TestClusterEqualLevels_MeanDrift(t *testing.T) {
	// 100.35距第一个点0.35 > tol，但距当前均值100.1只有0.25 <= tol
	swings := mkSwings(SideHigh, []int{1, 3, 5}, []float64{100.0, 100.2, 100.35})
	clusters, err := ClusterEqualLevels(swings, SideHigh, 0.25, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(clusters) != 1 || len(clusters[0].Points) != 3 {
		t.Fatalf("expected one 3-member cluster, got %+v", clusters)
	}
}

func TestClusterEqualLevels_MinBarsBetween(t *testing.T) {
	// 两个点价格几乎相等，但bar间隔1 < 3，不能进同一个聚类
	swings := mkSwings(SideHigh, []int{1, 2}, []float64{100.0, 100.05})
	clusters, err := ClusterEqualLevels(swings, SideHigh, 0.15, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	// 各自单点，都过不了min_points
	if len(clusters) != 0 {
		t.Fatalf("expected no surviving clusters, got %+v", clusters)
	}
}

func TestClusterEqualLevels_SortedAscending(t *testing.T) {
	swings := mkSwings(SideLow, []int{1, 3, 5, 7, 9, 11}, []float64{105, 105.1, 95, 95.05, 100, 100.02})
	clusters, err := ClusterEqualLevels(swings, SideLow, 0.2, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(clusters) != 3 {
		t.Fatalf("expected 3 clusters, got %d", len(clusters))
	}
	for i := 1; i < len(clusters); i++ {
		if clusters[i].Level < clusters[i-1].Level {
			t.Fatalf("clusters not ascending: %+v", clusters)
		}
	}
}

func TestClusterEqualLevels_FiltersOtherSide(t *testing.T) {
	mixed := append(
		mkSwings(SideHigh, []int{1, 3}, []float64{100, 100.1}),
		mkSwings(SideLow, []int{2, 4}, []float64{100.05, 100.02})...,
	)
	clusters, err := ClusterEqualLevels(mixed, SideHigh, 0.2, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %+v", clusters)
	}
	for _, p := range clusters[0].Points {
		if p.Side != SideHigh {
			t.Fatalf("cluster contains wrong side point: %+v", p)
		}
	}
}
