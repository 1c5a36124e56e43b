package service

import (
	"strings"
	"testing"
	"time"

	"liqflow/internal/model"
)

func flatKlines(n int, price, barRange float64) []model.Kline {
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	klines := make([]model.Kline, n)
	for i := range klines {
		klines[i] = model.Kline{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Open:      price,
			Close:     price,
			High:      price + barRange/2,
			Low:       price - barRange/2,
			Vol:       10,
		}
	}
	return klines
}

func TestVolatilityAnnotation_TooFewBars(t *testing.T) {
	risk, explanation := VolatilityAnnotation(flatKlines(5, 100, 1), model.RiskMedium)
	if risk != model.RiskMedium || explanation != "" {
		t.Fatalf("got %s %q", risk, explanation)
	}
}

func TestVolatilityAnnotation_Buckets(t *testing.T) {
	// ATR收敛到每根bar的range，占价格的百分比决定标签
	cases := []struct {
		barRange float64
		want     model.RiskLabel
	}{
		{0.2, model.RiskLow},    // 0.2%
		{1.0, model.RiskMedium}, // 1%
		{3.0, model.RiskHigh},   // 3%
	}
	for _, tc := range cases {
		// fallback故意给个错的标签，确认走的是计算分支
		risk, explanation := VolatilityAnnotation(flatKlines(60, 100, tc.barRange), "")
		if risk != tc.want {
			t.Fatalf("range %.1f: got %s want %s", tc.barRange, risk, tc.want)
		}
		if !strings.Contains(explanation, "ATR(14)") {
			t.Fatalf("explanation = %q", explanation)
		}
	}
}
