package liquidity

import (
	"errors"
	"testing"

	"liqflow/internal/model"
)

// 黄金用例用的引擎参数
func fixtureConfig() EngineConfig {
	return EngineConfig{
		Tolerance:         0.15,
		MinBarsBetween:    1,
		MinPoints:         2,
		EntryBuffer:       0.05,
		SlBuffer:          0.20,
		MinTarget:         0.30,
		MinRR:             1.0,
		Timeframe:         "M15",
		RiskLabel:         model.RiskMedium,
		ConfidenceDefault: 70,
	}
}

func fixtureBars() (highs, lows []float64) {
	highs = []float64{10, 12, 11, 12.1, 11.2, 12.05, 11.0, 13, 12.9}
	lows = []float64{9, 8, 9, 8.1, 9.1, 8.05, 9.2, 9, 9.1}
	return
}

// 黄金用例：信号数量和字段值一经固定就不允许漂移（created_at除外）
func TestScanSignals_GoldenFixture(t *testing.T) {
	highs, lows := fixtureBars()
	cfg := fixtureConfig()

	signals, err := ScanSignals("XAUUSD", highs, lows, cfg, "M15")
	if err != nil {
		t.Fatal(err)
	}
	if len(signals) != 2 {
		t.Fatalf("expected 2 signals, got %d: %+v", len(signals), signals)
	}

	eqhLevel := (12 + 12.1 + 12.05) / 3
	eqlLevel := (8.0 + 8.1 + 8.05) / 3

	sell := signals[0]
	if sell.Direction != model.DirectionSell {
		t.Fatalf("first signal should be SELL, got %s", sell.Direction)
	}
	if sell.Symbol != "XAUUSD" || sell.Timeframe != "M15" {
		t.Fatalf("unexpected identity: %+v", sell)
	}
	if !approx(sell.EntryZone.Low, eqhLevel-0.05) || !approx(sell.EntryZone.High, eqhLevel+0.05) {
		t.Fatalf("SELL entry zone = %+v", sell.EntryZone)
	}
	if !approx(sell.StopLoss, eqhLevel+0.20) {
		t.Fatalf("SELL stop loss = %v", sell.StopLoss)
	}
	if len(sell.Targets) != 1 || !approx(sell.Targets[0], eqlLevel) {
		t.Fatalf("SELL targets = %v", sell.Targets)
	}
	if sell.RR != 20.0 {
		t.Fatalf("SELL rr = %v, want 20.0", sell.RR)
	}
	if sell.LiquidityType != model.LiquidityEqhToEql {
		t.Fatalf("SELL liquidity type = %s", sell.LiquidityType)
	}
	if sell.Confidence != 70 || sell.Risk != model.RiskMedium {
		t.Fatalf("SELL confidence/risk = %d/%s", sell.Confidence, sell.Risk)
	}
	if sell.Level == nil || !approx(*sell.Level, eqhLevel) {
		t.Fatalf("SELL level = %v", sell.Level)
	}

	buy := signals[1]
	if buy.Direction != model.DirectionBuy {
		t.Fatalf("second signal should be BUY, got %s", buy.Direction)
	}
	if !approx(buy.EntryZone.Low, eqlLevel-0.05) || !approx(buy.EntryZone.High, eqlLevel+0.05) {
		t.Fatalf("BUY entry zone = %+v", buy.EntryZone)
	}
	if !approx(buy.StopLoss, eqlLevel-0.20) {
		t.Fatalf("BUY stop loss = %v", buy.StopLoss)
	}
	if len(buy.Targets) != 1 || !approx(buy.Targets[0], eqhLevel) {
		t.Fatalf("BUY targets = %v", buy.Targets)
	}
	if buy.RR != 20.0 {
		t.Fatalf("BUY rr = %v, want 20.0", buy.RR)
	}
	if buy.LiquidityType != model.LiquidityEqlToEqh {
		t.Fatalf("BUY liquidity type = %s", buy.LiquidityType)
	}
}

// 每个信号都必须满足跨字段不变量
func TestScanSignals_Invariants(t *testing.T) {
	highs, lows := fixtureBars()
	signals, err := ScanSignals("xauusd", highs, lows, fixtureConfig(), "M15")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range signals {
		if s.Symbol != "XAUUSD" {
			t.Fatalf("symbol not normalized: %q", s.Symbol)
		}
		if !(s.EntryZone.Low < s.EntryZone.High) {
			t.Fatalf("entry zone inverted: %+v", s.EntryZone)
		}
		if s.RR <= 0 {
			t.Fatalf("rr not positive: %v", s.RR)
		}
		mid := s.EntryZone.Mid()
		switch s.Direction {
		case model.DirectionBuy:
			if !(s.StopLoss < s.EntryZone.Low) {
				t.Fatalf("BUY stop loss not below entry: %+v", s)
			}
			for _, tp := range s.Targets {
				if !(tp > mid) {
					t.Fatalf("BUY target not above entry: %+v", s)
				}
			}
		case model.DirectionSell:
			if !(s.StopLoss > s.EntryZone.High) {
				t.Fatalf("SELL stop loss not above entry: %+v", s)
			}
			for _, tp := range s.Targets {
				if !(tp < mid) {
					t.Fatalf("SELL target not below entry: %+v", s)
				}
			}
		}
		if s.CreatedAt.Location() != s.CreatedAt.UTC().Location() {
			t.Fatalf("created_at not UTC: %v", s.CreatedAt)
		}
	}
}

// 排序：按rr降序，rr相同的保持生成顺序（SELL批次在BUY批次之前）
func TestScanSignals_SortedByRR(t *testing.T) {
	highs := []float64{100, 110, 100, 110, 100, 120, 100, 120, 100}
	lows := []float64{100, 95, 100, 95, 100, 99, 100, 98, 100}

	signals, err := ScanSignals("BTC/USDT", highs, lows, fixtureConfig(), "H1")
	if err != nil {
		t.Fatal(err)
	}
	if len(signals) != 3 {
		t.Fatalf("expected 3 signals, got %d: %+v", len(signals), signals)
	}
	// EQH 120 的SELL盈亏比最高
	if signals[0].RR != 125.0 || signals[0].Direction != model.DirectionSell {
		t.Fatalf("signals[0] = %v %v", signals[0].Direction, signals[0].RR)
	}
	// rr 75 并列：SELL先生成，稳定排序下保持在BUY前
	if signals[1].RR != 75.0 || signals[1].Direction != model.DirectionSell {
		t.Fatalf("signals[1] = %v %v", signals[1].Direction, signals[1].RR)
	}
	if signals[2].RR != 75.0 || signals[2].Direction != model.DirectionBuy {
		t.Fatalf("signals[2] = %v %v", signals[2].Direction, signals[2].RR)
	}
	for i := 1; i < len(signals); i++ {
		if signals[i].RR > signals[i-1].RR {
			t.Fatalf("rr not non-increasing: %+v", signals)
		}
	}
}

func TestScanSignals_Filters(t *testing.T) {
	highs, lows := fixtureBars()

	t.Run("min rr too high", func(t *testing.T) {
		cfg := fixtureConfig()
		cfg.MinRR = 50.0
		signals, err := ScanSignals("XAUUSD", highs, lows, cfg, "M15")
		if err != nil {
			t.Fatal(err)
		}
		if len(signals) != 0 {
			t.Fatalf("expected all filtered, got %+v", signals)
		}
	})

	t.Run("min target too far", func(t *testing.T) {
		cfg := fixtureConfig()
		cfg.MinTarget = 100.0
		signals, err := ScanSignals("XAUUSD", highs, lows, cfg, "M15")
		if err != nil {
			t.Fatal(err)
		}
		if len(signals) != 0 {
			t.Fatalf("expected all filtered, got %+v", signals)
		}
	})

	t.Run("zero sl buffer kills risk", func(t *testing.T) {
		// sl_buffer=0 时风险为0，候选全部丢弃，不是错误
		cfg := fixtureConfig()
		cfg.SlBuffer = 0
		signals, err := ScanSignals("XAUUSD", highs, lows, cfg, "M15")
		if err != nil {
			t.Fatal(err)
		}
		if len(signals) != 0 {
			t.Fatalf("expected all filtered, got %+v", signals)
		}
	})

	t.Run("no opposite side", func(t *testing.T) {
		// lows单调递减不产出swing low，EQL为空 -> SELL没有目标
		h := []float64{100, 110, 100, 110, 100, 110, 100}
		l := []float64{99, 98, 97, 96, 95, 94, 93}
		signals, err := ScanSignals("XAUUSD", h, l, fixtureConfig(), "M15")
		if err != nil {
			t.Fatal(err)
		}
		if len(signals) != 0 {
			t.Fatalf("expected no signals without opposite liquidity, got %+v", signals)
		}
	})
}

func TestScanSignals_HardErrors(t *testing.T) {
	highs, lows := fixtureBars()

	t.Run("bad tolerance", func(t *testing.T) {
		cfg := fixtureConfig()
		cfg.Tolerance = 0
		_, err := ScanSignals("XAUUSD", highs, lows, cfg, "M15")
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("expected *ConfigError, got %v", err)
		}
	})

	t.Run("bad timeframe", func(t *testing.T) {
		_, err := ScanSignals("XAUUSD", highs, lows, fixtureConfig(), "M7")
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("expected *ConfigError, got %v", err)
		}
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := ScanSignals("XAUUSD", highs, lows[:len(lows)-1], fixtureConfig(), "M15")
		var ie *InputError
		if !errors.As(err, &ie) {
			t.Fatalf("expected *InputError, got %v", err)
		}
	})

	t.Run("empty symbol", func(t *testing.T) {
		_, err := ScanSignals("   ", highs, lows, fixtureConfig(), "M15")
		if err == nil {
			t.Fatal("expected error for empty symbol")
		}
	})
}

// 幂等：相同输入两次调用，除created_at外逐字段一致
func TestScanSignals_Idempotent(t *testing.T) {
	highs, lows := fixtureBars()
	cfg := fixtureConfig()

	a, err := ScanSignals("XAUUSD", highs, lows, cfg, "M15")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ScanSignals("XAUUSD", highs, lows, cfg, "M15")
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.Symbol != y.Symbol || x.Timeframe != y.Timeframe || x.Direction != y.Direction ||
			x.EntryZone != y.EntryZone || x.StopLoss != y.StopLoss || x.RR != y.RR ||
			x.LiquidityType != y.LiquidityType || x.Confidence != y.Confidence || x.Risk != y.Risk {
			t.Fatalf("signal %d differs:\n%+v\n%+v", i, x, y)
		}
		if len(x.Targets) != len(y.Targets) {
			t.Fatalf("signal %d target count differs", i)
		}
		for j := range x.Targets {
			if x.Targets[j] != y.Targets[j] {
				t.Fatalf("signal %d target %d differs", i, j)
			}
		}
		if (x.Level == nil) != (y.Level == nil) || (x.Level != nil && *x.Level != *y.Level) {
			t.Fatalf("signal %d level differs", i)
		}
	}
}

// 输入数组不能被扫描修改
func TestScanSignals_DoesNotMutateInput(t *testing.T) {
	highs, lows := fixtureBars()
	h2 := append([]float64(nil), highs...)
	l2 := append([]float64(nil), lows...)

	if _, err := ScanSignals("XAUUSD", highs, lows, fixtureConfig(), "M15"); err != nil {
		t.Fatal(err)
	}
	for i := range highs {
		if highs[i] != h2[i] || lows[i] != l2[i] {
			t.Fatal("input arrays were mutated")
		}
	}
}

func TestEngineConfig_Validate(t *testing.T) {
	if err := DefaultEngineConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	cfg := DefaultEngineConfig()
	cfg.Tolerance = -1
	cfg.MinPoints = 0
	cfg.Timeframe = "M2"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected aggregated config errors")
	}
}
