package service

import (
	"fmt"

	"github.com/markcheno/go-talib"

	"liqflow/internal/model"
)

// 波动率标注
// ATR只用来给信号打风险标签和生成解释文本，不参与价位计算

const atrPeriod = 14

// VolatilityAnnotation 基于ATR(14)相对价格的占比给出风险标签和一行解释。
// k线不足以计算ATR时返回传入的默认标签和空解释。
func VolatilityAnnotation(klines []model.Kline, fallback model.RiskLabel) (model.RiskLabel, string) {
	if len(klines) <= atrPeriod {
		return fallback, ""
	}

	highs := make([]float64, len(klines))
	lows := make([]float64, len(klines))
	closes := make([]float64, len(klines))
	for i, k := range klines {
		highs[i] = k.High
		lows[i] = k.Low
		closes[i] = k.Close
	}

	atr := talib.Atr(highs, lows, closes, atrPeriod)
	last := atr[len(atr)-1]
	price := closes[len(closes)-1]
	if last <= 0 || price <= 0 {
		return fallback, ""
	}

	ratio := last / price * 100

	var risk model.RiskLabel
	switch {
	case ratio < 0.5:
		risk = model.RiskLow
	case ratio < 1.5:
		risk = model.RiskMedium
	default:
		risk = model.RiskHigh
	}

	return risk, fmt.Sprintf("ATR(%d)=%.4f, %.2f%% of price", atrPeriod, last, ratio)
}
