package model

import (
	"fmt"
	"liqflow/pkg/utils"
	"strings"
	"time"

	valid "github.com/go-playground/validator/v10"
)

// 信号输出模型
// 引擎产出、API响应、信号推送、落库共用同一个契约
// v1只做客观的流动性信号

type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

type RiskLabel string

const (
	RiskLow    RiskLabel = "LOW"
	RiskMedium RiskLabel = "MEDIUM"
	RiskHigh   RiskLabel = "HIGH"
)

// LiquidityType 流动性路径，沿用原始的箭头写法作为wire值
type LiquidityType string

const (
	LiquidityEqhToEql LiquidityType = "EQH→EQL"
	LiquidityEqlToEqh LiquidityType = "EQL→EQH"
)

// 支持的信号周期
var timeframes = map[string]struct{}{
	"M5": {}, "M15": {}, "M30": {}, "H1": {}, "H4": {}, "D1": {},
}

// IsValidTimeframe 判断周期标签是否在支持的集合内
func IsValidTimeframe(tf string) bool {
	_, ok := timeframes[tf]
	return ok
}

// EntryZone 入场区间 [low, high]
type EntryZone struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Mid 入场区间中点，按中点价计算风险和收益
func (z EntryZone) Mid() float64 {
	return (z.Low + z.High) / 2.0
}

// ValidationError 表示构造出的信号违反了跨字段约束
// 经济过滤是正常丢弃，这个是程序缺陷，必须向上抛，不允许吞掉
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "signal validation failed: " + e.Reason
}

type Signal struct {
	// 身份/元信息
	Symbol    string    `json:"symbol" validate:"required"`
	Timeframe string    `json:"timeframe" validate:"required,oneof=M5 M15 M30 H1 H4 D1"`
	Direction Direction `json:"direction" validate:"required,oneof=BUY SELL"`

	// 交易价位
	EntryZone EntryZone `json:"entry_zone"`
	StopLoss  float64   `json:"stop_loss" validate:"required,gt=0"`
	Targets   []float64 `json:"targets" validate:"required,min=1,dive,gt=0"` // tp1, tp2...

	// 分析字段
	RR            float64       `json:"rr" validate:"required,gt=0"` // 盈亏比
	LiquidityType LiquidityType `json:"liquidity_type" validate:"required"`
	Confidence    int           `json:"confidence" validate:"gte=0,lte=100"`
	Risk          RiskLabel     `json:"risk" validate:"required,oneof=LOW MEDIUM HIGH"`

	// 可选的追踪字段
	SetupID string `json:"setup_id,omitempty"` // 去重/追踪用的唯一id
	Session string `json:"session,omitempty"`  // London / NY / Asia / 24/7

	// 可选的调试字段
	Level         *float64 `json:"level,omitempty"` // 流动性价位（EQH/EQL的均值）
	TolerancePips *float64 `json:"tolerance_pips,omitempty" validate:"omitempty,gte=0"`
	MinTargetPips *float64 `json:"min_target_pips,omitempty" validate:"omitempty,gte=0"`

	CreatedAt time.Time `json:"created_at"`
}

var signalValidate = newSignalValidator()

func newSignalValidator() *valid.Validate {
	v := valid.New()
	v.RegisterStructValidation(signalStructLevel, Signal{})
	return v
}

// signalStructLevel 跨字段校验，等价于原始模型的整体校验
// BUY: 止损在区间下方，所有目标在中点上方，流动性路径必须是 EQL→EQH
// SELL: 完全镜像
func signalStructLevel(sl valid.StructLevel) {
	s := sl.Current().Interface().(Signal)

	if s.EntryZone.Low <= 0 || s.EntryZone.High <= 0 {
		sl.ReportError(s.EntryZone, "EntryZone", "entry_zone", "entryzonepositive", "")
	}
	if s.EntryZone.Low >= s.EntryZone.High {
		sl.ReportError(s.EntryZone, "EntryZone", "entry_zone", "entryzoneordered", "")
	}

	mid := s.EntryZone.Mid()
	switch s.Direction {
	case DirectionBuy:
		if !(s.StopLoss < s.EntryZone.Low) {
			sl.ReportError(s.StopLoss, "StopLoss", "stop_loss", "slbelowentry", "")
		}
		for _, t := range s.Targets {
			if !(t > mid) {
				sl.ReportError(s.Targets, "Targets", "targets", "targetsaboveentry", "")
				break
			}
		}
		// 多目标必须沿交易方向递增，防止未来加tp2的时候悄悄倒序
		for i := 1; i < len(s.Targets); i++ {
			if !(s.Targets[i] > s.Targets[i-1]) {
				sl.ReportError(s.Targets, "Targets", "targets", "targetsordered", "")
				break
			}
		}
		if s.LiquidityType != LiquidityEqlToEqh {
			sl.ReportError(s.LiquidityType, "LiquidityType", "liquidity_type", "liquiditymatch", "")
		}
	case DirectionSell:
		if !(s.StopLoss > s.EntryZone.High) {
			sl.ReportError(s.StopLoss, "StopLoss", "stop_loss", "slaboveentry", "")
		}
		for _, t := range s.Targets {
			if !(t < mid) {
				sl.ReportError(s.Targets, "Targets", "targets", "targetsbelowentry", "")
				break
			}
		}
		for i := 1; i < len(s.Targets); i++ {
			if !(s.Targets[i] < s.Targets[i-1]) {
				sl.ReportError(s.Targets, "Targets", "targets", "targetsordered", "")
				break
			}
		}
		if s.LiquidityType != LiquidityEqhToEql {
			sl.ReportError(s.LiquidityType, "LiquidityType", "liquidity_type", "liquiditymatch", "")
		}
	}
}

// NewSignal 规范化并校验后返回不可变的信号值
// symbol去空白转大写，created_at统一成UTC，字段和跨字段约束全部在这里兜住
func NewSignal(s Signal) (Signal, error) {
	s.Symbol = utils.NormalizeSymbol(s.Symbol)
	s.Timeframe = strings.ToUpper(strings.TrimSpace(s.Timeframe))

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	} else {
		s.CreatedAt = s.CreatedAt.UTC()
	}

	if err := signalValidate.Struct(s); err != nil {
		return Signal{}, &ValidationError{Reason: err.Error()}
	}
	return s, nil
}

// Summary 人类可读的一行摘要，推送和日志用
func (s Signal) Summary() string {
	targets := make([]string, 0, len(s.Targets))
	for _, t := range s.Targets {
		targets = append(targets, fmt.Sprintf("%.2f", t))
	}
	return fmt.Sprintf("%s %s %s | Entry %.2f-%.2f | SL %.2f | TP %s | RR %.2f | Conf %d%% | Risk %s",
		s.Symbol, s.Timeframe, s.Direction,
		s.EntryZone.Low, s.EntryZone.High, s.StopLoss,
		strings.Join(targets, ", "), s.RR, s.Confidence, s.Risk)
}
