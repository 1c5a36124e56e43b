package entity

import (
	"time"
)

// Signal 扫描产出信号的落库结构
// 一次扫描写入一批，同 symbol+周期 的旧活跃信号在同一事务里置为 EXPIRED
type Signal struct {
	ID uint64 `gorm:"primaryKey"`

	SetupID   string `gorm:"column:setup_id;type:varchar(40);not null;uniqueIndex:uk_setup_id"` // 去重/追踪id
	Symbol    string `gorm:"type:varchar(30);not null;index:idx_symbol_status"`
	Timeframe string `gorm:"column:timeframe;type:varchar(10);not null"`
	Direction string `gorm:"type:varchar(10);not null"`                         // BUY/SELL
	Status    string `gorm:"type:varchar(10);not null;index:idx_symbol_status"` // ACTIVE/EXPIRED

	EntryLow  float64 `gorm:"column:entry_low;type:decimal(15,8);not null"`
	EntryHigh float64 `gorm:"column:entry_high;type:decimal(15,8);not null"`
	StopLoss  float64 `gorm:"column:stop_loss;type:decimal(15,8);not null"`
	Target    float64 `gorm:"column:target;type:decimal(15,8);not null"` // 当前只产出单目标

	RR            float64 `gorm:"column:rr;type:decimal(10,4);not null"`
	LiquidityType string  `gorm:"column:liquidity_type;type:varchar(16);not null"` // EQH→EQL / EQL→EQH
	Confidence    int     `gorm:"column:confidence;not null"`
	Risk          string  `gorm:"column:risk;type:varchar(10);not null"`
	Level         float64 `gorm:"column:level;type:decimal(15,8)"` // 流动性价位

	// 可读的解释文本（波动率标注等），仅展示用
	Explanation string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;not null;index:idx_created_at"`
}

func (Signal) TableName() string {
	return "signals"
}
