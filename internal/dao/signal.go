package dao

import (
	"context"

	"liqflow/internal/model/entity"
)

type SignalDao interface {

	// 事务性地落一批扫描信号，并把同 symbol+周期 的旧活跃信号置为 EXPIRED
	SaveScan(ctx context.Context, symbol, timeframe string, signals []*entity.Signal) error
	// 获取指定交易对的活跃信号列表 (用于信号列表页)
	GetActiveSignals(ctx context.Context, symbol string, limit int) ([]entity.Signal, error)
	// 查找特定ID的信号 (用于信号详情页)
	GetSignalByID(ctx context.Context, id uint64) (*entity.Signal, error)
	// 获取全部活跃信号
	GetAllActiveSignalList(ctx context.Context) ([]entity.Signal, error)
}
