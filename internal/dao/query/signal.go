package query

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"liqflow/internal/consts"
	"liqflow/internal/dao"
	"liqflow/internal/model/entity"
)

type signalDao struct {
	db *gorm.DB
}

func NewSignalDao(db *gorm.DB) dao.SignalDao {
	return &signalDao{
		db: db,
	}
}

// SaveScan 事务性地落一批扫描信号。
// **设计原则：Deadlock 错误应由调用方（Service Layer）自动重试。**
// DAO 内部保证了最优的锁顺序 (SELECT FOR UPDATE -> INSERT -> UPDATE)。
func (r *signalDao) SaveScan(ctx context.Context, symbol, timeframe string, signals []*entity.Signal) error {
	if len(signals) == 0 {
		// 空扫描也要把旧信号过期掉，市场结构变了旧价位就不再有效
		return r.db.WithContext(ctx).Model(&entity.Signal{}).
			Where("symbol = ? AND timeframe = ? AND status = ?", symbol, timeframe, consts.SignalStatusActive).
			Update("status", consts.SignalStatusExpired).Error
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// 先用 SELECT FOR UPDATE 锁定同 symbol+周期 的旧活跃信号，防止并发扫描死锁
		if err := tx.Model(&entity.Signal{}).
			Where("symbol = ? AND timeframe = ? AND status = ?", symbol, timeframe, consts.SignalStatusActive).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Find(&[]entity.Signal{}).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to acquire locks on old signals: %w", err)
		}

		for _, s := range signals {
			s.ID = 0
			s.Status = consts.SignalStatusActive
		}
		if result := tx.Create(signals); result.Error != nil {
			return fmt.Errorf("failed to create signals: %w", result.Error)
		}

		// 新批次以外的旧信号全部过期，保证一个 symbol+周期 只有最近一次扫描是活跃的
		newIds := make([]uint64, 0, len(signals))
		for _, s := range signals {
			newIds = append(newIds, s.ID)
		}
		if result := tx.Model(&entity.Signal{}).
			Where("symbol = ? AND timeframe = ? AND status = ? AND id NOT IN ?",
				symbol, timeframe, consts.SignalStatusActive, newIds).
			Update("status", consts.SignalStatusExpired); result.Error != nil {
			return fmt.Errorf("failed to expire old signals: %w", result.Error)
		}

		return nil
	})
}

// GetActiveSignals 获取指定交易对的活跃信号列表 (用于信号列表页)。
func (r *signalDao) GetActiveSignals(ctx context.Context, symbol string, limit int) ([]entity.Signal, error) {
	var signals []entity.Signal

	result := r.db.WithContext(ctx).
		Where("symbol = ? AND status = ?", symbol, consts.SignalStatusActive).
		Order("rr DESC, created_at DESC").
		Limit(limit).
		Find(&signals)

	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get active signals: %w", result.Error)
	}

	return signals, nil
}

func (r *signalDao) GetSignalByID(ctx context.Context, id uint64) (*entity.Signal, error) {
	var signal entity.Signal
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&signal)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil // 记录未找到，返回 nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get signal detail: %w", result.Error)
	}

	return &signal, nil
}

func (r *signalDao) GetAllActiveSignalList(ctx context.Context) ([]entity.Signal, error) {
	var signals []entity.Signal
	err := r.db.WithContext(ctx).
		Where("status = ?", consts.SignalStatusActive).
		Order("symbol, rr DESC").
		Find(&signals).Error
	return signals, err
}
