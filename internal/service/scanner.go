package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"liqflow/conf"
	"liqflow/internal/consts"
	"liqflow/internal/dao"
	"liqflow/internal/feed"
	"liqflow/internal/liquidity"
	"liqflow/internal/model"
	"liqflow/internal/model/entity"
	"liqflow/pkg/cache"
	"liqflow/pkg/errors"
	"liqflow/pkg/errors/ecode"
	"liqflow/pkg/kafka"
	"liqflow/pkg/logger"
	"liqflow/pkg/utils"
	"liqflow/utils/uuid"
)

// 扫描服务：组装引擎参数 -> 取行情 -> 跑引擎 -> 标注 -> 落库/缓存/广播

const defaultScanBars = 300

type ScannerService struct {
	signalDao dao.SignalDao
	feed      feed.Feed
	producer  kafka.ProducerService
	idNode    *uuid.SnowNode
}

func NewScannerService(signalDao dao.SignalDao, marketFeed feed.Feed, producer kafka.ProducerService) *ScannerService {
	return &ScannerService{
		signalDao: signalDao,
		feed:      marketFeed,
		producer:  producer,
		idNode:    uuid.NewNode(1),
	}
}

// resolveEngineConfig 把配置文件的默认参数和单次请求的覆盖叠到内置默认值上
func resolveEngineConfig(base conf.EngineConfig, ov *model.EngineOverrides) liquidity.EngineConfig {
	cfg := liquidity.DefaultEngineConfig()

	if base.Tolerance > 0 {
		cfg.Tolerance = base.Tolerance
	}
	if base.MinBarsBetween > 0 {
		cfg.MinBarsBetween = base.MinBarsBetween
	}
	if base.MinPoints > 0 {
		cfg.MinPoints = base.MinPoints
	}
	if base.EntryBuffer > 0 {
		cfg.EntryBuffer = base.EntryBuffer
	}
	if base.SlBuffer > 0 {
		cfg.SlBuffer = base.SlBuffer
	}
	if base.MinTarget > 0 {
		cfg.MinTarget = base.MinTarget
	}
	if base.MinRR > 0 {
		cfg.MinRR = base.MinRR
	}
	if base.Timeframe != "" {
		cfg.Timeframe = base.Timeframe
	}
	if base.RiskLabel != "" {
		cfg.RiskLabel = model.RiskLabel(base.RiskLabel)
	}
	if base.ConfidenceDefault > 0 {
		cfg.ConfidenceDefault = base.ConfidenceDefault
	}

	if ov != nil {
		if ov.Tolerance != nil {
			cfg.Tolerance = *ov.Tolerance
		}
		if ov.MinBarsBetween != nil {
			cfg.MinBarsBetween = *ov.MinBarsBetween
		}
		if ov.MinPoints != nil {
			cfg.MinPoints = *ov.MinPoints
		}
		if ov.EntryBuffer != nil {
			cfg.EntryBuffer = *ov.EntryBuffer
		}
		if ov.SlBuffer != nil {
			cfg.SlBuffer = *ov.SlBuffer
		}
		if ov.MinTarget != nil {
			cfg.MinTarget = *ov.MinTarget
		}
		if ov.MinRR != nil {
			cfg.MinRR = *ov.MinRR
		}
	}
	return cfg
}

// sessionLabel 按UTC小时给信号打交易时段标签
func sessionLabel(t time.Time) string {
	switch h := t.UTC().Hour(); {
	case h >= 7 && h < 13:
		return "London"
	case h >= 13 && h < 21:
		return "NY"
	default:
		return "Asia"
	}
}

// Scan 执行一次流动性扫描。
// 请求可以内联highs/lows（研究回放），否则从行情数据源拉取。
// DryRun时只返回结果，不落库、不缓存、不广播。
func (s *ScannerService) Scan(ctx context.Context, req model.ScanReq) (*model.ScanRes, error) {
	cfg := resolveEngineConfig(conf.AppConfig.Engine, req.Overrides)
	timeframe := req.Timeframe
	if timeframe == "" {
		timeframe = cfg.Timeframe
	}

	var highs, lows []float64
	var klines []model.Kline

	if len(req.Highs) > 0 || len(req.Lows) > 0 {
		highs, lows = req.Highs, req.Lows
	} else {
		bars := req.Bars
		if bars == 0 {
			bars = conf.AppConfig.Feed.Bars
		}
		if bars == 0 {
			bars = defaultScanBars
		}
		var err error
		klines, err = s.feed.Candles(ctx, req.Symbol, timeframe, bars)
		if err != nil {
			return nil, errors.Wrap(err, ecode.UpstreamErr, "fetch candles failed")
		}
		highs, lows = model.SplitHighsLows(klines)
	}

	signals, err := liquidity.ScanSignals(req.Symbol, highs, lows, cfg, timeframe)
	if err != nil {
		return nil, wrapScanErr(err)
	}

	// ATR标注只在拿到完整k线时做，内联数组没有close
	// 标注只进解释文本，信号本身的risk标签始终是配置值
	explanation := ""
	if len(klines) > 0 {
		var volRisk model.RiskLabel
		volRisk, explanation = VolatilityAnnotation(klines, cfg.RiskLabel)
		if explanation != "" {
			explanation = fmt.Sprintf("volatility %s, %s", volRisk, explanation)
		}
	}

	now := time.Now().UTC()
	for i := range signals {
		signals[i].SetupID = strconv.FormatInt(s.idNode.GenSnowId(), 10)
		signals[i].Session = sessionLabel(now)
	}

	res := &model.ScanRes{
		Symbol:    utils.NormalizeSymbol(req.Symbol),
		Timeframe: timeframe,
		Count:     len(signals),
		Signals:   signals,
	}

	if req.DryRun {
		return res, nil
	}

	if err := s.persistScan(ctx, res, explanation); err != nil {
		return nil, err
	}
	s.cacheScan(ctx, res)
	s.broadcastScan(ctx, res)

	return res, nil
}

// wrapScanErr 把引擎错误翻译成带业务码的error
// 参数/输入问题是调用方的错，校验失败是程序缺陷
func wrapScanErr(err error) error {
	var ce *liquidity.ConfigError
	var ie *liquidity.InputError
	if stderrors.As(err, &ce) || stderrors.As(err, &ie) {
		return errors.Wrap(err, ecode.ValidateErr, "scan rejected")
	}
	var ve *model.ValidationError
	if stderrors.As(err, &ve) {
		return errors.Wrap(err, ecode.InternalErr, "signal construction bug")
	}
	return errors.Wrap(err, ecode.Unknown, "scan failed")
}

// persistScan 落库，死锁由这里重试，锁顺序在dao层保证
func (s *ScannerService) persistScan(ctx context.Context, res *model.ScanRes, explanation string) error {
	entities := make([]*entity.Signal, 0, len(res.Signals))
	for _, sig := range res.Signals {
		entities = append(entities, signalToEntity(sig, explanation))
	}

	err := utils.Retry(3, 100*time.Millisecond, true, func() error {
		return s.signalDao.SaveScan(ctx, res.Symbol, res.Timeframe, entities)
	})
	if err != nil {
		return errors.Wrap(err, ecode.InternalErr, "save scan failed")
	}
	return nil
}

// cacheScan 缓存最近一次扫描结果，读接口可以直接命中
// 缓存失败只记日志，不影响扫描结果返回
func (s *ScannerService) cacheScan(ctx context.Context, res *model.ScanRes) {
	payload, err := json.Marshal(res)
	if err != nil {
		logger.Errorf("marshal scan result failed: %v", err)
		return
	}
	key := consts.ScanResultPrefix + res.Symbol + ":" + res.Timeframe
	if err := cache.GetRedisClient().Set(ctx, key, payload, consts.RedisExrDefault).Err(); err != nil {
		logger.Errorf("cache scan result failed: %v", err)
	}
}

// broadcastScan 把每个信号推到kafka，alert gateway消费后推给websocket客户端
func (s *ScannerService) broadcastScan(ctx context.Context, res *model.ScanRes) {
	if s.producer == nil {
		return
	}
	for _, sig := range res.Signals {
		if err := s.producer.Produce(ctx, consts.TopicSignalScan, []byte(sig.Symbol), sig); err != nil {
			logger.Errorf("broadcast signal %s failed: %v", sig.SetupID, err)
		}
	}
}

func signalToEntity(s model.Signal, explanation string) *entity.Signal {
	e := &entity.Signal{
		SetupID:       s.SetupID,
		Symbol:        s.Symbol,
		Timeframe:     s.Timeframe,
		Direction:     string(s.Direction),
		Status:        consts.SignalStatusActive,
		EntryLow:      s.EntryZone.Low,
		EntryHigh:     s.EntryZone.High,
		StopLoss:      s.StopLoss,
		Target:        s.Targets[0],
		RR:            s.RR,
		LiquidityType: string(s.LiquidityType),
		Confidence:    s.Confidence,
		Risk:          string(s.Risk),
		Explanation:   explanation,
		CreatedAt:     s.CreatedAt,
	}
	if s.Level != nil {
		e.Level = *s.Level
	}
	return e
}

// SignalGetList 活跃信号列表，symbol为空时返回全部
func (s *ScannerService) SignalGetList(ctx context.Context, req model.ActiveSignalsReq) ([]entity.Signal, error) {
	if req.Symbol == "" {
		list, err := s.signalDao.GetAllActiveSignalList(ctx)
		if err != nil {
			return nil, errors.Wrap(err, ecode.InternalErr, "query signals failed")
		}
		return list, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	list, err := s.signalDao.GetActiveSignals(ctx, utils.NormalizeSymbol(req.Symbol), limit)
	if err != nil {
		return nil, errors.Wrap(err, ecode.InternalErr, "query signals failed")
	}
	return list, nil
}

// SignalGetDetail 按id查单个信号
func (s *ScannerService) SignalGetDetail(ctx context.Context, id uint64) (*entity.Signal, error) {
	sig, err := s.signalDao.GetSignalByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, ecode.InternalErr, "query signal failed")
	}
	if sig == nil {
		return nil, errors.WithCode(ecode.NotFoundErr, "signal %d not found", id)
	}
	return sig, nil
}
