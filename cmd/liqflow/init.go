package api

import (
	"gorm.io/gorm"

	"liqflow/conf"
	"liqflow/internal/dao/query"
	"liqflow/internal/feed"
	"liqflow/internal/handler/alert"
	"liqflow/internal/handler/signal"
	"liqflow/internal/router"
	"liqflow/internal/service"
	"liqflow/pkg/kafka"
	"liqflow/pkg/logger"
)

// InitRouter 组装依赖：dao -> feed -> service -> handler -> router
func InitRouter(db *gorm.DB, producer kafka.ProducerService, consumer kafka.ConsumerService) Router {
	appCfg := conf.AppConfig

	signalDao := query.NewSignalDao(db)

	marketFeed, err := feed.NewFeed(appCfg.Feed)
	if err != nil {
		logger.Fatalf("init market feed failed: %v", err)
	}

	scanner := service.NewScannerService(signalDao, marketFeed, producer)

	signalHandler := signal.NewSignalHandler(scanner)
	signalGateway := alert.NewSignalGateway(consumer)

	return router.NewApiRouter(signalHandler, signalGateway)
}
