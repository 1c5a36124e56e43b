package main

import (
	"fmt"
	"log"
	"os"

	api "liqflow/cmd/liqflow"
	"liqflow/conf"
	"liqflow/internal/middleware"
	"liqflow/pkg/cache"
	"liqflow/pkg/db"
	"liqflow/pkg/kafka"
	"liqflow/pkg/logger"
)

// 启动流动性扫描服务

/*
测试

curl -X POST http://localhost:12190/api/v1/signal/scan \
  -H "Content-Type: application/json" \
  -d '{"symbol":"XAUUSD","timeframe":"M15","dry_run":true,
       "highs":[10,12,11,12.1,11.2,12.05,11.0,13,12.9],
       "lows":[9,8,9,8.1,9.1,8.05,9.2,9,9.1],
       "overrides":{"min_bars_between":1,"entry_buffer":0.05,"sl_buffer":0.2,"min_target":0.3,"min_rr":1.0}}'

curl "http://localhost:12190/api/v1/signal/list?symbol=XAUUSD"
*/

func main() {

	// 加载配置文件
	err := conf.LoadConfig("conf/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	appCfg := conf.AppConfig
	logger.InitLogger(&appCfg.Log, appCfg.AppName)

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")
	if dbUser == "" || dbPass == "" || dbHost == "" {
		dbUser = conf.AppConfig.Username
		dbPass = conf.AppConfig.Db.Password
		dbHost = conf.AppConfig.Host
		dbPort = conf.AppConfig.Port
		dbName = conf.AppConfig.DbName
	}

	// 初始化数据库
	datasource := db.Init(db.Config{
		User:      dbUser,
		Password:  dbPass,
		Host:      dbHost,
		Port:      dbPort,
		DBName:    dbName,
		ParseTime: true,
	})

	redisHost := os.Getenv("REDIS_HOST")
	redisPort := os.Getenv("REDIS_PORT")
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisAddr := fmt.Sprintf("%s:%s", redisHost, redisPort)
	if redisHost == "" || redisPort == "" {
		redisAddr = conf.AppConfig.Redis.Addr
	}
	if redisPassword != "" {
		appCfg.Redis.Password = redisPassword
	}
	appCfg.Redis.Addr = redisAddr

	// 初始化redis缓存
	cache.InitRedis(appCfg.Redis)

	// kafka：扫描广播的生产者和alert gateway的消费者
	producer := kafka.NewKafkaProducer(appCfg.Kafka.Broker)
	consumer := kafka.NewKafkaConsumer(appCfg.Kafka.Broker)

	// 创建并启动服务
	srv := api.NewServer(&appCfg)
	srv.RegisterOnShutdown(func() {
		if datasource != nil {
			// 关闭主库链接
			m, err := datasource.DB()
			if err == nil {
				_ = m.Close()
			}
		}

		producer.Close()
		consumer.Close()
		cache.CloseRedis()
	})
	srvRouter := api.InitRouter(datasource, producer, consumer)

	srv.Run(middleware.NewMiddleware(), srvRouter)
}
