package conf

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
)

// 配置加载（数据源、引擎默认参数等）

type Db struct {
	DbName   string `yaml:"dbname"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	FileName   string `yaml:"file-name"`
	TimeFormat string `yaml:"time-format"`
	MaxSize    int    `yaml:"max-size"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAge     int    `yaml:"max-age"`
	Compress   bool   `yaml:"compress"`
	LocalTime  bool   `yaml:"local-time"`
	Console    bool   `yaml:"console"`
}

// RedisConfig is used to configure redis
type RedisConfig struct {
	Addr         string `yaml:"address"`
	Password     string `yaml:"password"`
	Db           int    `yaml:"db"`
	PoolSize     int    `yaml:"pool-size"`
	MinIdleConns int    `yaml:"min-idle-conns"`
	IdleTimeout  int    `yaml:"idle-timeout"`
}

type KafkaConfig struct {
	Broker string `yaml:"broker"`
}

// FeedConfig 行情数据源配置
// provider: okx 使用公开REST接口拉取k线；csv 从本地导出文件读取（研究回放用）
type FeedConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base-url"`
	CsvDir   string `yaml:"csv-dir"`
	Bars     int    `yaml:"bars"` // 每次扫描拉取的k线数量
}

// EngineConfig 流动性扫描引擎的默认参数，接口请求可以覆盖
type EngineConfig struct {
	Tolerance         float64 `yaml:"tolerance"`           // 等高/等低聚类容差（价格单位）
	MinBarsBetween    int     `yaml:"min-bars-between"`    // 聚类内两个摆动点的最小k线间隔
	MinPoints         int     `yaml:"min-points"`          // 聚类成立的最少摆动点数
	EntryBuffer       float64 `yaml:"entry-buffer"`        // 入场区间半宽
	SlBuffer          float64 `yaml:"sl-buffer"`           // 止损缓冲
	MinTarget         float64 `yaml:"min-target"`          // 最小目标距离
	MinRR             float64 `yaml:"min-rr"`              // 最小盈亏比
	Timeframe         string  `yaml:"timeframe"`           // 默认周期
	RiskLabel         string  `yaml:"risk-label"`          // LOW/MEDIUM/HIGH
	ConfidenceDefault int     `yaml:"confidence-default"`  // 信号默认置信度 0~100
}

type Config struct {
	AppName      string `yaml:"app_name"`
	Listen       string `yaml:"listen"`
	Mode         string `yaml:"mode"`
	Language     string `yaml:"language"`
	MaxPingCount int    `yaml:"max-ping-count"`

	Symbols []string `yaml:"symbols"`

	Db     `yaml:"database"`
	Log    LogConfig    `yaml:"log"`
	Redis  RedisConfig  `yaml:"redis"`
	Kafka  KafkaConfig  `yaml:"kafka"`
	Feed   FeedConfig   `yaml:"feed"`
	Engine EngineConfig `yaml:"engine"`
}

var AppConfig Config

func LoadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("Read config file error %w", err)
	}
	if err := yaml.Unmarshal(data, &AppConfig); err != nil {
		return fmt.Errorf("Unmarshal config yaml error: %w", err)
	}
	return nil
}
