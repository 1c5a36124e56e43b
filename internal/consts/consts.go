package consts

import "time"

const (
	// RequestId 请求id名称
	RequestId = "request_id"

	// 最近一次扫描结果的缓存前缀，后面拼 symbol:timeframe
	ScanResultPrefix = "Signal_Scan_Latest:"

	// 默认redis过期时间
	RedisExrDefault = time.Hour * 24

	DateLayout   = "2006-01-02"
	TimeLayout   = "2006-01-02 15:04:05"
	TimeLayoutMs = "2006-01-02 15:04:05.000"
)

const (
	// kafka 信号广播topic
	TopicSignalScan = "signals_scan"
	// alert gateway 消费组
	SignalGatewayGroup = "liqflow_signal_gateway_group"
)

// 信号状态
const (
	SignalStatusActive  = "ACTIVE"
	SignalStatusExpired = "EXPIRED"
)
