package kafka

import (
	"context"
	"errors"
	"liqflow/internal/consts"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
)

// Kafka 生产者服务
// 定义接口，方便测试和替换
type ProducerService interface {
	Produce(ctx context.Context, topic string, key []byte, msg interface{}) error
	Close()
}

type kafkaProducer struct {
	signalWriter *kafka.Writer // 扫描产出的信号广播
}

func NewKafkaProducer(brokerURL string) ProducerService {
	signalWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokerURL),
		Topic:    consts.TopicSignalScan,
		Balancer: &kafka.LeastBytes{}, // 保证写入负载均衡
	}

	return &kafkaProducer{
		signalWriter: signalWriter,
	}
}

// Produce 序列化消息为JSON并写入 Kafka
// key 使用 symbol，确保同一品种的信号进入同一个 Partition（有序性）
func (p *kafkaProducer) Produce(ctx context.Context, topic string, key []byte, msg interface{}) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	var writer *kafka.Writer
	switch topic {
	case consts.TopicSignalScan:
		writer = p.signalWriter
	default:
		return errors.New("invalid kafka topic")
	}

	return writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: payload,
	})
}

func (p *kafkaProducer) Close() {
	if p.signalWriter != nil {
		_ = p.signalWriter.Close()
	}
}
