package delivery

import (
	"context"
	"fmt"
	"strings"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/rushteam/vidrec/core"
)

// KafkaConfig Kafka 投递配置
type KafkaConfig struct {
	Brokers     []string // Broker 地址列表
	Topic       string   // 队列名，默认 recommend_queue
	ClientID    string   // 客户端 ID
	Compression string   // gzip, snappy, lz4, zstd；空表示不压缩
	MaxRetries  int      // 最大重试次数
}

// KafkaPublisher 同步投递到 Kafka：等待所有 ISR 确认后才返回。
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

// NewKafkaPublisher 创建 Kafka publisher。
func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, core.NewDomainError(core.ModuleDelivery, core.ErrorCodeInvalidInput,
			"delivery: kafka brokers required")
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "vidrec"
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.DefaultProduceTopic(cfg.Topic),
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, kgo.RecordRetries(cfg.MaxRetries))
	}
	switch strings.ToLower(cfg.Compression) {
	case "":
	case "gzip":
		opts = append(opts, kgo.ProducerBatchCompression(kgo.GzipCompression()))
	case "snappy":
		opts = append(opts, kgo.ProducerBatchCompression(kgo.SnappyCompression()))
	case "lz4":
		opts = append(opts, kgo.ProducerBatchCompression(kgo.Lz4Compression()))
	case "zstd":
		opts = append(opts, kgo.ProducerBatchCompression(kgo.ZstdCompression()))
	default:
		return nil, core.NewDomainError(core.ModuleDelivery, core.ErrorCodeNotSupported,
			fmt.Sprintf("delivery: unsupported compression %q", cfg.Compression))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleDelivery, core.ErrorCodeUnavailable,
			"delivery: create kafka client", err)
	}
	return &KafkaPublisher{client: client, topic: cfg.Topic}, nil
}

func (p *KafkaPublisher) Name() string { return "kafka" }

func (p *KafkaPublisher) Publish(ctx context.Context, userID int64, videos []core.Video) error {
	data, err := Encode(videos)
	if err != nil {
		return err
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(Key(userID)),
		Value: data,
	}
	return publishError(p.Name(), p.client.ProduceSync(ctx, record).FirstErr())
}

func (p *KafkaPublisher) Close() error {
	p.client.Close()
	return nil
}

var _ Publisher = (*KafkaPublisher)(nil)
