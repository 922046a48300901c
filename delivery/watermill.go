package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/rushteam/vidrec/core"
)

// WatermillPublisher 通过 Watermill 的 message.Publisher 投递（NATS / GoChannel 等）。
// 每条消息的 metadata 带 user_id，UUID 同时作为 Nats-Msg-Id 用于去重。
type WatermillPublisher struct {
	name      string
	topic     string
	publisher message.Publisher
}

// NewWatermillPublisher 包装任意 Watermill publisher。
func NewWatermillPublisher(name, topic string, pub message.Publisher) *WatermillPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &WatermillPublisher{name: name, topic: topic, publisher: pub}
}

// NATSConfig 是 NATS 投递配置。
type NATSConfig struct {
	URL   string
	Topic string

	// JetStream 为 true 时走 JetStream 持久化投递，并自动创建 stream
	JetStream bool

	MaxReconnects int
	ReconnectWait time.Duration
}

// NewNATSPublisher 创建 NATS publisher。
func NewNATSPublisher(cfg NATSConfig, logger zerolog.Logger) (*WatermillPublisher, error) {
	if cfg.MaxReconnects == 0 {
		cfg.MaxReconnects = 10
	}
	if cfg.ReconnectWait <= 0 {
		cfg.ReconnectWait = 2 * time.Second
	}
	wl := NewWatermillLogger(logger)

	natsOpts := []natsgo.Option{
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				wl.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			wl.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      !cfg.JetStream,
			AutoProvision: cfg.JetStream,
			TrackMsgId:    cfg.JetStream,
		},
	}
	pub, err := wmNats.NewPublisher(wmConfig, wl)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleDelivery, core.ErrorCodeUnavailable,
			fmt.Sprintf("delivery: connect nats %s", cfg.URL), err)
	}
	return NewWatermillPublisher("nats", cfg.Topic, pub), nil
}

// NewGoChannelPublisher 创建进程内 GoChannel pub/sub，返回的 GoChannel 可用于订阅。
// 只适合在同一进程内消费结果的调用方，命令行不提供该投递方式。
func NewGoChannelPublisher(topic string, logger zerolog.Logger) (*WatermillPublisher, *gochannel.GoChannel) {
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
		Persistent:          true,
	}, NewWatermillLogger(logger))
	return NewWatermillPublisher("gochannel", topic, ch), ch
}

func (p *WatermillPublisher) Name() string { return p.name }

// Topic 返回投递主题。
func (p *WatermillPublisher) Topic() string { return p.topic }

func (p *WatermillPublisher) Publish(ctx context.Context, userID int64, videos []core.Video) error {
	data, err := Encode(videos)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	msg.Metadata.Set("user_id", Key(userID))
	msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)

	return publishError(p.name, p.publisher.Publish(p.topic, msg))
}

func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}

var _ Publisher = (*WatermillPublisher)(nil)

// watermillLogger 把 Watermill 日志接到 zerolog。
type watermillLogger struct {
	logger zerolog.Logger
}

// NewWatermillLogger 返回基于 zerolog 的 watermill.LoggerAdapter。
func NewWatermillLogger(logger zerolog.Logger) watermill.LoggerAdapter {
	return &watermillLogger{logger: logger.With().Str("component", "watermill").Logger()}
}

func (l *watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.logger.Error().Err(err).Fields(map[string]any(fields)).Msg(msg)
}

func (l *watermillLogger) Info(msg string, fields watermill.LogFields) {
	l.logger.Info().Fields(map[string]any(fields)).Msg(msg)
}

func (l *watermillLogger) Debug(msg string, fields watermill.LogFields) {
	l.logger.Debug().Fields(map[string]any(fields)).Msg(msg)
}

func (l *watermillLogger) Trace(msg string, fields watermill.LogFields) {
	l.logger.Trace().Fields(map[string]any(fields)).Msg(msg)
}

func (l *watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLogger{logger: l.logger.With().Fields(map[string]any(fields)).Logger()}
}
