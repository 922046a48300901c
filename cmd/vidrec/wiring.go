package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/rushteam/vidrec/config"
	_ "github.com/rushteam/vidrec/config/builders"
	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/delivery"
	"github.com/rushteam/vidrec/engine"
	"github.com/rushteam/vidrec/logging"
	"github.com/rushteam/vidrec/pipeline"
	"github.com/rushteam/vidrec/pkg/tracing"
	"github.com/rushteam/vidrec/store"
)

// app 是一次进程运行需要的全部协作者。
type app struct {
	logger    zerolog.Logger
	engine    *engine.Engine
	publisher delivery.Publisher
	tracing   *tracing.Provider

	// kv 仅在 source.kind=redis 时非空
	kv core.Store

	closers []io.Closer
}

func newApp(ctx context.Context, cfg *config.AppConfig, withPublisher bool) (a *app, err error) {
	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a = &app{logger: logger, closers: []io.Closer{logCloser}}
	defer func() {
		if err != nil {
			a.Close(ctx)
		}
	}()

	if a.tracing, err = tracing.NewProvider(ctx, cfg.Tracing); err != nil {
		return a, err
	}

	src, err := a.openSource(ctx, cfg)
	if err != nil {
		return a, err
	}

	if withPublisher {
		if a.publisher, err = openPublisher(cfg.Delivery, logger); err != nil {
			return a, err
		}
		if a.publisher != nil {
			a.closers = append(a.closers, a.publisher)
		}
	}

	p, err := buildPipeline(cfg, src, a.kv, logger)
	if err != nil {
		return a, err
	}
	a.engine = engine.New(p, a.publisher, logger)

	logger.Debug().
		Str("source", cfg.Source.Kind).
		Str("delivery", cfg.Delivery.Kind).
		Str("pipeline", p.Name).
		Int("nodes", len(p.Nodes)).
		Msg("vidrec initialized")
	return a, nil
}

func (a *app) openSource(ctx context.Context, cfg *config.AppConfig) (core.DataSource, error) {
	var src core.DataSource
	switch cfg.Source.Kind {
	case "sql":
		s, err := store.OpenSQL(ctx, cfg.Source.Driver, cfg.Source.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		src = s
	case "redis":
		rs, err := store.NewRedisStore(ctx, store.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rs)
		a.kv = rs
		src = store.NewKVSource(rs, cfg.Redis.KeyPrefix)
	default:
		return nil, fmt.Errorf("unsupported source kind %q", cfg.Source.Kind)
	}
	return store.WithTimeout(src, cfg.Source.Timeout), nil
}

// openPublisher 按 delivery.kind 创建投递端；none 返回 nil。
func openPublisher(cfg config.DeliveryConfig, logger zerolog.Logger) (delivery.Publisher, error) {
	var (
		pub delivery.Publisher
		err error
	)
	switch cfg.Kind {
	case "none":
		return nil, nil
	case "stdout":
		return delivery.NewWriterPublisher(os.Stdout), nil
	case "kafka":
		pub, err = delivery.NewKafkaPublisher(delivery.KafkaConfig{Brokers: cfg.Brokers, Topic: cfg.Topic})
	case "nats":
		pub, err = delivery.NewNATSPublisher(delivery.NATSConfig{
			URL:       cfg.NATSURL,
			Topic:     cfg.Topic,
			JetStream: cfg.JetStream,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported delivery kind %q", cfg.Kind)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Breaker.MaxFailures > 0 {
		pub = delivery.NewBreakerPublisher(pub, delivery.BreakerConfig{
			MaxFailures: cfg.Breaker.MaxFailures,
			OpenTimeout: cfg.Breaker.OpenTimeout,
		}, logger)
	}
	return delivery.WithTimeout(pub, cfg.Timeout), nil
}

func buildPipeline(cfg *config.AppConfig, src core.DataSource, kv core.Store, logger zerolog.Logger) (*pipeline.Pipeline, error) {
	deps := &pipeline.Dependencies{
		Catalog:      src,
		Behaviors:    src,
		WatchHistory: src,
		Logger:       logger,
		Store:        kv,
		Rank:         &cfg.Rank,
	}
	if cfg.Pipeline.File == "" {
		return config.DefaultPipeline(deps), nil
	}

	pc, err := pipeline.Load(cfg.Pipeline.File)
	if err != nil {
		return nil, fmt.Errorf("load pipeline %s: %w", cfg.Pipeline.File, err)
	}
	if err := config.ValidatePipelineConfig(pc); err != nil {
		return nil, err
	}
	return pc.BuildPipeline(config.DefaultFactory(), deps)
}

// Close 逆序关闭所有资源并刷新 span。
func (a *app) Close(ctx context.Context) {
	if a.tracing != nil {
		if err := a.tracing.Shutdown(ctx); err != nil {
			a.logger.Warn().Err(err).Msg("tracing shutdown")
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn().Err(err).Msg("close resource")
		}
	}
}
