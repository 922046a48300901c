// Package engine 是排序服务的入口：校验请求、执行 Pipeline、记录日志与指标，
// 可选地把结果交给 delivery.Publisher。
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/delivery"
	"github.com/rushteam/vidrec/metrics"
	"github.com/rushteam/vidrec/pipeline"
	"github.com/rushteam/vidrec/pkg/tracing"
)

// Engine 持有一条构建好的 Pipeline。并发安全：每次请求都有独立的 RecommendContext。
type Engine struct {
	Pipeline *pipeline.Pipeline

	// Publisher 为空时 Deliver 只返回结果不投递
	Publisher delivery.Publisher

	Logger zerolog.Logger
}

func New(p *pipeline.Pipeline, pub delivery.Publisher, logger zerolog.Logger) *Engine {
	return &Engine{Pipeline: p, Publisher: pub, Logger: logger}
}

// Recommend 为 req.UserID 计算排序结果，最多 req.TopN 条，不含已观看物品。
func (e *Engine) Recommend(ctx context.Context, req core.RankRequest) (videos []core.Video, err error) {
	start := time.Now()
	logger := e.logger(ctx)

	ctx, span := tracing.Tracer().Start(ctx, "vidrec.Recommend")
	span.SetAttributes(
		attribute.Int64("vidrec.user_id", req.UserID),
		attribute.Int("vidrec.top_n", req.TopN),
	)
	defer func() {
		status := "ok"
		if err != nil {
			status = statusOf(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		metrics.RecordRank(status, time.Since(start), len(videos))

		ev := logger.Info()
		if err != nil {
			ev = logger.Warn().Err(err)
		}
		ev.Int64("user_id", req.UserID).
			Int("top_n", req.TopN).
			Int("results", len(videos)).
			Str("status", status).
			Dur("elapsed", time.Since(start)).
			Msg("rank request")
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if e.Pipeline == nil {
		return nil, core.NewDomainError(core.ModulePipeline, core.ErrorCodeInternalError,
			"engine: pipeline not configured")
	}

	rctx := core.NewRecommendContext(req)
	items, err := e.Pipeline.Run(logger.WithContext(ctx), rctx, nil)
	if err != nil {
		if core.IsDomainError(err) {
			return nil, err
		}
		return nil, core.WrapDomainError(core.ModulePipeline, core.ErrorCodeUnavailable,
			fmt.Sprintf("engine: rank user %d", req.UserID), err)
	}
	return core.Videos(items), nil
}

// Deliver 计算排序结果并同步投递。投递失败时仍返回已算出的结果。
func (e *Engine) Deliver(ctx context.Context, req core.RankRequest) ([]core.Video, error) {
	videos, err := e.Recommend(ctx, req)
	if err != nil {
		return nil, err
	}
	if e.Publisher == nil {
		return videos, nil
	}
	if err := e.Publisher.Publish(ctx, req.UserID, videos); err != nil {
		e.logger(ctx).Error().Err(err).
			Int64("user_id", req.UserID).
			Str("publisher", e.Publisher.Name()).
			Msg("publish ranking failed")
		return videos, err
	}
	return videos, nil
}

// logger 优先使用请求上下文上的 logger（带 request_id）。
func (e *Engine) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &e.Logger
}

func statusOf(err error) string {
	if de := core.GetDomainError(err); de != nil {
		return de.Code
	}
	return core.ErrorCodeInternalError
}
