package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/metrics"
	"github.com/rushteam/vidrec/pkg/tracing"
)

// Pipeline 是 vidrec 的核心抽象：把排序逻辑拆成可组合的 Node 链。
// 每个 Node 在独立的 span 中执行，并记录耗时指标与 debug 日志。
type Pipeline struct {
	Name  string
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	logger := zerolog.Ctx(ctx)
	cur := items
	for _, node := range p.Nodes {
		next, err := p.runNode(ctx, logger, node, rctx, cur)
		if err != nil {
			if core.IsDomainError(err) {
				return nil, err
			}
			return nil, fmt.Errorf("pipeline: node %s: %w", node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}

func (p *Pipeline) runNode(
	ctx context.Context,
	logger *zerolog.Logger,
	node Node,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	ctx, span := tracing.Tracer().Start(ctx, "node "+node.Name())
	defer span.End()
	span.SetAttributes(
		attribute.String("vidrec.node.kind", string(node.Kind())),
		attribute.Int("vidrec.node.items_in", len(items)),
	)

	start := time.Now()
	next, err := node.Process(ctx, rctx, items)
	elapsed := time.Since(start)
	metrics.RecordNode(node.Name(), string(node.Kind()), elapsed, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Debug().Err(err).Str("node", node.Name()).Dur("elapsed", elapsed).Msg("pipeline node failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("vidrec.node.items_out", len(next)))
	logger.Debug().
		Str("node", node.Name()).
		Str("kind", string(node.Kind())).
		Int("items_in", len(items)).
		Int("items_out", len(next)).
		Dur("elapsed", elapsed).
		Msg("pipeline node done")
	return next, nil
}
