package filter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/pipeline"
	"github.com/rushteam/vidrec/pkg/utils"
)

// FilterNode 依次应用 Filters，任一命中即剔除，并在物品上记下 filtered label（Source 为命中的过滤器）。
// 过滤器出错时该过滤器视为未命中，物品继续参与后续过滤器判断。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	logger := zerolog.Ctx(ctx)
	kept := make([]*core.Item, 0, len(items))
	dropped := make(map[string]int, len(n.Filters))

	for _, item := range items {
		if item == nil {
			continue
		}
		by, hit := n.match(ctx, logger, rctx, item)
		if !hit {
			kept = append(kept, item)
			continue
		}
		dropped[by]++
		item.PutLabel(utils.LabelFiltered, utils.Label{Value: "true", Source: by})
	}

	if len(dropped) > 0 {
		ev := logger.Debug().Int("kept", len(kept))
		for name, cnt := range dropped {
			ev = ev.Int(name, cnt)
		}
		ev.Msg("filter done")
	}
	return kept, nil
}

// match 返回第一个命中的过滤器名。
func (n *FilterNode) match(
	ctx context.Context,
	logger *zerolog.Logger,
	rctx *core.RecommendContext,
	item *core.Item,
) (string, bool) {
	for _, f := range n.Filters {
		hit, err := f.ShouldFilter(ctx, rctx, item)
		if err != nil {
			logger.Debug().Err(err).Str("filter", f.Name()).Int64("item_id", item.ID).Msg("filter error, skipped")
			continue
		}
		if hit {
			return f.Name(), true
		}
	}
	return "", false
}
