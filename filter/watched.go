package filter

import (
	"context"

	"github.com/rushteam/vidrec/core"
)

// WatchedFilter 是已观看过滤器，过滤掉用户观看历史中的物品。
// 观看历史由 recall.user_history 节点写入 RecommendContext；只用于排除，不影响分数。
type WatchedFilter struct{}

// NewWatchedFilter 创建一个已观看过滤器。
func NewWatchedFilter() *WatchedFilter {
	return &WatchedFilter{}
}

func (f *WatchedFilter) Name() string {
	return "filter.watched"
}

func (f *WatchedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	return rctx.Watched(item.ID), nil
}
