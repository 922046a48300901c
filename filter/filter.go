// Package filter 从排序结果中剔除不应返回的物品，剩余物品保持原有顺序。
package filter

import (
	"context"

	"github.com/rushteam/vidrec/core"
)

// Filter 判断单个物品是否需要剔除；返回 true 即剔除。
type Filter interface {
	Name() string
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}
