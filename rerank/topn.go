package rerank

import (
	"context"

	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在排序、过滤后截取前 N 个物品。
//
// N 取自 rctx.TopN（请求参数）：
//   - TopN 为 0 时返回空结果
//   - TopN 大于物品数时返回全部物品
//
// Max > 0 时作为硬上限，防止请求方要求过大的结果集。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &rank.ContentCFNode{...},                                        // 排序
//	        &filter.FilterNode{Filters: []filter.Filter{filter.NewWatchedFilter()}}, // 排除已观看
//	        &rerank.TopNNode{Max: 100},                                      // 截取 Top N
//	    },
//	}
type TopNNode struct {
	// Max 结果条数硬上限，<= 0 表示不限制
	Max int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := core.DefaultTopN
	if rctx != nil {
		limit = rctx.TopN
	}
	if n.Max > 0 && limit > n.Max {
		limit = n.Max
	}
	if limit <= 0 {
		return []*core.Item{}, nil
	}

	// 如果物品数量小于等于 N，直接返回
	if len(items) <= limit {
		return items, nil
	}

	// 截取前 N 个物品
	return items[:limit], nil
}
