package rank

import (
	"context"
	"strconv"

	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/feature"
	"github.com/rushteam/vidrec/pipeline"
	"github.com/rushteam/vidrec/pkg/utils"
)

// ContentCFNode 是基于内容相似度的物品协同过滤排序节点。
//
// 核心思想："和用户互动过的内容越相似，越可能感兴趣"
//
// 算法流程：
//  1. 候选集（即本次目录快照）→ TF-IDF 特征矩阵
//  2. 两两余弦相似度 → 相似度矩阵
//  3. 用户行为按权重累加 → 兴趣向量（view=1, like=2, share=3, comment=4）
//  4. score = 相似度矩阵 · 兴趣向量，按分数降序稳定排序
//
// 输入 items 的顺序即目录顺序。已观看过滤与截断由下游 filter / rerank 节点完成。
//   - 写入 labels：rank_model、interest（仅对有行为的物品）
//   - 写入 features：interest、score
type ContentCFNode struct {
	Encoder feature.TextEncoder

	// Workers 相似度矩阵并发数，<= 1 时串行
	Workers int

	// MaxItems 目录规模上限，<= 0 时不限制
	MaxItems int
}

func (n *ContentCFNode) Name() string        { return "rank.content_cf" }
func (n *ContentCFNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ContentCFNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	catalog := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it != nil {
			catalog = append(catalog, it)
		}
	}
	if len(catalog) == 0 {
		return catalog, nil
	}

	var behaviors []core.Behavior
	if rctx != nil {
		behaviors = rctx.Behaviors
	}

	scorer := &Scorer{Encoder: n.Encoder, Workers: n.Workers, MaxItems: n.MaxItems}
	res, err := scorer.Score(core.Videos(catalog), behaviors)
	if err != nil {
		return nil, err
	}

	for i, it := range catalog {
		it.Index = i
		it.Score = res.Scores[i]
		if it.Features == nil {
			it.Features = make(map[string]float64)
		}
		it.Features["score"] = res.Scores[i]
		it.Features["interest"] = res.Interest[i]
		it.PutLabel(utils.LabelRankModel, utils.Label{Value: "content_cf", Source: "rank"})
		if w := res.Interest[i]; w != 0 {
			it.PutLabel(utils.LabelInterest, utils.Label{
				Value:  strconv.FormatFloat(w, 'f', -1, 64),
				Source: "rank",
			})
		}
	}

	out := make([]*core.Item, len(catalog))
	for k, idx := range res.Order {
		out[k] = catalog[idx]
	}
	return out, nil
}
