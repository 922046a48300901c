package core

import "github.com/rushteam/vidrec/pkg/utils"

// RecommendContext 承载单次排序请求的用户信息，贯穿整个 Pipeline 透传。
// 它只在一次请求内存活，请求结束即丢弃。
type RecommendContext struct {
	UserID int64

	// TopN 是本次请求要返回的条数，0 表示返回空结果。
	TopN int

	// Behaviors 是用户的交互事件，由 recall.user_history 节点填充。
	Behaviors []Behavior

	// WatchHistory 是用户已观看的物品集合，只用于过滤，不参与打分。
	WatchHistory map[int64]struct{}

	// Labels 是用户级标签，可驱动整个 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级上下文参数（例如 CEL 表达式里可读取的业务参数）
	Params map[string]any
}

// NewRecommendContext 根据请求创建上下文。
func NewRecommendContext(req RankRequest) *RecommendContext {
	return &RecommendContext{
		UserID:       req.UserID,
		TopN:         req.TopN,
		WatchHistory: make(map[int64]struct{}),
		Labels:       make(map[string]utils.Label),
		Params:       make(map[string]any),
	}
}

// SetWatchHistory 用 ids 覆盖已观看集合。
func (rctx *RecommendContext) SetWatchHistory(ids []int64) {
	rctx.WatchHistory = make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		rctx.WatchHistory[id] = struct{}{}
	}
}

// Watched 判断物品是否在已观看集合中。
func (rctx *RecommendContext) Watched(itemID int64) bool {
	if rctx == nil || rctx.WatchHistory == nil {
		return false
	}
	_, ok := rctx.WatchHistory[itemID]
	return ok
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}
