package recall

import (
	"context"

	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/pipeline"
)

// UserHistory 加载用户的交互事件与观看历史，写入 RecommendContext。
// 它不产出候选，上游 items 原样透传；行为供 rank 节点累加兴趣，观看历史供 filter 节点排除。
//
// 没有任何行为的用户是合法状态，不报错。
type UserHistory struct {
	Behaviors    core.BehaviorSource
	WatchHistory core.WatchHistorySource
}

func (r *UserHistory) Name() string {
	return "recall.user_history"
}

func (r *UserHistory) Kind() pipeline.Kind {
	return pipeline.KindRecall
}

func (r *UserHistory) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if _, err := r.Recall(ctx, rctx); err != nil {
		return nil, err
	}
	return items, nil
}

// Recall 填充 rctx.Behaviors 与 rctx.WatchHistory，不返回物品。
func (r *UserHistory) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if rctx == nil {
		return nil, nil
	}

	if r.Behaviors != nil {
		behaviors, err := r.Behaviors.LoadBehaviors(ctx, rctx.UserID)
		if err != nil {
			return nil, sourceError(core.ModuleBehavior, "behavior: load", err)
		}
		rctx.Behaviors = behaviors
	}

	if r.WatchHistory != nil {
		watched, err := r.WatchHistory.LoadWatchHistory(ctx, rctx.UserID)
		if err != nil {
			return nil, sourceError(core.ModuleBehavior, "watch history: load", err)
		}
		rctx.SetWatchHistory(watched)
	}
	return nil, nil
}

var _ Source = (*UserHistory)(nil)
