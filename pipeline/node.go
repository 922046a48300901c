package pipeline

import (
	"context"

	"github.com/rushteam/vidrec/core"
)

// Kind 是 Node 所属阶段，用作指标与 span 的维度。
type Kind string

const (
	KindRecall Kind = "recall" // 加载目录快照、用户行为与观看历史
	KindRank   Kind = "rank"   // 打分并按分数重排
	KindFilter Kind = "filter" // 剔除已观看等不可返回的物品
	KindReRank Kind = "rerank" // 截断、打散
)

// Node 是 Pipeline 中的一步：输入 items，输出 items。
// recall 节点可以忽略输入自行产出；其余节点只在输入上做删减或重排。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}

// NodeFunc 把函数包装成 Node，适合一次性的小步骤。
type NodeFunc struct {
	NodeName string
	NodeKind Kind
	Fn       func(ctx context.Context, rctx *core.RecommendContext, items []*core.Item) ([]*core.Item, error)
}

func (f NodeFunc) Name() string { return f.NodeName }
func (f NodeFunc) Kind() Kind   { return f.NodeKind }

func (f NodeFunc) Process(ctx context.Context, rctx *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	return f.Fn(ctx, rctx, items)
}
