package recall

import (
	"context"
	"fmt"

	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/metrics"
	"github.com/rushteam/vidrec/pipeline"
	"github.com/rushteam/vidrec/pkg/utils"
)

// Catalog 是全量目录召回：每次请求从数据源加载一份目录快照，按目录顺序输出全部物品。
// 目录顺序决定打分矩阵的下标，因此本节点不做任何重排。
//   - 写入 labels：recall_source=catalog
//   - item_id 重复视为输入错误
type Catalog struct {
	Source core.CatalogSource
}

func (r *Catalog) Name() string {
	return "recall.catalog"
}

func (r *Catalog) Kind() pipeline.Kind {
	return pipeline.KindRecall
}

func (r *Catalog) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *Catalog) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Source == nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable,
			"catalog: no source configured")
	}

	videos, err := r.Source.LoadCatalog(ctx)
	if err != nil {
		return nil, sourceError(core.ModuleCatalog, "catalog: load", err)
	}
	metrics.CatalogSize.Set(float64(len(videos)))

	seen := make(map[int64]struct{}, len(videos))
	items := make([]*core.Item, 0, len(videos))
	for i, v := range videos {
		if _, dup := seen[v.ItemID]; dup {
			return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
				fmt.Sprintf("catalog: duplicate item_id %d", v.ItemID))
		}
		seen[v.ItemID] = struct{}{}

		it := core.NewItem(v, i)
		it.PutLabel(utils.LabelRecallSource, utils.Label{Value: "catalog", Source: "recall"})
		items = append(items, it)
	}
	return items, nil
}

var _ Source = (*Catalog)(nil)
