package recall

import (
	"context"

	"github.com/rushteam/vidrec/core"
)

// Source 表示一个可复用的召回源。
// 召回源只依赖请求上下文产出候选，不读取上游 items。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// sourceError 把数据源错误统一为 DomainError：已是 DomainError 的原样返回，其余视为下游不可用。
func sourceError(module, op string, err error) error {
	if err == nil || core.IsDomainError(err) {
		return err
	}
	return core.WrapDomainError(module, core.ErrorCodeUnavailable, op+" failed", err)
}
