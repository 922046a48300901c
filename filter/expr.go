package filter

import (
	"context"
	"fmt"

	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/pkg/dsl"
)

// ExprFilter 使用 CEL 表达式过滤物品：表达式为 true 的物品保留，false 的过滤。
//
//	f, err := filter.NewExprFilter(`item.category != "auto"`)
type ExprFilter struct {
	program *dsl.Program
}

// NewExprFilter 编译表达式并创建过滤器，表达式非法时返回 INVALID_INPUT。
func NewExprFilter(expr string) (*ExprFilter, error) {
	p, err := dsl.Compile(expr)
	if err != nil {
		return nil, core.WrapDomainError(core.ModulePipeline, core.ErrorCodeInvalidInput,
			fmt.Sprintf("filter.expr: invalid expression %q", expr), err)
	}
	return &ExprFilter{program: p}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

// Expr 返回原始表达式。
func (f *ExprFilter) Expr() string {
	return f.program.String()
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	keep, err := f.program.Eval(item, rctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
