package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/pkg/utils"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译后的布尔表达式，使用 CEL (Common Expression Language)。
// 编译一次、对每个物品求值；cel.Program 本身并发安全。
//
// 可用变量：
//   - item：id, index, score, title, description, label_names, category, features, labels
//   - label：label key → value 的扁平映射
//   - rctx：user_id, top_n, params
//
// 示例：
//   - `item.category != "auto"`
//   - `item.score > 0.5 && label.recall_source == "catalog"`
//   - `item.label_names.contains("cats")`
//   - `!has(rctx.params.category) || item.category == rctx.params.category`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式。表达式必须返回 bool。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string {
	return p.expr
}

// Eval 对单个物品求值。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// Evaluate 编译并求值一次，适合一次性调用；热路径请复用 Compile 的结果。
func Evaluate(expr string, item *core.Item, rctx *core.RecommendContext) (bool, error) {
	if expr == "" {
		return true, nil
	}
	p, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return p.Eval(item, rctx)
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = map[string]any{
			"value":  v.Value,
			"source": v.Source,
		}
	}
	features := make(map[string]any, len(item.Features))
	for k, v := range item.Features {
		features[k] = v
	}

	in := map[string]any{
		"item": map[string]any{
			"id":          item.ID,
			"index":       int64(item.Index),
			"score":       item.Score,
			"title":       item.Video.Title,
			"description": item.Video.Description,
			"label_names": item.Video.LabelNames,
			"category":    item.Video.Category,
			"features":    features,
			"labels":      labels,
		},
		"label": utils.LabelValues(item.Labels),
	}

	r := map[string]any{
		"user_id": int64(0),
		"top_n":   int64(0),
		"params":  map[string]any{},
	}
	if rctx != nil {
		r["user_id"] = rctx.UserID
		r["top_n"] = int64(rctx.TopN)
		if rctx.Params != nil {
			r["params"] = rctx.Params
		}
	}
	in["rctx"] = r
	return in
}
