package dsl

import (
	"testing"

	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/pkg/utils"
)

func TestProgram_Eval(t *testing.T) {
	item := core.NewItem(core.Video{
		ItemID:     3,
		Title:      "Car review",
		LabelNames: "cars",
		Category:   "auto",
	}, 2)
	item.Score = 0.75
	item.PutLabel(utils.LabelRecallSource, utils.Label{Value: "catalog", Source: "recall"})

	rctx := core.NewRecommendContext(core.RankRequest{UserID: 9, TopN: 5})
	rctx.Params["category"] = "auto"

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{name: "category", expr: `item.category == "auto"`, want: true},
		{name: "score", expr: `item.score > 0.5 && item.index == 2`, want: true},
		{name: "label", expr: `label.recall_source == "catalog"`, want: true},
		{name: "contains", expr: `item.label_names.contains("dog")`, want: false},
		{name: "rctx params", expr: `item.category == rctx.params.category && rctx.user_id == 9`, want: true},
		{name: "has", expr: `has(label.rank_model)`, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.expr, err)
			}
			got, err := p.Eval(item, rctx)
			if err != nil {
				t.Fatalf("Eval() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	if _, err := Compile(`item.score >`); err == nil {
		t.Error("expected compile error")
	}

	p, err := Compile(`item.title`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if _, err := p.Eval(core.NewItem(core.Video{Title: "x"}, 0), nil); err == nil {
		t.Error("expected error for non-boolean result")
	}
}

func TestEvaluate_Empty(t *testing.T) {
	ok, err := Evaluate("", core.NewItem(core.Video{}, 0), nil)
	if err != nil || !ok {
		t.Errorf("Evaluate(\"\") = %v, %v; want true, nil", ok, err)
	}
}
