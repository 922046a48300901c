package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/vidrec/core"
)

func TestTopNNode_Process(t *testing.T) {
	var items []*core.Item
	for i := 0; i < 5; i++ {
		items = append(items, core.NewItem(core.Video{ItemID: int64(i + 1)}, i))
	}

	tests := []struct {
		name string
		node *TopNNode
		rctx *core.RecommendContext
		want int
	}{
		{name: "truncate", node: &TopNNode{}, rctx: &core.RecommendContext{TopN: 3}, want: 3},
		{name: "larger than items", node: &TopNNode{}, rctx: &core.RecommendContext{TopN: 50}, want: 5},
		{name: "zero", node: &TopNNode{}, rctx: &core.RecommendContext{TopN: 0}, want: 0},
		{name: "hard cap", node: &TopNNode{Max: 2}, rctx: &core.RecommendContext{TopN: 4}, want: 2},
		{name: "nil context uses default", node: &TopNNode{}, rctx: nil, want: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.node.Process(context.Background(), tt.rctx, items)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if len(out) != tt.want {
				t.Fatalf("len(out) = %d, want %d", len(out), tt.want)
			}
			for i, it := range out {
				if it != items[i] {
					t.Errorf("out[%d] not in original order", i)
				}
			}
		})
	}
}
