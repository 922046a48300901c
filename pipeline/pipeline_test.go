package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/vidrec/core"
)

type appendNode struct {
	name string
	id   int64
	err  error
}

func (n *appendNode) Name() string { return n.name }
func (n *appendNode) Kind() Kind   { return KindRecall }

func (n *appendNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	if n.err != nil {
		return nil, n.err
	}
	return append(items, core.NewItem(core.Video{ItemID: n.id}, len(items))), nil
}

func TestPipeline_Run(t *testing.T) {
	p := &Pipeline{Nodes: []Node{
		&appendNode{name: "a", id: 1},
		&appendNode{name: "b", id: 2},
	}}
	out, err := p.Run(context.Background(), core.NewRecommendContext(core.NewRankRequest(1)), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(out) != 2 || out[0].ID != 1 || out[1].ID != 2 {
		t.Fatalf("Run() = %+v", out)
	}
}

func TestPipeline_RunErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantDomain bool
	}{
		{
			name:       "domain error passes through",
			err:        core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "bad"),
			wantDomain: true,
		},
		{
			name: "plain error wrapped with node name",
			err:  errors.New("boom"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Pipeline{Nodes: []Node{
				&appendNode{name: "ok", id: 1},
				&appendNode{name: "broken", err: tt.err},
				&appendNode{name: "never", id: 3},
			}}
			out, err := p.Run(context.Background(), nil, nil)
			if out != nil {
				t.Errorf("expected nil items on error, got %v", out)
			}
			if !errors.Is(err, tt.err) {
				t.Fatalf("Run() error = %v, want wrapping %v", err, tt.err)
			}
			if core.IsDomainError(err) != tt.wantDomain {
				t.Errorf("IsDomainError = %v, want %v", core.IsDomainError(err), tt.wantDomain)
			}
		})
	}
}

func TestConfig_BuildPipeline(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "pipeline.yaml")
	yamlData := `
pipeline:
  name: test
  nodes:
    - type: test.append
      config:
        id: 5
    - type: test.append
      config:
        id: 6
`
	if err := os.WriteFile(yamlPath, []byte(yamlData), 0o600); err != nil {
		t.Fatal(err)
	}
	jsonPath := filepath.Join(dir, "pipeline.json")
	jsonData := `{"pipeline":{"name":"test","nodes":[{"type":"test.append","config":{"id":5}},{"type":"test.append","config":{"id":6}}]}}`
	if err := os.WriteFile(jsonPath, []byte(jsonData), 0o600); err != nil {
		t.Fatal(err)
	}

	factory := NewNodeFactory()
	factory.Register("test.append", func(cfg map[string]any, _ *Dependencies) (Node, error) {
		var id int64
		switch v := cfg["id"].(type) {
		case int:
			id = int64(v)
		case float64:
			id = int64(v)
		}
		return &appendNode{name: "append", id: id}, nil
	})

	for _, path := range []string{yamlPath, jsonPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			p, err := cfg.BuildPipeline(factory, nil)
			if err != nil {
				t.Fatalf("BuildPipeline() error = %v", err)
			}
			if p.Name != "test" || len(p.Nodes) != 2 {
				t.Fatalf("pipeline = %+v", p)
			}
			out, err := p.Run(context.Background(), nil, nil)
			if err != nil || len(out) != 2 || out[1].ID != 6 {
				t.Errorf("Run() = %v, %v", out, err)
			}
		})
	}
}

func TestNodeFactory_UnknownType(t *testing.T) {
	_, err := NewNodeFactory().Build("nope", nil, nil)
	if !core.IsNotSupported(err) {
		t.Fatalf("Build() error = %v, want NOT_SUPPORTED", err)
	}

	var cfg Config
	if _, err := cfg.BuildPipeline(NewNodeFactory(), nil); !core.IsInvalidInput(err) {
		t.Fatalf("BuildPipeline() on empty config error = %v, want INVALID_INPUT", err)
	}
}

func TestNodeFunc(t *testing.T) {
	reverse := NodeFunc{
		NodeName: "reverse",
		NodeKind: KindReRank,
		Fn: func(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
			out := make([]*core.Item, len(items))
			for i, it := range items {
				out[len(items)-1-i] = it
			}
			return out, nil
		},
	}
	p := &Pipeline{Nodes: []Node{&appendNode{name: "a", id: 1}, &appendNode{name: "b", id: 2}, reverse}}
	out, err := p.Run(context.Background(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if reverse.Name() != "reverse" || reverse.Kind() != KindReRank {
		t.Errorf("NodeFunc name/kind = %s/%s", reverse.Name(), reverse.Kind())
	}
	if len(out) != 2 || out[0].ID != 2 || out[1].ID != 1 {
		t.Errorf("Run() = %v", core.Videos(out))
	}
}
