package engine_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rushteam/vidrec/config"
	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/delivery"
	"github.com/rushteam/vidrec/engine"
	"github.com/rushteam/vidrec/pipeline"
)

func newSource() *core.StaticSource {
	return &core.StaticSource{
		Catalog: []core.Video{
			{ItemID: 1, Title: "Cat video", Description: "cats are great", LabelNames: "cats", Category: "pets"},
			{ItemID: 2, Title: "Dog video", Description: "dogs are great", LabelNames: "dogs", Category: "pets"},
			{ItemID: 3, Title: "Car review", Description: "engine specs", LabelNames: "cars", Category: "auto"},
		},
		Behaviors: map[int64][]core.Behavior{
			1: {{ItemID: 1, Type: core.BehaviorLike}},
			2: {{ItemID: 999, Type: core.BehaviorComment}},
		},
		WatchHistory: map[int64][]int64{1: {1}},
	}
}

func newEngine(src *core.StaticSource, pub delivery.Publisher, logger zerolog.Logger) *engine.Engine {
	deps := &pipeline.Dependencies{Catalog: src, Behaviors: src, WatchHistory: src, Logger: logger}
	return engine.New(config.DefaultPipeline(deps), pub, logger)
}

func ids(videos []core.Video) []int64 {
	out := make([]int64, 0, len(videos))
	for _, v := range videos {
		out = append(out, v.ItemID)
	}
	return out
}

func TestEngine_Recommend(t *testing.T) {
	e := newEngine(newSource(), nil, zerolog.Nop())

	tests := []struct {
		name string
		req  core.RankRequest
		want []int64
	}{
		{name: "similar item first, watched excluded", req: core.RankRequest{UserID: 1, TopN: 10}, want: []int64{2, 3}},
		{name: "truncated", req: core.RankRequest{UserID: 1, TopN: 1}, want: []int64{2}},
		{name: "top_n zero", req: core.RankRequest{UserID: 1, TopN: 0}, want: []int64{}},
		{name: "no behaviors keeps catalog order", req: core.RankRequest{UserID: 5, TopN: 10}, want: []int64{1, 2, 3}},
		{name: "unknown item ignored", req: core.RankRequest{UserID: 2, TopN: 2}, want: []int64{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Recommend(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if g := ids(got); len(g) != len(tt.want) || (len(g) > 0 && !equal(g, tt.want)) {
				t.Errorf("Recommend() = %v, want %v", g, tt.want)
			}
		})
	}
}

func equal(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEngine_InvalidRequest(t *testing.T) {
	e := newEngine(newSource(), nil, zerolog.Nop())
	for _, req := range []core.RankRequest{{UserID: 0, TopN: 1}, {UserID: 1, TopN: -1}} {
		if _, err := e.Recommend(context.Background(), req); !core.IsInvalidInput(err) {
			t.Errorf("Recommend(%+v) error = %v, want INVALID_INPUT", req, err)
		}
	}
}

type brokenCatalog struct{}

func (brokenCatalog) LoadCatalog(context.Context) ([]core.Video, error) {
	return nil, errors.New("connection refused")
}

func TestEngine_SourceUnavailable(t *testing.T) {
	src := newSource()
	deps := &pipeline.Dependencies{Catalog: brokenCatalog{}, Behaviors: src, WatchHistory: src}
	e := engine.New(config.DefaultPipeline(deps), nil, zerolog.Nop())
	if _, err := e.Recommend(context.Background(), core.NewRankRequest(1)); !core.IsUnavailable(err) {
		t.Errorf("Recommend() error = %v, want UNAVAILABLE", err)
	}
}

func TestEngine_NoPipeline(t *testing.T) {
	e := engine.New(nil, nil, zerolog.Nop())
	if _, err := e.Recommend(context.Background(), core.NewRankRequest(1)); err == nil {
		t.Error("Recommend() error = nil")
	}
}

func TestEngine_Deliver(t *testing.T) {
	var out bytes.Buffer
	e := newEngine(newSource(), delivery.NewWriterPublisher(&out), zerolog.Nop())

	got, err := e.Deliver(context.Background(), core.RankRequest{UserID: 1, TopN: 1})
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if !equal(ids(got), []int64{2}) {
		t.Errorf("Deliver() = %v", ids(got))
	}
	payload, err := delivery.Decode(bytes.TrimSpace(out.Bytes()))
	if err != nil || !equal(ids(payload), []int64{2}) {
		t.Errorf("published payload = %s, %v", out.String(), err)
	}
}

func TestEngine_LogsOneLinePerRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.InfoLevel)
	e := newEngine(newSource(), nil, logger)

	if _, err := e.Recommend(context.Background(), core.NewRankRequest(1)); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], `"message":"rank request"`) || !strings.Contains(lines[0], `"user_id":1`) {
		t.Errorf("log output = %q", buf.String())
	}
}
