package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/rushteam/vidrec/config"
	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/store"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.NewDomainError(core.ModuleRequest, core.ErrorCodeInvalidInput, "x"), 2},
		{core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "x"), 3},
		{errors.New("x"), 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestOpenPublisher(t *testing.T) {
	pub, err := openPublisher(config.DeliveryConfig{Kind: "none"}, zerolog.Nop())
	if err != nil || pub != nil {
		t.Errorf("none: %v, %v", pub, err)
	}
	pub, err = openPublisher(config.DeliveryConfig{Kind: "stdout"}, zerolog.Nop())
	if err != nil || pub.Name() != "writer" {
		t.Errorf("stdout: %v, %v", pub, err)
	}
	pub, err = openPublisher(config.DeliveryConfig{
		Kind:    "kafka",
		Brokers: []string{"127.0.0.1:9092"},
		Topic:   "recommend_queue",
		Breaker: config.BreakerConfig{MaxFailures: 3},
	}, zerolog.Nop())
	if err != nil || pub.Name() != "kafka" {
		t.Fatalf("kafka: %v, %v", pub, err)
	}
	_ = pub.Close()
	for _, kind := range []string{"rabbitmq", "gochannel"} {
		if _, err := openPublisher(config.DeliveryConfig{Kind: kind}, zerolog.Nop()); err == nil {
			t.Errorf("expected error for kind %q", kind)
		}
	}
}

func seedSQLite(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "vidrec.db")
	s, err := store.OpenSQL(ctx, store.DriverSQLite, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	for _, v := range []core.Video{
		{ItemID: 1, Title: "Cat video", Description: "cats are great", LabelNames: "cats", Category: "pets"},
		{ItemID: 2, Title: "Dog video", Description: "dogs are great", LabelNames: "dogs", Category: "pets"},
		{ItemID: 3, Title: "Car review", Description: "engine specs", LabelNames: "cars", Category: "auto"},
	} {
		if err := s.InsertVideo(ctx, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.InsertBehavior(ctx, 1, core.Behavior{ItemID: 1, Type: core.BehaviorLike}); err != nil {
		t.Fatal(err)
	}
	if err := s.InsertWatch(ctx, 1, 1); err != nil {
		t.Fatal(err)
	}
	return dsn
}

func TestNewApp_SQLite(t *testing.T) {
	dsn := seedSQLite(t)
	vp := viper.New()
	vp.Set("source.dsn", dsn)
	vp.Set("delivery.kind", "none")
	vp.Set("log.level", "disabled")
	cfg, err := config.LoadApp(vp, "")
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg, false)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	defer a.Close(ctx)

	videos, err := a.engine.Recommend(ctx, core.RankRequest{UserID: 1, TopN: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != 2 || videos[0].ItemID != 2 || videos[1].ItemID != 3 {
		t.Errorf("Recommend() = %+v, want [2 3]", videos)
	}
}

func TestBuildPipeline_File(t *testing.T) {
	cfg := &config.AppConfig{}
	cfg.Pipeline.File = filepath.Join("..", "..", "configs", "pipeline.yaml")
	p, err := buildPipeline(cfg, &core.StaticSource{}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("buildPipeline() error = %v", err)
	}
	if p.Name != "content_cf" || len(p.Nodes) != 5 {
		t.Errorf("pipeline = %s with %d nodes", p.Name, len(p.Nodes))
	}
}

func TestMigrateCommand(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "m.db")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"migrate", "--source-dsn", dsn, "--env-file", filepath.Join(t.TempDir(), "none.env")})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("migrate error = %v", err)
	}
	if !strings.Contains(out.String(), "migrated sql.sqlite3") {
		t.Errorf("output = %q", out.String())
	}
}
