package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/rushteam/vidrec/core"
)

func openTestSQLite(t *testing.T) *SQLStore {
	t.Helper()
	ctx := context.Background()
	s, err := OpenSQL(ctx, DriverSQLite, filepath.Join(t.TempDir(), "vidrec.db"))
	if err != nil {
		t.Fatalf("OpenSQL() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return s
}

func TestSQLStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	// 再次迁移应当幂等
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}

	videos := []core.Video{
		{ItemID: 3, Title: "Car review", Description: "engine specs", LabelNames: "cars", Category: "auto"},
		{ItemID: 1, Title: "Cat video", Description: "cats are great", LabelNames: "cats", Category: "pets"},
		{ItemID: 2, Title: "Dog video"},
	}
	for _, v := range videos {
		if err := s.InsertVideo(ctx, v); err != nil {
			t.Fatalf("InsertVideo() error = %v", err)
		}
	}
	// 覆盖写
	if err := s.InsertVideo(ctx, core.Video{ItemID: 2, Title: "Dog video", Category: "pets"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadCatalog(ctx)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if len(got) != 3 || got[0].ItemID != 1 || got[1].ItemID != 2 || got[2].ItemID != 3 {
		t.Fatalf("LoadCatalog() = %+v, want ordered by id", got)
	}
	if got[1].Category != "pets" || got[1].Description != "" {
		t.Errorf("video 2 = %+v", got[1])
	}

	for _, b := range []core.Behavior{
		{ItemID: 1, Type: core.BehaviorLike},
		{ItemID: 1, Type: core.BehaviorView},
		{ItemID: 3, Type: core.BehaviorType("dislike")},
	} {
		if err := s.InsertBehavior(ctx, 7, b); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.InsertBehavior(ctx, 8, core.Behavior{ItemID: 2, Type: core.BehaviorShare}); err != nil {
		t.Fatal(err)
	}

	behaviors, err := s.LoadBehaviors(ctx, 7)
	if err != nil {
		t.Fatalf("LoadBehaviors() error = %v", err)
	}
	want := []core.Behavior{
		{ItemID: 1, Type: core.BehaviorLike},
		{ItemID: 1, Type: core.BehaviorView},
	}
	if !reflect.DeepEqual(behaviors, want) {
		t.Errorf("LoadBehaviors() = %+v, want %+v", behaviors, want)
	}

	if err := s.InsertWatch(ctx, 7, 3); err != nil {
		t.Fatal(err)
	}
	watched, err := s.LoadWatchHistory(ctx, 7)
	if err != nil {
		t.Fatalf("LoadWatchHistory() error = %v", err)
	}
	if !reflect.DeepEqual(watched, []int64{3}) {
		t.Errorf("LoadWatchHistory() = %v", watched)
	}

	none, err := s.LoadBehaviors(ctx, 999)
	if err != nil || len(none) != 0 {
		t.Errorf("unknown user: %v, %v", none, err)
	}
}

func TestSQLStore_NullColumns(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)
	if _, err := s.DB().ExecContext(ctx,
		`INSERT INTO videos (video_id, title, description, label_names, category) VALUES (1, 'x', NULL, NULL, NULL)`); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadCatalog(ctx)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if len(got) != 1 || got[0] != (core.Video{ItemID: 1, Title: "x"}) {
		t.Errorf("LoadCatalog() = %+v", got)
	}
}

func TestSQLStore_Errors(t *testing.T) {
	if _, err := OpenSQL(context.Background(), "mysql", "dsn"); !core.IsNotSupported(err) {
		t.Errorf("OpenSQL(mysql) error = %v, want NOT_SUPPORTED", err)
	}

	s := openTestSQLite(t)
	_ = s.Close()
	if _, err := s.LoadCatalog(context.Background()); !core.IsUnavailable(err) {
		t.Errorf("LoadCatalog() on closed db error = %v, want UNAVAILABLE", err)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	if _, err := m.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Fatalf("Get(missing) error = %v", err)
	}
	if err := m.Set(ctx, "a", []byte("1")); err != nil {
		t.Fatal(err)
	}
	if err := m.BatchSet(ctx, map[string][]byte{"b": []byte("2"), "c": []byte("3")}); err != nil {
		t.Fatal(err)
	}
	got, err := m.BatchGet(ctx, []string{"a", "b", "zzz"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("BatchGet() = %v", got)
	}
	if err := m.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get(ctx, "a"); !core.IsStoreNotFound(err) {
		t.Errorf("Get(deleted) error = %v", err)
	}

	if err := m.Set(ctx, "ttl", []byte("x"), 1); err != nil {
		t.Fatal(err)
	}
	time.Sleep(1100 * time.Millisecond)
	if _, err := m.Get(ctx, "ttl"); !core.IsStoreNotFound(err) {
		t.Errorf("expired key error = %v", err)
	}
}

func TestKVSource(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()
	src := NewKVSource(m, "")

	// 空存储：全部为空集合
	catalog, err := src.LoadCatalog(ctx)
	if err != nil || len(catalog) != 0 {
		t.Fatalf("empty LoadCatalog() = %v, %v", catalog, err)
	}

	videos := []core.Video{{ItemID: 2, Title: "b"}, {ItemID: 1, Title: "a"}}
	if err := src.SaveCatalog(ctx, videos); err != nil {
		t.Fatal(err)
	}
	behaviors := []core.Behavior{{ItemID: 1, Type: core.BehaviorComment}}
	if err := src.SaveBehaviors(ctx, 5, behaviors); err != nil {
		t.Fatal(err)
	}
	if err := src.SaveWatchHistory(ctx, 5, []int64{2}); err != nil {
		t.Fatal(err)
	}

	catalog, err = src.LoadCatalog(ctx)
	if err != nil || !reflect.DeepEqual(catalog, videos) {
		t.Errorf("LoadCatalog() = %v, %v", catalog, err)
	}
	gotB, err := src.LoadBehaviors(ctx, 5)
	if err != nil || !reflect.DeepEqual(gotB, behaviors) {
		t.Errorf("LoadBehaviors() = %v, %v", gotB, err)
	}
	gotW, err := src.LoadWatchHistory(ctx, 5)
	if err != nil || !reflect.DeepEqual(gotW, []int64{2}) {
		t.Errorf("LoadWatchHistory() = %v, %v", gotW, err)
	}
	if src.BehaviorsKey(5) != "vidrec:behaviors:5" {
		t.Errorf("BehaviorsKey() = %s", src.BehaviorsKey(5))
	}
}

func TestKVSource_Malformed(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()
	src := NewKVSource(m, "t")

	_ = m.Set(ctx, src.CatalogKey(), []byte(`{not json`))
	if _, err := src.LoadCatalog(ctx); !core.IsInvalidInput(err) {
		t.Errorf("LoadCatalog() error = %v, want INVALID_INPUT", err)
	}

	_ = m.Set(ctx, src.BehaviorsKey(1), []byte(`[{"item_id":1,"behavior_type":"dislike"}]`))
	if _, err := src.LoadBehaviors(ctx, 1); !core.IsInvalidInput(err) {
		t.Errorf("LoadBehaviors() error = %v, want INVALID_INPUT", err)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("VIDREC_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("跳过 Redis 测试：未设置 VIDREC_TEST_REDIS_ADDR")
	}
	ctx := context.Background()
	r, err := NewRedisStore(ctx, RedisOptions{Addr: addr})
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	defer r.Close()

	key := "vidrec:test:" + time.Now().Format("150405.000000")
	defer r.Delete(ctx, key)

	if _, err := r.Get(ctx, key); !core.IsStoreNotFound(err) {
		t.Fatalf("Get(missing) error = %v", err)
	}
	src := NewKVSource(r, key)
	if err := src.SaveWatchHistory(ctx, 1, []int64{4, 5}); err != nil {
		t.Fatal(err)
	}
	defer r.Delete(ctx, src.WatchedKey(1))
	got, err := src.LoadWatchHistory(ctx, 1)
	if err != nil || !reflect.DeepEqual(got, []int64{4, 5}) {
		t.Errorf("LoadWatchHistory() = %v, %v", got, err)
	}
}

type slowSource struct{ core.StaticSource }

func (s *slowSource) LoadCatalog(ctx context.Context) ([]core.Video, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestWithTimeout(t *testing.T) {
	src := &slowSource{}
	if got := WithTimeout(src, 0); got != core.DataSource(src) {
		t.Error("WithTimeout(0) should return the source unchanged")
	}
	wrapped := WithTimeout(src, 10*time.Millisecond)
	if _, err := wrapped.LoadCatalog(context.Background()); err != context.DeadlineExceeded {
		t.Errorf("LoadCatalog() error = %v, want deadline exceeded", err)
	}
	if _, err := wrapped.LoadBehaviors(context.Background(), 1); err != nil {
		t.Errorf("LoadBehaviors() error = %v", err)
	}
}
