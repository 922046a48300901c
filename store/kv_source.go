package store

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/metrics"
)

// KVSource 把目录与用户数据以 JSON 文档存放在 core.Store 中：
//
//	{prefix}:catalog              → [{"item_id":1,"title":...}, ...]（数组顺序即目录顺序）
//	{prefix}:behaviors:{user_id}  → [{"item_id":1,"behavior_type":"like"}, ...]
//	{prefix}:watched:{user_id}    → [1, 2, 3]
//
// key 不存在视为空集合；JSON 非法或行为类型未知返回 INVALID_INPUT。
type KVSource struct {
	Store  core.Store
	Prefix string
}

// NewKVSource 创建 KVSource，prefix 为空时使用 "vidrec"。
func NewKVSource(s core.Store, prefix string) *KVSource {
	if prefix == "" {
		prefix = "vidrec"
	}
	return &KVSource{Store: s, Prefix: prefix}
}

func (s *KVSource) CatalogKey() string { return s.Prefix + ":catalog" }

func (s *KVSource) BehaviorsKey(userID int64) string {
	return fmt.Sprintf("%s:behaviors:%d", s.Prefix, userID)
}

func (s *KVSource) WatchedKey(userID int64) string {
	return fmt.Sprintf("%s:watched:%d", s.Prefix, userID)
}

func (s *KVSource) LoadCatalog(ctx context.Context) ([]core.Video, error) {
	var videos []core.Video
	if err := s.load(ctx, "catalog", s.CatalogKey(), &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func (s *KVSource) LoadBehaviors(ctx context.Context, userID int64) ([]core.Behavior, error) {
	var behaviors []core.Behavior
	if err := s.load(ctx, "behaviors", s.BehaviorsKey(userID), &behaviors); err != nil {
		return nil, err
	}
	for _, b := range behaviors {
		if _, err := core.ParseBehaviorType(string(b.Type)); err != nil {
			return nil, err
		}
	}
	return behaviors, nil
}

func (s *KVSource) LoadWatchHistory(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	if err := s.load(ctx, "watch_history", s.WatchedKey(userID), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// SaveCatalog 写入目录快照。
func (s *KVSource) SaveCatalog(ctx context.Context, videos []core.Video) error {
	return s.save(ctx, s.CatalogKey(), videos)
}

// SaveBehaviors 覆盖用户的交互事件。
func (s *KVSource) SaveBehaviors(ctx context.Context, userID int64, behaviors []core.Behavior) error {
	return s.save(ctx, s.BehaviorsKey(userID), behaviors)
}

// SaveWatchHistory 覆盖用户的观看历史。
func (s *KVSource) SaveWatchHistory(ctx context.Context, userID int64, ids []int64) error {
	return s.save(ctx, s.WatchedKey(userID), ids)
}

func (s *KVSource) load(ctx context.Context, op, key string, out any) error {
	start := time.Now()
	data, err := s.Store.Get(ctx, key)
	metrics.RecordSourceQuery(s.Store.Name(), op, time.Since(start), ignoreNotFound(err))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil
		}
		return core.WrapDomainError(core.ModuleStore, core.ErrorCodeUnavailable,
			fmt.Sprintf("store: get %s", key), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return core.WrapDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
			fmt.Sprintf("store: malformed document at %s", key), err)
	}
	return nil
}

func (s *KVSource) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	return s.Store.Set(ctx, key, data)
}

func ignoreNotFound(err error) error {
	if core.IsStoreNotFound(err) {
		return nil
	}
	return err
}

var _ core.DataSource = (*KVSource)(nil)
