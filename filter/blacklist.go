package filter

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/rushteam/vidrec/core"
)

// DefaultBlacklistRefresh 是从 Store 重新读取黑名单的间隔。
const DefaultBlacklistRefresh = time.Minute

// BlacklistFilter 是黑名单过滤器，过滤掉运营下架的物品。
// 黑名单来自内存列表 ItemIDs，以及可选的 Store[Key]（JSON 整数数组）。
// Store 中的列表损坏或不可读时记 warn 日志，继续使用上一次读到的列表。
type BlacklistFilter struct {
	// ItemIDs 是内存中的黑名单物品 ID 列表
	ItemIDs []int64

	// Store 用于从存储中读取黑名单（可选）
	Store core.Store

	// Key 是 Store 中的黑名单 key（可选）
	Key string

	// Refresh 黑名单缓存时长，<= 0 时使用 DefaultBlacklistRefresh
	Refresh time.Duration

	mu       sync.Mutex
	static   map[int64]struct{}
	cached   map[int64]struct{}
	loadedAt time.Time
}

// NewBlacklistFilter 创建一个黑名单过滤器。
func NewBlacklistFilter(itemIDs []int64, store core.Store, key string) *BlacklistFilter {
	return &BlacklistFilter{
		ItemIDs: itemIDs,
		Store:   store,
		Key:     key,
	}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.static == nil {
		f.static = make(map[int64]struct{}, len(f.ItemIDs))
		for _, id := range f.ItemIDs {
			f.static[id] = struct{}{}
		}
	}
	if _, ok := f.static[item.ID]; ok {
		return true, nil
	}

	if f.Store == nil || f.Key == "" {
		return false, nil
	}
	f.refreshLocked(ctx)
	_, ok := f.cached[item.ID]
	return ok, nil
}

// refreshLocked 在缓存过期后重新读取 Store[Key]。
// 读取或解析失败时沿用上一次成功的列表，并等下一个刷新周期再重试。
func (f *BlacklistFilter) refreshLocked(ctx context.Context) {
	ttl := f.Refresh
	if ttl <= 0 {
		ttl = DefaultBlacklistRefresh
	}
	if f.cached != nil && time.Since(f.loadedAt) < ttl {
		return
	}

	ids, err := f.load(ctx)
	f.loadedAt = time.Now()
	if err != nil {
		if f.cached == nil {
			f.cached = map[int64]struct{}{}
		}
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", f.Key).Int("size", len(f.cached)).
			Msg("blacklist refresh failed, keeping previous list")
		return
	}
	f.cached = ids
}

// load 读取并解析黑名单；key 不存在视为空列表。
func (f *BlacklistFilter) load(ctx context.Context) (map[int64]struct{}, error) {
	data, err := f.Store.Get(ctx, f.Key)
	if core.IsStoreNotFound(err) {
		return map[int64]struct{}{}, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
			"filter: malformed blacklist "+f.Key, err)
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
