package core

import "context"

// CatalogSource 提供一次请求使用的完整目录快照。
// 返回顺序即目录顺序，打分时的行列编号以此为准。
type CatalogSource interface {
	LoadCatalog(ctx context.Context) ([]Video, error)
}

// BehaviorSource 提供单个用户的交互事件，只返回 view / like / share / comment。
// 用户不存在或没有交互时返回空切片，不是错误。
type BehaviorSource interface {
	LoadBehaviors(ctx context.Context, userID int64) ([]Behavior, error)
}

// WatchHistorySource 提供单个用户已观看的物品 ID。
type WatchHistorySource interface {
	LoadWatchHistory(ctx context.Context, userID int64) ([]int64, error)
}

// DataSource 同时提供三类数据，store.SQLStore 与 store.KVSource 都实现了它。
type DataSource interface {
	CatalogSource
	BehaviorSource
	WatchHistorySource
}

// StaticSource 是内存中的数据源，用于测试和一次性计算。
type StaticSource struct {
	Catalog      []Video
	Behaviors    map[int64][]Behavior
	WatchHistory map[int64][]int64
}

func (s *StaticSource) LoadCatalog(_ context.Context) ([]Video, error) {
	out := make([]Video, len(s.Catalog))
	copy(out, s.Catalog)
	return out, nil
}

func (s *StaticSource) LoadBehaviors(_ context.Context, userID int64) ([]Behavior, error) {
	return append([]Behavior(nil), s.Behaviors[userID]...), nil
}

func (s *StaticSource) LoadWatchHistory(_ context.Context, userID int64) ([]int64, error) {
	return append([]int64(nil), s.WatchHistory[userID]...), nil
}

var _ DataSource = (*StaticSource)(nil)
