package store

import (
	"context"
	"time"

	"github.com/rushteam/vidrec/core"
)

// TimeoutSource 给每次读取加上超时，d <= 0 时不限制。
type TimeoutSource struct {
	Source  core.DataSource
	Timeout time.Duration
}

func WithTimeout(src core.DataSource, d time.Duration) core.DataSource {
	if d <= 0 {
		return src
	}
	return &TimeoutSource{Source: src, Timeout: d}
}

func (s *TimeoutSource) LoadCatalog(ctx context.Context) ([]core.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	return s.Source.LoadCatalog(ctx)
}

func (s *TimeoutSource) LoadBehaviors(ctx context.Context, userID int64) ([]core.Behavior, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	return s.Source.LoadBehaviors(ctx, userID)
}

func (s *TimeoutSource) LoadWatchHistory(ctx context.Context, userID int64) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	return s.Source.LoadWatchHistory(ctx, userID)
}

var _ core.DataSource = (*TimeoutSource)(nil)
