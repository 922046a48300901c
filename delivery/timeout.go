package delivery

import (
	"context"
	"time"

	"github.com/rushteam/vidrec/core"
)

type timeoutPublisher struct {
	Publisher
	timeout time.Duration
}

// WithTimeout 限制单次投递的耗时，d <= 0 时不限制。
func WithTimeout(p Publisher, d time.Duration) Publisher {
	if d <= 0 {
		return p
	}
	return &timeoutPublisher{Publisher: p, timeout: d}
}

func (p *timeoutPublisher) Publish(ctx context.Context, userID int64, videos []core.Video) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.Publisher.Publish(ctx, userID, videos)
}
