package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/rushteam/vidrec/core"
)

// BreakerConfig 熔断配置。
type BreakerConfig struct {
	// MaxFailures 连续失败多少次后打开熔断，默认 5
	MaxFailures uint32
	// OpenTimeout 打开状态持续多久后进入半开，默认 30s
	OpenTimeout time.Duration
}

// BreakerPublisher 给下游 Publisher 加熔断。熔断打开期间直接返回 UNAVAILABLE，不再访问下游。
type BreakerPublisher struct {
	next Publisher
	cb   *gobreaker.CircuitBreaker[any]
}

// NewBreakerPublisher 包装 next。
func NewBreakerPublisher(next Publisher, cfg BreakerConfig, logger zerolog.Logger) *BreakerPublisher {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	settings := gobreaker.Settings{
		Name:        "delivery." + next.Name(),
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("delivery circuit breaker state changed")
		},
		// 输入错误不是下游故障
		IsSuccessful: func(err error) bool {
			return err == nil || core.IsInvalidInput(err)
		},
	}
	return &BreakerPublisher{next: next, cb: gobreaker.NewCircuitBreaker[any](settings)}
}

func (p *BreakerPublisher) Name() string { return p.next.Name() }

// State 返回熔断状态（closed / half-open / open）。
func (p *BreakerPublisher) State() string { return p.cb.State().String() }

func (p *BreakerPublisher) Publish(ctx context.Context, userID int64, videos []core.Video) error {
	_, err := p.cb.Execute(func() (any, error) {
		return nil, p.next.Publish(ctx, userID, videos)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return core.WrapDomainError(core.ModuleDelivery, core.ErrorCodeUnavailable,
			fmt.Sprintf("delivery: %s circuit open", p.Name()), err)
	}
	return err
}

func (p *BreakerPublisher) Close() error { return p.next.Close() }

var _ Publisher = (*BreakerPublisher)(nil)
