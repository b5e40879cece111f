package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/pdv-backend/pkg/logger"
)

type idleCartPruner interface {
	PruneIdle(ctx context.Context, cutoff time.Time) int
}

// CartSweepJobParams configure the idle cart sweep.
type CartSweepJobParams struct {
	Logger *logger.Logger
	Carts  idleCartPruner
	// TTL is how long a cart may sit untouched.
	TTL time.Duration
	Now func() time.Time
}

// NewCartSweepJob drops in-process carts nobody has touched within TTL, the
// same lifetime redis gives carts it stores.
func NewCartSweepJob(params CartSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.TTL <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &cartSweepJob{logg: params.Logger, carts: params.Carts, ttl: params.TTL, now: now}, nil
}

type cartSweepJob struct {
	logg  *logger.Logger
	carts idleCartPruner
	ttl   time.Duration
	now   func() time.Time
}

func (j *cartSweepJob) Name() string { return "cart-sweep" }

func (j *cartSweepJob) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.ttl)
	pruned := j.carts.PruneIdle(ctx, cutoff)
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"carts_pruned": pruned,
	}), "idle carts swept")
	return nil
}
