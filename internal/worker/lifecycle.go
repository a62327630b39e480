// Package worker runs the background jobs of the service.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

type CampaignCompleter interface {
	CompleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type CompletionRecorder interface {
	CampaignCompleted(n int64)
}

// Lifecycle closes active campaigns once their award distribution date, or
// results announcement date when that is unset, has passed.
type Lifecycle struct {
	campaigns CampaignCompleter
	recorder  CompletionRecorder
	now       func() time.Time

	scheduler gocron.Scheduler
}

func NewLifecycle(campaigns CampaignCompleter, recorder CompletionRecorder, now func() time.Time) *Lifecycle {
	return &Lifecycle{
		campaigns: campaigns,
		recorder:  recorder,
		now:       now,
	}
}

func (l *Lifecycle) RunOnce(ctx context.Context) (int64, error) {
	n, err := l.campaigns.CompleteExpired(ctx, l.now())
	if err != nil {
		return 0, fmt.Errorf("l.campaigns.CompleteExpired -> %w", err)
	}

	if n > 0 {
		zap.L().Info("completed expired campaigns", zap.Int64("count", n))
		if l.recorder != nil {
			l.recorder.CampaignCompleted(n)
		}
	}

	return n, nil
}

// Start schedules RunOnce every interval until Shutdown. Runs never overlap.
func (l *Lifecycle) Start(ctx context.Context, interval time.Duration) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("gocron.NewScheduler -> %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if _, err := l.RunOnce(ctx); err != nil {
				zap.L().Error("campaign lifecycle run failed", zap.Error(err))
			}
		}),
		gocron.WithName("campaign-lifecycle"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("sched.NewJob -> %w", err)
	}

	sched.Start()
	l.scheduler = sched

	zap.L().Info("campaign lifecycle scheduled", zap.Duration("interval", interval))

	return nil
}

func (l *Lifecycle) Shutdown() error {
	if l.scheduler == nil {
		return nil
	}

	return l.scheduler.Shutdown()
}
