package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronParser accepts standard 5-field expressions plus descriptors such as
// "@hourly" and "@every 10m".
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ErrDisabled is returned by NewOrderAudit for an empty schedule.
var ErrDisabled = errors.New("order audit disabled")

// OrderRepairer finds and renumbers boards whose deck order is not 1..N.
type OrderRepairer interface {
	ListBoardsWithBrokenOrder(ctx context.Context) ([]uuid.UUID, error)
	RenumberBoard(ctx context.Context, boardID uuid.UUID) (int, error)
}

type RepairRecorder interface {
	IncrementOrderRepairs()
}

// OrderAudit periodically restores contiguous ordering on boards written by
// something other than this service, for example manual SQL.
type OrderAudit struct {
	repo     OrderRepairer
	recorder RepairRecorder
	schedule cron.Schedule
	spec     string
	logger   *zap.Logger
}

func NewOrderAudit(repo OrderRepairer, recorder RepairRecorder, schedule string, logger *zap.Logger) (*OrderAudit, error) {
	if schedule == "" {
		return nil, ErrDisabled
	}
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid audit schedule %q: %w", schedule, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderAudit{repo: repo, recorder: recorder, schedule: sched, spec: schedule, logger: logger}, nil
}

// Next returns the first run after t.
func (a *OrderAudit) Next(t time.Time) time.Time {
	return a.schedule.Next(t)
}

// RunOnce repairs every broken board it finds and returns how many boards
// were renumbered. A failing board is logged and skipped.
func (a *OrderAudit) RunOnce(ctx context.Context) (int, error) {
	boardIDs, err := a.repo.ListBoardsWithBrokenOrder(ctx)
	if err != nil {
		return 0, fmt.Errorf("list broken boards: %w", err)
	}

	repaired := 0
	var errs []error
	for _, boardID := range boardIDs {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		changed, err := a.repo.RenumberBoard(ctx, boardID)
		if err != nil {
			a.logger.Error("order repair failed", zap.String("board_id", boardID.String()), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if changed == 0 {
			continue
		}
		repaired++
		if a.recorder != nil {
			a.recorder.IncrementOrderRepairs()
		}
		a.logger.Warn("repaired deck order",
			zap.String("board_id", boardID.String()),
			zap.Int("decks_changed", changed),
		)
	}
	return repaired, errors.Join(errs...)
}

// Run schedules RunOnce until ctx is cancelled, then waits for a running
// audit to finish.
func (a *OrderAudit) Run(ctx context.Context) error {
	c := cron.New(cron.WithParser(cronParser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(a.schedule, cron.FuncJob(func() {
		if _, err := a.RunOnce(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("order audit failed", zap.Error(err))
		}
	}))

	a.logger.Info("order audit scheduled", zap.String("schedule", a.spec), zap.Time("next_run", a.Next(time.Now())))
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
