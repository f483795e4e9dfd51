package scheduler

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mh853/Funnely-sub001/app/dto"
	businessflow "github.com/mh853/Funnely-sub001/business_flow"
	"github.com/mh853/Funnely-sub001/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFlow struct {
	mu    sync.Mutex
	runs  int
	err   error
	ctxOK bool
}

func (f *countingFlow) Run(ctx context.Context) (*dto.DailyTaskReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs++
	_, f.ctxOK = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return &dto.DailyTaskReport{TasksExecuted: []dto.TaskResult{
		{Task: businessflow.TaskRevenueCalculation, Status: dto.TaskStatusSuccess},
		{Task: businessflow.TaskHealthScores, Status: dto.TaskStatusError, Error: "boom"},
	}}, nil
}

func (f *countingFlow) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs
}

func newTestScheduler(flow businessflow.DailyTaskFlow) *DailyScheduler {
	s := NewDailyScheduler(flow, 3, 0, time.Millisecond, time.Minute, "")
	s.logger = log.New(io.Discard, "", 0)
	return s
}

func regional(day, hour, minute int) time.Time {
	return time.Date(2026, 5, day, hour, minute, 0, 0, utils.RegionalLocation())
}

func TestDailySchedulerTick(t *testing.T) {
	flow := &countingFlow{}
	s := newTestScheduler(flow)
	ctx := context.Background()

	assert.False(t, s.tick(ctx, regional(1, 2, 59)), "before run time")
	assert.True(t, s.tick(ctx, regional(1, 3, 0)))
	assert.True(t, flow.ctxOK)
	assert.False(t, s.tick(ctx, regional(1, 3, 1)), "same day")
	assert.False(t, s.tick(ctx, regional(1, 23, 59)), "same day")
	assert.False(t, s.tick(ctx, regional(2, 0, 30)), "next day before run time")
	assert.True(t, s.tick(ctx, regional(2, 3, 5)))
	assert.Equal(t, 2, flow.count())
}

func TestDailySchedulerUsesRegionalDay(t *testing.T) {
	flow := &countingFlow{}
	s := newTestScheduler(flow)
	ctx := context.Background()

	// 18:30 UTC on May 1 is 03:30 on May 2 in Seoul
	assert.True(t, s.tick(ctx, time.Date(2026, 5, 1, 18, 30, 0, 0, time.UTC)))
	assert.False(t, s.tick(ctx, regional(2, 4, 0)))
}

func TestDailySchedulerFailedRunDoesNotRetrySameDay(t *testing.T) {
	flow := &countingFlow{err: businessflow.NewBusinessError("DAILY_TASKS_LOCK_BUSY", "busy", businessflow.ErrDailyTasksAlreadyRunning)}
	s := newTestScheduler(flow)
	ctx := context.Background()

	assert.True(t, s.tick(ctx, regional(1, 3, 0)))
	assert.False(t, s.tick(ctx, regional(1, 3, 10)))

	flow.err = errors.New("database unavailable")
	assert.True(t, s.tick(ctx, regional(2, 3, 0)))
	assert.Equal(t, 2, flow.count())
}

func TestDailySchedulerStartSkipsMissedRun(t *testing.T) {
	flow := &countingFlow{}
	s := newTestScheduler(flow)
	s.clock = func() time.Time { return regional(1, 9, 0) }

	stop := s.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	stop()
	assert.Zero(t, flow.count())
}

func TestDailySchedulerStartRunsWhenDue(t *testing.T) {
	flow := &countingFlow{}
	s := newTestScheduler(flow)

	var mu sync.Mutex
	now := regional(1, 2, 59)
	s.clock = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	stop := s.Start(context.Background())
	defer stop()

	mu.Lock()
	now = regional(1, 3, 0)
	mu.Unlock()

	require.Eventually(t, func() bool { return flow.count() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, flow.count())
}

func TestDailySchedulerFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "daily_tasks.log")
	s := NewDailyScheduler(&countingFlow{}, 3, 0, time.Minute, time.Minute, path)
	require.NotNil(t, s.logWriter)

	s.logger.Printf("hello")
	stop := s.Start(context.Background())
	stop()
	assert.FileExists(t, path)
}
