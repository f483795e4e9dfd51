// Package scheduler runs the daily tasks in-process once per regional day
package scheduler

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mh853/Funnely-sub001/app/dto"
	businessflow "github.com/mh853/Funnely-sub001/business_flow"
	"github.com/mh853/Funnely-sub001/utils"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DailyScheduler triggers the daily task orchestrator at a fixed regional wall-clock time.
// It is an alternative to an external cron hitting the HTTP endpoint; both paths share the
// same run lock.
type DailyScheduler struct {
	flow     businessflow.DailyTaskFlow
	logger   *log.Logger
	interval time.Duration
	hour     int
	minute   int
	timeout  time.Duration
	clock    func() time.Time

	mu      sync.Mutex
	lastDay string

	logWriter io.Closer
}

func NewDailyScheduler(
	flow businessflow.DailyTaskFlow,
	hour, minute int,
	interval time.Duration,
	timeout time.Duration,
	logFilePath string,
) *DailyScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}

	s := &DailyScheduler{
		flow:     flow,
		interval: interval,
		hour:     hour,
		minute:   minute,
		timeout:  timeout,
		clock:    utils.RegionalNow,
	}

	if err := s.initSchedulerLogger(logFilePath); err != nil {
		s.logger = log.Default()
		s.logger.Printf("scheduler: failed to initialize file logger: %v", err)
	}

	return s
}

// initSchedulerLogger writes to stdout and a size-rotated file
func (s *DailyScheduler) initSchedulerLogger(path string) error {
	if path == "" {
		s.logger = log.New(os.Stdout, "scheduler ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	s.logWriter = lj
	s.logger = log.New(io.MultiWriter(os.Stdout, lj), "scheduler ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
	return nil
}

// Start launches the scheduler loop in a background goroutine and returns a stop function.
// A process started after today's run time does not catch up; the next run is tomorrow.
func (s *DailyScheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	now := s.clock()
	if s.due(now) {
		s.markRan(now)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx, s.clock())
			}
		}
	}()

	return func() {
		cancel()
		wg.Wait()
		if s.logWriter != nil {
			_ = s.logWriter.Close()
		}
	}
}

// due reports whether now is at or after today's run time
func (s *DailyScheduler) due(now time.Time) bool {
	now = utils.ToRegional(now)
	runAt := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, now.Location())
	return !now.Before(runAt)
}

func (s *DailyScheduler) markRan(now time.Time) {
	s.mu.Lock()
	s.lastDay = utils.ToRegional(now).Format(time.DateOnly)
	s.mu.Unlock()
}

func (s *DailyScheduler) ranToday(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDay == utils.ToRegional(now).Format(time.DateOnly)
}

// tick runs the daily tasks when the run time has passed and today has not run yet.
// It returns true when a run was started.
func (s *DailyScheduler) tick(ctx context.Context, now time.Time) bool {
	if !s.due(now) || s.ranToday(now) {
		return false
	}
	s.markRan(now)

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	report, err := s.flow.Run(runCtx)
	if err != nil {
		if businessflow.IsDailyTasksAlreadyRunning(err) {
			s.logger.Printf("scheduler: daily tasks already running elsewhere, skipping")
			return true
		}
		s.logger.Printf("scheduler: daily tasks aborted: %v", err)
		return true
	}

	failed := 0
	for _, t := range report.TasksExecuted {
		if t.Status == dto.TaskStatusError {
			failed++
		}
	}
	s.logger.Printf("scheduler: daily tasks finished tasks=%d failed=%d", len(report.TasksExecuted), failed)
	return true
}
