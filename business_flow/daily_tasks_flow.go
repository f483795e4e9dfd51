package businessflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"github.com/mh853/Funnely-sub001/app/dto"
	"github.com/mh853/Funnely-sub001/app/services"
	"github.com/mh853/Funnely-sub001/models"
	"github.com/mh853/Funnely-sub001/repository"
	"github.com/mh853/Funnely-sub001/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Job names in run order
const (
	TaskSubscriptionExpiryCheck = "subscription_expiry_check"
	TaskRevenueCalculation      = "revenue_calculation"
	TaskHealthScores            = "health_scores"
	TaskSheetsSync              = "sheets_sync"
	TaskGrowthOpportunities     = "growth_opportunities"
	TaskLeadDigest              = "lead_digest"
	TaskDisableExpiredTimers    = "disable_expired_timers"
)

// DailyTaskFlow runs every daily job once, in a fixed order, isolating each job's failure
type DailyTaskFlow interface {
	Run(ctx context.Context) (*dto.DailyTaskReport, error)
}

// DailyJobs are the jobs the orchestrator sequences
type DailyJobs struct {
	SubscriptionExpiry SubscriptionExpiryFlow
	Revenue            RevenueFlow
	HealthScores       HealthScoreFlow
	SheetSync          SheetSyncFlow
	Growth             GrowthOpportunityFlow
	LeadDigest         LeadDigestFlow
	TimerSweep         TimerSweepFlow
}

type DailyTaskFlowImpl struct {
	db        *gorm.DB
	jobs      DailyJobs
	lock      services.RunLock
	auditRepo repository.AuditLogRepository
	logger    *log.Logger
	clock     func() time.Time
}

// NewDailyTaskFlow builds the orchestrator. lock may be nil, in which case overlapping runs
// rely on the jobs' own dedup keys. auditRepo may be nil to skip run audit rows.
func NewDailyTaskFlow(db *gorm.DB, jobs DailyJobs, lock services.RunLock, auditRepo repository.AuditLogRepository, logger *log.Logger) DailyTaskFlow {
	if logger == nil {
		logger = log.Default()
	}
	return &DailyTaskFlowImpl{
		db:        db,
		jobs:      jobs,
		lock:      lock,
		auditRepo: auditRepo,
		logger:    logger,
		clock:     utils.UTCNow,
	}
}

type dailyJob struct {
	name string
	run  func(ctx context.Context, now time.Time) (status string, fields any, err error)
}

func (f *DailyTaskFlowImpl) Run(ctx context.Context) (*dto.DailyTaskReport, error) {
	if err := f.ping(ctx); err != nil {
		return nil, err
	}

	if f.lock != nil {
		release, err := f.lock.Acquire(ctx)
		switch {
		case errors.Is(err, services.ErrRunLockHeld):
			f.audit(ctx, models.AuditActionDailyTasksSkipped, "Another daily task run is in progress", nil, ErrDailyTasksAlreadyRunning)
			return nil, NewBusinessError("DAILY_TASKS_LOCK_BUSY", "Another daily task run is in progress", ErrDailyTasksAlreadyRunning)
		case err != nil:
			// a lock outage must not cost a day of jobs
			f.logger.Printf("daily tasks: running without lock: %v", err)
		default:
			defer release()
		}
	}

	now := f.clock().UTC()
	report := &dto.DailyTaskReport{
		Timestamp:     now.Format(time.RFC3339),
		TasksExecuted: make([]dto.TaskResult, 0, 7),
	}

	f.logger.Printf("daily tasks: run started at %s", report.Timestamp)
	for _, job := range f.jobList() {
		res := f.runJob(ctx, job, now)
		report.TasksExecuted = append(report.TasksExecuted, res)
	}
	f.logger.Printf("daily tasks: run finished, %d tasks executed", len(report.TasksExecuted))

	f.auditRun(ctx, report)
	return report, nil
}

// runAudit is the metadata of a completed run's audit row
type runAudit struct {
	Timestamp string            `json:"timestamp"`
	Tasks     map[string]string `json:"tasks"`
	Failed    int               `json:"failed"`
}

func (f *DailyTaskFlowImpl) auditRun(ctx context.Context, report *dto.DailyTaskReport) {
	meta := runAudit{Timestamp: report.Timestamp, Tasks: make(map[string]string, len(report.TasksExecuted))}
	for _, t := range report.TasksExecuted {
		meta.Tasks[t.Task] = t.Status
		if t.Status == dto.TaskStatusError {
			meta.Failed++
		}
	}

	var runErr error
	if meta.Failed > 0 {
		runErr = fmt.Errorf("%d of %d tasks failed", meta.Failed, len(report.TasksExecuted))
	}
	f.audit(ctx, models.AuditActionDailyTasksCompleted, "Daily tasks executed", meta, runErr)
}

// audit writes a best-effort audit row; a failed write is only logged
func (f *DailyTaskFlowImpl) audit(ctx context.Context, action, description string, metadata any, runErr error) {
	if f.auditRepo == nil {
		return
	}

	entry := &models.AuditLog{
		Action:      action,
		Description: utils.ToPtr(description),
		Success:     utils.ToPtr(runErr == nil),
	}
	if requestID, ok := ctx.Value(utils.RequestIDKey).(string); ok && requestID != "" {
		entry.RequestID = utils.ToPtr(requestID)
	}
	if runErr != nil {
		entry.ErrorMessage = utils.ToPtr(runErr.Error())
	}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			f.logger.Printf("daily tasks: failed to encode audit metadata: %v", err)
		} else {
			entry.Metadata = datatypes.JSON(raw)
		}
	}

	if err := f.auditRepo.Save(ctx, entry); err != nil {
		f.logger.Printf("daily tasks: failed to write audit log: %v", err)
	}
}

func (f *DailyTaskFlowImpl) ping(ctx context.Context) error {
	sqlDB, err := f.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		return NewBusinessError("DATABASE_UNAVAILABLE", "Database is unreachable", errors.Join(ErrDatabaseUnavailable, err))
	}
	return nil
}

// runJob executes one job inside its own failure boundary. Errors and panics become an
// error entry; they never reach the caller.
func (f *DailyTaskFlowImpl) runJob(ctx context.Context, job dailyJob, now time.Time) (res dto.TaskResult) {
	res.Task = job.name
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			f.logger.Printf("daily tasks: %s panicked: %v\n%s", job.name, r, debug.Stack())
			res = dto.TaskResult{Task: job.name, Status: dto.TaskStatusError, Error: fmt.Sprintf("panic: %v", r)}
		}

		elapsed := time.Since(start)
		dailyTaskRuns.WithLabelValues(job.name, res.Status).Inc()
		dailyTaskDuration.WithLabelValues(job.name).Observe(elapsed.Seconds())
		if res.Status == dto.TaskStatusError {
			f.logger.Printf("daily tasks: %s failed after %s: %s", job.name, elapsed.Round(time.Millisecond), res.Error)
		} else {
			f.logger.Printf("daily tasks: %s %s in %s", job.name, res.Status, elapsed.Round(time.Millisecond))
		}
	}()

	status, fields, err := job.run(ctx, now)
	if err != nil {
		res.Status = dto.TaskStatusError
		res.Error = err.Error()
		return res
	}

	res.Status = status
	res.Fields = fields
	return res
}

func (f *DailyTaskFlowImpl) jobList() []dailyJob {
	j := f.jobs
	return []dailyJob{
		{TaskSubscriptionExpiryCheck, func(ctx context.Context, now time.Time) (string, any, error) {
			if j.SubscriptionExpiry == nil {
				return "", nil, errJobNotConfigured
			}
			r, err := j.SubscriptionExpiry.Run(ctx, now)
			return dto.TaskStatusSuccess, r, err
		}},
		{TaskRevenueCalculation, func(ctx context.Context, now time.Time) (string, any, error) {
			if j.Revenue == nil {
				return "", nil, errJobNotConfigured
			}
			r, err := j.Revenue.Run(ctx, now)
			return dto.TaskStatusSuccess, r, err
		}},
		{TaskHealthScores, func(ctx context.Context, now time.Time) (string, any, error) {
			if j.HealthScores == nil {
				return "", nil, errJobNotConfigured
			}
			r, err := j.HealthScores.Run(ctx, now)
			return dto.TaskStatusSuccess, r, err
		}},
		{TaskSheetsSync, func(ctx context.Context, now time.Time) (string, any, error) {
			if j.SheetSync == nil {
				return "", nil, errJobNotConfigured
			}
			r, err := j.SheetSync.Run(ctx, now)
			if err != nil {
				return "", nil, err
			}
			status := dto.TaskStatusSuccess
			for _, c := range r.Results {
				if c.Status == dto.SheetSyncStatusError {
					status = dto.TaskStatusPartial
					break
				}
			}
			return status, r, nil
		}},
		{TaskGrowthOpportunities, func(ctx context.Context, now time.Time) (string, any, error) {
			if j.Growth == nil {
				return "", nil, errJobNotConfigured
			}
			r, err := j.Growth.Detect(ctx, now)
			if err != nil {
				return "", nil, err
			}
			if !r.Success {
				return dto.TaskStatusPartial, r, nil
			}
			return dto.TaskStatusSuccess, r, nil
		}},
		{TaskLeadDigest, func(ctx context.Context, now time.Time) (string, any, error) {
			if j.LeadDigest == nil {
				return "", nil, errJobNotConfigured
			}
			r, err := j.LeadDigest.Run(ctx, now)
			return dto.TaskStatusSuccess, r, err
		}},
		{TaskDisableExpiredTimers, func(ctx context.Context, now time.Time) (string, any, error) {
			if j.TimerSweep == nil {
				return "", nil, errJobNotConfigured
			}
			r, err := j.TimerSweep.Run(ctx, now)
			return dto.TaskStatusSuccess, r, err
		}},
	}
}

var errJobNotConfigured = errors.New("job is not configured")
