package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"vnbank.backend/internal/domain/entities"
	"vnbank.backend/pkg/logger"
)

// ReminderProcessor fires the reminders due at now
type ReminderProcessor interface {
	ProcessDue(ctx context.Context, now time.Time) (entities.ReminderRunSummary, error)
}

// ReminderJob polls for due reminders on a cron schedule
type ReminderJob struct {
	processor ReminderProcessor
	schedule  string
	cron      *cron.Cron
	ctx       context.Context
	now       func() time.Time
}

// NewReminderJob creates a job that runs processor on schedule,
// e.g. "@every 1m" or "*/5 * * * *".
func NewReminderJob(processor ReminderProcessor, schedule string) *ReminderJob {
	cronLogger := zapCronLogger{}
	return &ReminderJob{
		processor: processor,
		schedule:  schedule,
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		ctx: context.Background(),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Start registers the job and starts the scheduler. The job stops when ctx is done.
func (j *ReminderJob) Start(ctx context.Context) error {
	j.ctx = ctx
	if _, err := j.cron.AddFunc(j.schedule, j.runOnce); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", j.schedule, err)
	}
	j.cron.Start()
	logger.Info(ctx, "Reminder job started", zap.String("schedule", j.schedule))

	go func() {
		<-ctx.Done()
		j.Stop()
	}()
	return nil
}

// Stop stops the scheduler and waits for a running tick to finish
func (j *ReminderJob) Stop() {
	<-j.cron.Stop().Done()
}

func (j *ReminderJob) runOnce() {
	ctx := j.ctx
	if ctx.Err() != nil {
		return
	}
	summary, err := j.processor.ProcessDue(ctx, j.now())
	if err != nil {
		logger.Error(ctx, "Error processing due reminders", zap.Error(err))
		return
	}
	if summary.Due == 0 {
		return
	}
	logger.Info(ctx, "Processed due reminders",
		zap.Int("due", summary.Due),
		zap.Int("fired", summary.Fired),
		zap.Int("failed", summary.Failed),
	)
}

// zapCronLogger routes cron's own logging through the application logger
type zapCronLogger struct{}

func (zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.GetLogger().Sugar().Debugw("cron: "+msg, keysAndValues...)
}

func (zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.GetLogger().Sugar().Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
