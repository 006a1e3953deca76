package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DailySummarySchedule runs five minutes past midnight in the cron's location.
const DailySummarySchedule = "5 0 * * *"

// AttendanceSummarizer counts the check-ins of one calendar day.
type AttendanceSummarizer interface {
	DailySummary(ctx context.Context, day time.Time) (int64, error)
}

// InitCronJobs registers the scheduled jobs and starts the scheduler.
func InitCronJobs(c *cron.Cron, summarizer AttendanceSummarizer, logger *slog.Logger) error {
	_, err := c.AddFunc(DailySummarySchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		RunDailySummary(ctx, summarizer, time.Now(), logger)
	})
	if err != nil {
		return err
	}

	c.Start()
	logger.Info("cron jobs initialized", "daily_summary", DailySummarySchedule)
	return nil
}

// RunDailySummary logs the check-in count of the day before now.
func RunDailySummary(ctx context.Context, summarizer AttendanceSummarizer, now time.Time, logger *slog.Logger) {
	day := now.AddDate(0, 0, -1)
	count, err := summarizer.DailySummary(ctx, day)
	if err != nil {
		logger.ErrorContext(ctx, "daily check-in summary failed", "day", day.Format(time.DateOnly), "error", err)
		return
	}
	logger.InfoContext(ctx, "daily check-in summary", "day", day.Format(time.DateOnly), "checkins", count)
}
