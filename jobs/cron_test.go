package jobs

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"membergate/services/logger"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSummarizer struct {
	day   time.Time
	count int64
	err   error
}

func (f *fakeSummarizer) DailySummary(_ context.Context, day time.Time) (int64, error) {
	f.day = day
	return f.count, f.err
}

func TestRunDailySummaryReportsPreviousDay(t *testing.T) {
	var buf bytes.Buffer
	summarizer := &fakeSummarizer{count: 12}
	now := time.Date(2026, 3, 14, 0, 5, 0, 0, time.UTC)

	RunDailySummary(context.Background(), summarizer, now, logger.NewWithWriter(&buf, "info", "json"))

	assert.Equal(t, 13, summarizer.day.Day())
	assert.Contains(t, buf.String(), `"day":"2026-03-13"`)
	assert.Contains(t, buf.String(), `"checkins":12`)
}

func TestRunDailySummaryLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	summarizer := &fakeSummarizer{err: errors.New("db down")}

	RunDailySummary(context.Background(), summarizer, time.Now(), logger.NewWithWriter(&buf, "info", "json"))

	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), "db down")
}

func TestInitCronJobsRegistersSchedule(t *testing.T) {
	c := cron.New()
	require.NoError(t, InitCronJobs(c, &fakeSummarizer{}, logger.Discard()))
	defer c.Stop()

	entries := c.Entries()
	require.Len(t, entries, 1)

	from := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)
	next := entries[0].Schedule.Next(from)
	assert.True(t, time.Date(2026, 3, 15, 0, 5, 0, 0, time.Local).Equal(next), next.String())
}
