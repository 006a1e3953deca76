package services

import (
	"context"
	"io"
	"log/slog"
	"time"
	_ "time/tzdata"

	apperrors "membergate/errors"
	"membergate/models"
	"membergate/services/logger"
	"membergate/services/notification"
	"membergate/stores"

	"github.com/prometheus/client_golang/prometheus"
)

type AttendanceServiceOptions struct {
	Auth     *AuthService
	Checkins stores.CheckinStore
	Members  stores.MemberStore
	// Notifier is optional; nil disables the live feed.
	Notifier   notification.Service
	Location   *time.Location
	Logger     *slog.Logger
	Registerer prometheus.Registerer
	Now        func() time.Time
}

// AttendanceService is the append-only check-in log.
type AttendanceService struct {
	auth     *AuthService
	checkins stores.CheckinStore
	members  stores.MemberStore
	notifier notification.Service
	location *time.Location
	logger   *slog.Logger
	metrics  *attendanceMetrics
	now      func() time.Time
}

func NewAttendanceService(opts AttendanceServiceOptions) *AttendanceService {
	s := &AttendanceService{
		auth:     opts.Auth,
		checkins: opts.Checkins,
		members:  opts.Members,
		notifier: opts.Notifier,
		location: opts.Location,
		logger:   logger.OrDiscard(opts.Logger).With("component", "attendance"),
		metrics:  newAttendanceMetrics(opts.Registerer),
		now:      opts.Now,
	}
	if s.location == nil {
		s.location = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// RecordCheckin stamps a check-in with the caller's own member id. Repeated
// check-ins are all kept.
func (s *AttendanceService) RecordCheckin(ctx context.Context, caller Principal) (models.CheckinRecord, error) {
	if err := s.auth.Require(caller, models.RoleMember); err != nil {
		return models.CheckinRecord{}, err
	}

	record, err := s.checkins.Create(ctx, caller.MemberID, s.now())
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to record check-in", "member_id", caller.MemberID, "error", err)
		return models.CheckinRecord{}, apperrors.Internal("failed to record check-in", err)
	}

	s.metrics.checkins.Inc()
	s.logger.InfoContext(ctx, "check-in recorded", "member_id", caller.MemberID, "checkin_id", record.ID)
	s.notify(ctx, caller, record)
	return record, nil
}

// ListCheckins returns every check-in ordered by time, oldest first.
func (s *AttendanceService) ListCheckins(ctx context.Context, caller Principal) ([]models.CheckinEntry, error) {
	if err := s.auth.Require(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	entries, err := s.checkins.ListAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list check-ins", "error", err)
		return nil, apperrors.Internal("failed to list check-ins", err)
	}
	return entries, nil
}

// ExportCheckins writes the full log to w as an XLSX workbook.
func (s *AttendanceService) ExportCheckins(ctx context.Context, caller Principal, w io.Writer) error {
	entries, err := s.ListCheckins(ctx, caller)
	if err != nil {
		return err
	}
	if err := writeCheckinWorkbook(w, entries, s.location); err != nil {
		s.logger.ErrorContext(ctx, "failed to export check-ins", "error", err)
		return apperrors.Internal("failed to export check-ins", err)
	}
	s.logger.InfoContext(ctx, "check-ins exported", "rows", len(entries), "by", caller.MemberID)
	return nil
}

// DailySummary counts the check-ins of the calendar day containing day, in
// the configured location. It runs from the scheduler without a caller.
func (s *AttendanceService) DailySummary(ctx context.Context, day time.Time) (int64, error) {
	local := day.In(s.location)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
	to := from.AddDate(0, 0, 1)

	count, err := s.checkins.CountBetween(ctx, from, to)
	if err != nil {
		return 0, apperrors.Internal("failed to count check-ins", err)
	}
	return count, nil
}

func (s *AttendanceService) Location() *time.Location {
	return s.location
}

// Now reads the service clock in the configured location.
func (s *AttendanceService) Now() time.Time {
	return s.now().In(s.location)
}

func (s *AttendanceService) notify(ctx context.Context, caller Principal, record models.CheckinRecord) {
	if s.notifier == nil {
		return
	}
	event := notification.CheckinEvent{
		CheckinID: record.ID,
		MemberID:  record.MemberID,
		Code:      caller.Code,
		Timestamp: record.Timestamp,
	}
	if s.members != nil {
		if member, err := s.members.FindByID(ctx, caller.MemberID); err == nil {
			event.DisplayName = member.DisplayName
		}
	}
	message, err := notification.NewMessageBuilder(event).Build()
	if err != nil {
		s.logger.WarnContext(ctx, "failed to encode check-in event", "error", err)
		return
	}
	if err := s.notifier.SendMessage(message); err != nil {
		s.logger.WarnContext(ctx, "failed to broadcast check-in", "error", err)
	}
}
