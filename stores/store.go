package stores

import (
	"context"
	"errors"
	"time"

	"membergate/models"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrDuplicateCode  = errors.New("member code already exists")
)

// MemberStore is the credential store. Code uniqueness is enforced by the
// underlying unique index, never by a read-then-write check.
type MemberStore interface {
	FindByCode(ctx context.Context, code string) (models.Member, error)
	FindByID(ctx context.Context, id uint) (models.Member, error)
	Create(ctx context.Context, member *models.Member) error
	Update(ctx context.Context, id uint, fields models.MemberFields) (models.Member, error)
	Delete(ctx context.Context, id uint) (models.Member, error)
	ListAll(ctx context.Context) ([]models.MemberSummary, error)
	HasAdmin(ctx context.Context) (bool, error)
}

// CheckinStore is the append-only attendance log.
type CheckinStore interface {
	Create(ctx context.Context, memberID uint, at time.Time) (models.CheckinRecord, error)
	ListAll(ctx context.Context) ([]models.CheckinEntry, error)
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
}

var (
	_ MemberStore  = (*GormMemberStore)(nil)
	_ CheckinStore = (*GormCheckinStore)(nil)
)
