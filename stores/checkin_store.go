package stores

import (
	"context"
	"time"

	"membergate/models"

	"gorm.io/gorm"
)

type GormCheckinStore struct {
	db *gorm.DB
}

func NewCheckinStore(db *gorm.DB) *GormCheckinStore {
	return &GormCheckinStore{db: db}
}

func (s *GormCheckinStore) Create(ctx context.Context, memberID uint, at time.Time) (models.CheckinRecord, error) {
	record := models.CheckinRecord{
		MemberID:  memberID,
		Timestamp: at.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return models.CheckinRecord{}, err
	}
	return record, nil
}

// ListAll returns every check-in joined with the member's code and display
// name, oldest first. Check-ins of deleted members keep empty member fields.
func (s *GormCheckinStore) ListAll(ctx context.Context) ([]models.CheckinEntry, error) {
	entries := []models.CheckinEntry{}
	err := s.db.WithContext(ctx).
		Table("checkin_records AS c").
		Select("c.id, c.member_id, COALESCE(m.code, '') AS code, COALESCE(m.display_name, '') AS display_name, c.timestamp").
		Joins("LEFT JOIN members AS m ON m.id = c.member_id").
		Order("c.timestamp ASC").
		Order("c.id ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// CountBetween counts check-ins with from <= timestamp < to.
func (s *GormCheckinStore) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.CheckinRecord{}).
		Where("timestamp >= ? AND timestamp < ?", from.UTC(), to.UTC()).
		Count(&count).Error
	return count, err
}
