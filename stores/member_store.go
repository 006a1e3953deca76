package stores

import (
	"context"
	"errors"

	"membergate/models"

	"gorm.io/gorm"
)

type GormMemberStore struct {
	db *gorm.DB
}

func NewMemberStore(db *gorm.DB) *GormMemberStore {
	return &GormMemberStore{db: db}
}

func (s *GormMemberStore) FindByCode(ctx context.Context, code string) (models.Member, error) {
	var member models.Member
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Member{}, ErrMemberNotFound
	}
	return member, err
}

func (s *GormMemberStore) FindByID(ctx context.Context, id uint) (models.Member, error) {
	return findByID(s.db.WithContext(ctx), id)
}

func (s *GormMemberStore) Create(ctx context.Context, member *models.Member) error {
	if err := s.db.WithContext(ctx).Create(member).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (s *GormMemberStore) Update(ctx context.Context, id uint, fields models.MemberFields) (models.Member, error) {
	var updated models.Member
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := findByID(tx, id)
		if err != nil {
			return err
		}
		if fields.Empty() {
			updated = member
			return nil
		}

		changes := map[string]any{}
		if fields.DisplayName != nil {
			changes["display_name"] = *fields.DisplayName
		}
		if fields.Comment != nil {
			changes["comment"] = *fields.Comment
		}
		if fields.SecretHash != nil {
			changes["secret_hash"] = *fields.SecretHash
		}
		if fields.Active != nil {
			changes["active"] = *fields.Active
		}
		if err := tx.Model(&member).Updates(changes).Error; err != nil {
			return err
		}

		updated, err = findByID(tx, id)
		return err
	})
	if err != nil {
		return models.Member{}, err
	}
	return updated, nil
}

func (s *GormMemberStore) Delete(ctx context.Context, id uint) (models.Member, error) {
	var deleted models.Member
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := findByID(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.Member{}, id).Error; err != nil {
			return err
		}
		deleted = member
		return nil
	})
	if err != nil {
		return models.Member{}, err
	}
	return deleted, nil
}

func (s *GormMemberStore) ListAll(ctx context.Context) ([]models.MemberSummary, error) {
	summaries := []models.MemberSummary{}
	err := s.db.WithContext(ctx).
		Model(&models.Member{}).
		Select("id", "code", "display_name", "comment").
		Order("code ASC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *GormMemberStore) HasAdmin(ctx context.Context) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func findByID(db *gorm.DB, id uint) (models.Member, error) {
	var member models.Member
	err := db.First(&member, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Member{}, ErrMemberNotFound
	}
	return member, err
}
