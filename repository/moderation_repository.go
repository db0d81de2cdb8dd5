package repository

import (
	"context"

	"distr/model"

	"gorm.io/gorm"
)

// ModerationRepository defines the interface for moderator profiles and the
// moderation audit trail. Records are never updated; they are only removed
// together with their release.
type ModerationRepository interface {
	CreateModerator(ctx context.Context, moderator *model.Moderator) error
	GetModeratorByID(ctx context.Context, id int64) (*model.Moderator, error)
	GetModeratorByUserID(ctx context.Context, userID int64) (*model.Moderator, error)
	CreateRecord(ctx context.Context, record *model.ModerationRecord) error
	RecordsByRelease(ctx context.Context, releaseID int64) ([]*model.ModerationRecord, error)
	DeleteRecordsByRelease(ctx context.Context, releaseID int64) error
}

// gormModerationRepository implements ModerationRepository with GORM.
type gormModerationRepository struct {
	db *gorm.DB
}

// NewGormModerationRepository creates a GORM moderation repository.
func NewGormModerationRepository(db *gorm.DB) ModerationRepository {
	return &gormModerationRepository{db: db}
}

func (r *gormModerationRepository) CreateModerator(ctx context.Context, moderator *model.Moderator) error {
	return r.db.WithContext(ctx).Create(moderator).Error
}

func (r *gormModerationRepository) GetModeratorByID(ctx context.Context, id int64) (*model.Moderator, error) {
	var moderator model.Moderator
	err := r.db.WithContext(ctx).First(&moderator, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &moderator, nil
}

func (r *gormModerationRepository) GetModeratorByUserID(ctx context.Context, userID int64) (*model.Moderator, error) {
	var moderator model.Moderator
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&moderator).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &moderator, nil
}

func (r *gormModerationRepository) CreateRecord(ctx context.Context, record *model.ModerationRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *gormModerationRepository) RecordsByRelease(ctx context.Context, releaseID int64) ([]*model.ModerationRecord, error) {
	var records []*model.ModerationRecord
	err := r.db.WithContext(ctx).
		Where("release_id = ?", releaseID).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

// DeleteRecordsByRelease exists only for the release-delete cascade.
func (r *gormModerationRepository) DeleteRecordsByRelease(ctx context.Context, releaseID int64) error {
	return r.db.WithContext(ctx).
		Where("release_id = ?", releaseID).
		Delete(&model.ModerationRecord{}).Error
}
